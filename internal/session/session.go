// Package session implements the exam session state engine: draft answers,
// the write-once grading ledger, the running score, and the assistant panel
// state for one loaded paper, orchestrated against the external grading and
// assistant services by the Controller.
package session

import (
	"github.com/paperdrill/backend/internal/decompose"
	"github.com/paperdrill/backend/internal/model"
)

// Session is the complete mutable state for one loaded exam paper. A new
// upload replaces the Session wholesale; it is never merged or persisted.
// All access goes through the Controller, which owns the locking.
type Session struct {
	// Epoch identifies which upload this session belongs to. External-call
	// completions carry the epoch they started under and are discarded when
	// it no longer matches (unit identifiers alone can collide across
	// uploads, so they are not enough to detect staleness).
	Epoch uint64

	Paper model.ExamPaper

	Answers   *AnswerStore
	Ledger    *Ledger
	Assistant *Assistant

	questions map[int]model.Question
	units     map[model.UnitID]decompose.Unit
	unitOrder map[int][]decompose.Unit // per question, in text order
}

func newSession(epoch uint64, paper model.ExamPaper) *Session {
	s := &Session{
		Epoch:     epoch,
		Paper:     paper,
		Answers:   NewAnswerStore(),
		Ledger:    NewLedger(),
		Assistant: NewAssistant(),
		questions: make(map[int]model.Question),
		units:     make(map[model.UnitID]decompose.Unit),
		unitOrder: make(map[int][]decompose.Unit),
	}
	for _, q := range paper.Questions {
		s.questions[q.ID] = q
		units := decompose.Units(q)
		s.unitOrder[q.ID] = units
		for _, u := range units {
			s.units[u.ID] = u
		}
	}
	return s
}

func (s *Session) unit(id model.UnitID) (decompose.Unit, bool) {
	u, ok := s.units[id]
	return u, ok
}

func (s *Session) question(n int) (model.Question, bool) {
	q, ok := s.questions[n]
	return q, ok
}
