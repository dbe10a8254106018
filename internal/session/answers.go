package session

import "github.com/paperdrill/backend/internal/model"

// AnswerStore holds the user's draft answers, keyed by unit identifier.
// Drafts are freely overwritten until the unit is graded; the freeze rule
// (no edits after a ledger entry exists) is enforced by the Controller,
// which owns both stores.
type AnswerStore struct {
	drafts map[model.UnitID]string
}

// NewAnswerStore returns an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{drafts: make(map[model.UnitID]string)}
}

// Set creates or overwrites the draft for a unit.
func (s *AnswerStore) Set(id model.UnitID, text string) {
	s.drafts[id] = text
}

// Get returns the stored draft, or the empty string when none exists.
func (s *AnswerStore) Get(id model.UnitID) string {
	return s.drafts[id]
}
