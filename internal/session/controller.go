package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/paperdrill/backend/internal/assist"
	"github.com/paperdrill/backend/internal/grade"
	"github.com/paperdrill/backend/internal/model"
)

// Asker routes an assistant request to a provider chosen by model name.
// *assist.Registry is the production implementation.
type Asker interface {
	Ask(ctx context.Context, modelName string, req assist.Request) (model.AIResponse, error)
}

// Controller owns the session state and orchestrates it against the
// external grading and assistant services.
//
// All state lives behind one mutex, the Go stand-in for the original
// single-threaded event loop: every mutation happens in one critical
// section, and external calls run with the mutex released so other units
// stay independently editable and submittable while a call is in flight.
// Write-once ledger entries plus the per-unit in-flight set make duplicate
// submissions no-ops under any interleaving, and the session epoch makes
// completions from a replaced session detectable and discardable.
type Controller struct {
	grader grade.Grader
	assist Asker

	mu       sync.Mutex
	epoch    uint64
	sess     *Session
	inflight map[model.UnitID]struct{}
}

// NewController creates a Controller with no session loaded.
func NewController(g grade.Grader, a Asker) *Controller {
	return &Controller{
		grader:   g,
		assist:   a,
		inflight: make(map[model.UnitID]struct{}),
	}
}

// LoadSession atomically replaces all session state with a fresh session
// for the given paper: empty drafts, empty ledger, score back to zero,
// assistant closed. Completions still in flight for the previous session
// are discarded by the epoch check when they land.
func (c *Controller) LoadSession(paper model.ExamPaper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.sess = newSession(c.epoch, paper)
	c.inflight = make(map[model.UnitID]struct{})
	slog.Info("session loaded",
		"exam_id", paper.ExamID,
		"questions", len(paper.Questions),
		"epoch", c.epoch,
	)
}

// SetDraft records the user's draft answer for a unit. Edits are declined
// without error when no session is loaded, when the unit does not exist in
// the loaded paper, or when the unit already has a ledger entry (the unit
// is frozen once graded).
func (c *Controller) SetDraft(id model.UnitID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return
	}
	if _, ok := c.sess.unit(id); !ok {
		return
	}
	if c.sess.Ledger.Has(id) {
		return
	}
	c.sess.Answers.Set(id, text)
}

// Draft returns the current draft for a unit, or "" when none exists.
func (c *Controller) Draft(id model.UnitID) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.Answers.Get(id)
}

// Score returns the running totals, recomputed from the ledger.
func (c *Controller) Score() model.Score {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return model.Score{}
	}
	return c.sess.Ledger.Score()
}

// Result returns the recorded grading result for a unit, if any.
func (c *Controller) Result(id model.UnitID) (model.AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return model.AnswerResult{}, false
	}
	return c.sess.Ledger.Get(id)
}

// Submit grades the current draft for a unit and records the result.
//
// Preconditions: a session is loaded, the unit exists, its draft is
// non-empty, no result is recorded yet, and no submission for it is already
// in flight. Failures return a sentinel error and change nothing; an
// already-graded unit additionally returns its existing entry so callers
// can re-render it.
//
// The grading call runs with the state unlocked. If the session is replaced
// while the call is in flight, the late result is discarded and
// ErrStaleSession returned. A grader failure leaves the unit unsubmitted
// and retriable.
func (c *Controller) Submit(ctx context.Context, id model.UnitID) (model.AnswerResult, error) {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return model.AnswerResult{}, ErrNoSession
	}
	if res, ok := c.sess.Ledger.Get(id); ok {
		c.mu.Unlock()
		return res, ErrAlreadySubmitted
	}
	if _, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		return model.AnswerResult{}, ErrInFlight
	}
	if _, ok := c.sess.unit(id); !ok {
		c.mu.Unlock()
		return model.AnswerResult{}, ErrUnknownUnit
	}
	q, _ := c.sess.question(id.Question)
	answer := c.sess.Answers.Get(id)
	if strings.TrimSpace(answer) == "" {
		c.mu.Unlock()
		return model.AnswerResult{}, ErrNoDraft
	}
	epoch := c.sess.Epoch
	examID := c.sess.Paper.ExamID
	c.inflight[id] = struct{}{}
	c.mu.Unlock()

	res, err := c.grader.Grade(ctx, grade.Request{
		UnitID:       id,
		Answer:       answer,
		QuestionText: q.Text,
		ExamID:       examID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || c.sess.Epoch != epoch {
		// The paper changed while the grade was in flight. The result
		// belongs to a dead session; the new one must not see it.
		slog.Debug("discarding stale grading result", "unit", id, "epoch", epoch)
		return model.AnswerResult{}, ErrStaleSession
	}
	delete(c.inflight, id)
	if err != nil {
		return model.AnswerResult{}, fmt.Errorf("grade unit %s: %w", id, err)
	}
	res.UnitID = id
	res.Submitted = true
	c.sess.Ledger.Record(res)
	return res, nil
}

// ToggleAssistant opens the assistant panel for a question, closing any
// other open panel; toggling the open question closes it.
func (c *Controller) ToggleAssistant(questionNumber int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return ErrNoSession
	}
	if _, ok := c.sess.question(questionNumber); !ok {
		return ErrUnknownQuestion
	}
	c.sess.Assistant.Toggle(questionNumber)
	return nil
}

// SetAssistantDraft replaces the draft question text for the assistant.
func (c *Controller) SetAssistantDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return
	}
	c.sess.Assistant.SetDraft(text)
}

// Ask sends the current assistant draft about a question to the chosen
// model, with the question's text and the user's current draft answer as
// context. On success the response is stored for the question and the
// draft cleared. On failure any previously stored response stays untouched
// and the unit of work remains retriable.
func (c *Controller) Ask(ctx context.Context, questionNumber int, modelName string) (model.AIResponse, error) {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return model.AIResponse{}, ErrNoSession
	}
	q, ok := c.sess.question(questionNumber)
	if !ok {
		c.mu.Unlock()
		return model.AIResponse{}, ErrUnknownQuestion
	}
	userQuestion := c.sess.Assistant.Draft()
	if strings.TrimSpace(userQuestion) == "" {
		c.mu.Unlock()
		return model.AIResponse{}, ErrEmptyQuestion
	}
	answerContext := c.sess.Answers.Get(model.QuestionUnit(questionNumber))
	epoch := c.sess.Epoch
	c.mu.Unlock()

	resp, err := c.assist.Ask(ctx, modelName, assist.Request{
		QuestionText:  q.Text,
		UserQuestion:  userQuestion,
		AnswerContext: answerContext,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || c.sess.Epoch != epoch {
		slog.Debug("discarding stale assistant response", "question", questionNumber, "epoch", epoch)
		return model.AIResponse{}, ErrStaleSession
	}
	if err != nil {
		return model.AIResponse{}, fmt.Errorf("ask %s about question %d: %w", modelName, questionNumber, err)
	}
	c.sess.Assistant.setResponse(questionNumber, resp)
	c.sess.Assistant.clearDraft()
	return resp, nil
}
