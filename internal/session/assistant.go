package session

import "github.com/paperdrill/backend/internal/model"

// Assistant holds the per-session AI helper state: which question's panel
// is open (at most one across the whole session), the draft question to
// send, and the last response per question number. It never touches answers
// or grading results.
type Assistant struct {
	open      *int
	draft     string
	responses map[int]model.AIResponse
}

// NewAssistant returns a closed assistant with no history.
func NewAssistant() *Assistant {
	return &Assistant{responses: make(map[int]model.AIResponse)}
}

// Toggle opens the panel for question n, closing whichever was open.
// Toggling the already-open question closes it.
func (a *Assistant) Toggle(n int) {
	if a.open != nil && *a.open == n {
		a.open = nil
		return
	}
	a.open = &n
}

// Open returns the question number whose panel is open, if any.
func (a *Assistant) Open() (int, bool) {
	if a.open == nil {
		return 0, false
	}
	return *a.open, true
}

// SetDraft replaces the draft question text. Free-form, no validation.
func (a *Assistant) SetDraft(text string) { a.draft = text }

// Draft returns the current draft question text.
func (a *Assistant) Draft() string { return a.draft }

func (a *Assistant) clearDraft() { a.draft = "" }

// Response returns the last stored response for a question, if any.
func (a *Assistant) Response(n int) (model.AIResponse, bool) {
	r, ok := a.responses[n]
	return r, ok
}

// Responses returns all stored responses keyed by question number.
func (a *Assistant) Responses() map[int]model.AIResponse { return a.responses }

func (a *Assistant) setResponse(n int, r model.AIResponse) { a.responses[n] = r }
