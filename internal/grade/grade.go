// Package grade defines the grading boundary of the session engine and the
// answer-key grader used when the extraction service supplied a key.
package grade

import (
	"context"

	"github.com/paperdrill/backend/internal/model"
)

// Request carries everything the grading exchange needs for one unit. For a
// sub-part of a composite question, Answer is that sub-part's own draft and
// QuestionText is the owning question's full text.
type Request struct {
	UnitID       model.UnitID
	Answer       string
	QuestionText string
	ExamID       string
}

// Grader grades a single unit's answer. Implementations may consult an
// answer key, call a remote service, or return canned results (tests).
type Grader interface {
	Grade(ctx context.Context, req Request) (model.AnswerResult, error)
}

// GraderFunc adapts a function to the Grader interface.
type GraderFunc func(ctx context.Context, req Request) (model.AnswerResult, error)

// Grade calls f.
func (f GraderFunc) Grade(ctx context.Context, req Request) (model.AnswerResult, error) {
	return f(ctx, req)
}
