// Package assist talks to the AI tutoring providers. Each provider answers
// a student's free-form question about one exam question; the Registry
// picks the provider per request by model name.
package assist

import "context"

// Request is one tutoring question. AnswerContext carries the student's
// current draft answer for the question, which may be empty.
type Request struct {
	QuestionText  string
	UserQuestion  string
	AnswerContext string
}

// Client answers a student's question about an exam question and returns
// the explanation text.
type Client interface {
	Ask(ctx context.Context, req Request) (string, error)
}

// contextText merges the question with the student's draft answer the way
// the tutor prompt expects it.
func contextText(req Request) string {
	if req.AnswerContext == "" {
		return req.QuestionText
	}
	return req.QuestionText + "\n" + req.AnswerContext
}
