package extract

import (
	"context"
	"io"

	"github.com/paperdrill/backend/internal/model"
)

// MockExtractor returns a canned paper for tests.
type MockExtractor struct {
	Paper model.ExamPaper
	Err   error
}

var _ Extractor = (*MockExtractor)(nil)

// Extract returns the canned paper after normalization, so tests get the
// same exam-id and total-points guarantees the HTTP client provides.
func (m *MockExtractor) Extract(_ context.Context, _ string, _ io.Reader) (model.ExamPaper, error) {
	if m.Err != nil {
		return model.ExamPaper{}, m.Err
	}
	return normalize(m.Paper), nil
}
