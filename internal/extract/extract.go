// Package extract speaks to the exam extraction service: the upstream that
// turns an uploaded scanned paper into a structured question set. The
// extraction itself (PDF rasterizing, vision parsing) lives in that
// service; this package only carries its HTTP contract and normalizes what
// comes back.
package extract

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/paperdrill/backend/internal/model"
)

// Extractor turns an uploaded exam file into a structured paper.
type Extractor interface {
	Extract(ctx context.Context, filename string, file io.Reader) (model.ExamPaper, error)
}

// normalize fills the fields a paper must have before a session loads it:
// every paper gets an exam id (grade requests are keyed by it), and the
// total is recomputed from the per-question points when the service left
// it at zero.
func normalize(paper model.ExamPaper) model.ExamPaper {
	if paper.ExamID == "" {
		paper.ExamID = uuid.NewString()
	}
	if paper.TotalPoints == 0 {
		for _, q := range paper.Questions {
			paper.TotalPoints += q.Points
		}
	}
	return paper
}
