package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/paperdrill/backend/internal/model"
)

// HTTPExtractor posts the uploaded file to the extraction service and
// decodes the paper it returns.
type HTTPExtractor struct {
	url    string
	client *http.Client // reused across calls
}

var _ Extractor = (*HTTPExtractor)(nil)

// NewHTTPExtractor creates an extractor client for the given base URL.
// Vision parsing of a multi-page paper is slow, hence the long timeout.
func NewHTTPExtractor(baseURL string) *HTTPExtractor {
	return &HTTPExtractor{
		url: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

// Extract uploads the file as multipart form data and returns the
// normalized paper.
func (e *HTTPExtractor) Extract(ctx context.Context, filename string, file io.Reader) (model.ExamPaper, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return model.ExamPaper{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return model.ExamPaper{}, fmt.Errorf("copy upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return model.ExamPaper{}, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/api/upload", &buf)
	if err != nil {
		return model.ExamPaper{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return model.ExamPaper{}, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return model.ExamPaper{}, fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var paper model.ExamPaper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return model.ExamPaper{}, fmt.Errorf("decode extraction response: %w", err)
	}
	return normalize(paper), nil
}
