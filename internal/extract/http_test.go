package extract

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdrill/backend/internal/model"
)

func TestHTTPExtractorUploads(t *testing.T) {
	paper := model.ExamPaper{
		ExamID: "exam1",
		Title:  "Algebra",
		Questions: []model.Question{
			{ID: 1, Text: "Solve for x.", Type: model.TypeShortAnswer, Points: 3},
		},
		TotalPoints: 3,
		AnswerKey:   map[string]string{"1": "7"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "exam.pdf", header.Filename)

		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-fake", string(body))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(paper))
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.URL + "/")
	got, err := e.Extract(context.Background(), "exam.pdf", strings.NewReader("%PDF-fake"))
	require.NoError(t, err)
	assert.Equal(t, paper, got)
}

func TestHTTPExtractorErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported file type", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.URL)
	_, err := e.Extract(context.Background(), "exam.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestHTTPExtractorBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.URL)
	_, err := e.Extract(context.Background(), "exam.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode extraction response")
}

func TestNormalizeFillsDefaults(t *testing.T) {
	got := normalize(model.ExamPaper{
		Questions: []model.Question{{ID: 1, Points: 2}, {ID: 2, Points: 4}},
	})
	assert.NotEmpty(t, got.ExamID)
	assert.Equal(t, 6, got.TotalPoints)

	// Supplied values win.
	got = normalize(model.ExamPaper{ExamID: "keep", TotalPoints: 10})
	assert.Equal(t, "keep", got.ExamID)
	assert.Equal(t, 10, got.TotalPoints)
}
