package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdrill/backend/internal/assist"
	"github.com/paperdrill/backend/internal/extract"
	"github.com/paperdrill/backend/internal/grade"
	"github.com/paperdrill/backend/internal/i18n"
	"github.com/paperdrill/backend/internal/model"
	"github.com/paperdrill/backend/internal/session"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testPaper() model.ExamPaper {
	return model.ExamPaper{
		ExamID: "exam1",
		Title:  "Mathematics 101",
		Questions: []model.Question{
			{ID: 1, Text: "What is 2+2?", Type: model.TypeShortAnswer, Points: 5},
			{ID: 3, Text: "Pick the prime.", Type: model.TypeMultipleChoice, Options: []string{"A) 4", "B) 5", "C) 6"}, Points: 5},
		},
		TotalPoints: 10,
		AnswerKey:   map[string]string{"1": "4", "3": "B"},
	}
}

type testServer struct {
	router    chi.Router
	extractor *extract.MockExtractor
	assistant *assist.MockClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	keys := grade.NewKeyGrader()
	mock := &assist.MockClient{Response: "a hint"}
	reg := assist.NewRegistry()
	reg.Register("mock", mock)
	engine := session.NewController(keys, reg)
	extractor := &extract.MockExtractor{Paper: testPaper()}

	r := chi.NewRouter()
	New(engine, extractor, keys).Routes(r)
	return &testServer{router: r, extractor: extractor, assistant: mock}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) upload(t *testing.T, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, "%PDF-fake")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestUploadLoadsSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.upload(t, "exam.pdf")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paper := decodeBody[model.ExamPaper](t, rec)
	assert.Equal(t, "exam1", paper.ExamID)

	rec = ts.do(t, http.MethodGet, "/api/exam", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[session.State](t, rec)
	assert.Equal(t, "Mathematics 101", state.Title)
	assert.Len(t, state.Questions, 2)
	assert.Equal(t, model.Score{}, state.Score)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.upload(t, "exam.docx")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only PDF files")
}

func TestUploadExtractionFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.extractor.Err = errors.New("vision model unavailable")
	rec := ts.upload(t, "exam.pdf")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestExamBeforeUpload(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/exam", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAnswerFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")

	rec := ts.do(t, http.MethodPut, "/api/answers/3", map[string]string{"answer": "b"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[model.AnswerResult](t, rec)
	require.NotNil(t, res.IsCorrect)
	assert.True(t, *res.IsCorrect)
	assert.Equal(t, 5, res.PointsAwarded)
	assert.Equal(t, "Correct! You earned 5 points.", res.Message)

	rec = ts.do(t, http.MethodGet, "/api/score", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	score := decodeBody[model.Score](t, rec)
	assert.Equal(t, model.Score{Awarded: 5, Possible: 5}, score)
}

func TestSubmitCarriesAnswer(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")

	rec := ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 1, "answer": "5"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[model.AnswerResult](t, rec)
	require.NotNil(t, res.IsCorrect)
	assert.False(t, *res.IsCorrect)
	assert.Equal(t, "4", res.CorrectAnswer)
}

func TestSubmitDuplicateReturnsRecordedResult(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")

	first := ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 3, "answer": "B"})
	require.Equal(t, http.StatusOK, first.Code)

	// A different answer in the duplicate changes nothing.
	again := ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 3, "answer": "C"})
	require.Equal(t, http.StatusOK, again.Code)
	assert.JSONEq(t, first.Body.String(), again.Body.String())
}

func TestSubmitErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code, "no session yet")

	ts.upload(t, "exam.pdf")

	rec = ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "no draft")

	rec = ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": 42, "answer": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown unit")

	req := httptest.NewRequest(http.MethodPost, "/api/submit-answer", strings.NewReader("{not json"))
	raw := httptest.NewRecorder()
	ts.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code, "malformed body")
}

func TestSetDraftBadUnitID(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")

	rec := ts.do(t, http.MethodPut, "/api/answers/abc", map[string]string{"answer": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubPartDraftAndSubmitWire(t *testing.T) {
	paper := testPaper()
	paper.Questions = append(paper.Questions, model.Question{
		ID: 7, Text: "Work through:\n\na) 12 × 4\n\nb) 144 ÷ 12", Type: model.TypeShortAnswer, Points: 4,
	})
	paper.AnswerKey["7-a)"] = "48"
	paper.AnswerKey["7-b)"] = "12"

	ts := newTestServer(t)
	ts.extractor.Paper = paper
	ts.upload(t, "exam.pdf")

	rec := ts.do(t, http.MethodPut, "/api/answers/7-b)", map[string]string{"answer": "12"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/submit-answer", map[string]any{"question_id": "7-b)"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[model.AnswerResult](t, rec)
	require.NotNil(t, res.IsCorrect)
	assert.True(t, *res.IsCorrect)
	assert.Equal(t, 2, res.PointsPossible, "parent points split across keyed sub-parts")
}

func TestAssistantFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")

	rec := ts.do(t, http.MethodPost, "/api/assistant/toggle", map[string]any{"question_id": 1})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/assistant/question", map[string]string{"text": "How do I add?"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/ask-ai", map[string]any{"question_id": 1, "model": "mock"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[model.AIResponse](t, rec)
	assert.Equal(t, "mock", resp.Model)
	assert.Equal(t, "a hint", resp.Response)

	require.Equal(t, 1, ts.assistant.CallCount())
	assert.Equal(t, "How do I add?", ts.assistant.Calls[0].UserQuestion)

	rec = ts.do(t, http.MethodGet, "/api/exam", nil)
	state := decodeBody[session.State](t, rec)
	require.NotNil(t, state.AssistantOpen)
	assert.Equal(t, 1, *state.AssistantOpen)
	assert.Empty(t, state.AssistantDraft)
	assert.Equal(t, "a hint", state.AIResponses[1].Response)
}

func TestAskErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")

	rec := ts.do(t, http.MethodPost, "/api/ask-ai", map[string]any{"question_id": 1, "model": "mock"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "empty question")

	rec = ts.do(t, http.MethodPost, "/api/ask-ai", map[string]any{"question_id": 1, "model": "nope", "user_question": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown model")

	rec = ts.do(t, http.MethodPost, "/api/ask-ai", map[string]any{"question_id": 42, "model": "mock", "user_question": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown question")

	ts.assistant.Err = context.DeadlineExceeded
	rec = ts.do(t, http.MethodPost, "/api/ask-ai", map[string]any{"question_id": 1, "model": "mock", "user_question": "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code, "provider failure")
}

func TestToggleUnknownQuestion(t *testing.T) {
	ts := newTestServer(t)
	ts.upload(t, "exam.pdf")
	rec := ts.do(t, http.MethodPost, "/api/assistant/toggle", map[string]any{"question_id": 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
