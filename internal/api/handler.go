// Package api exposes the session engine over a JSON API. Handlers only
// decode requests, call the engine, and project its state; every rule about
// what is allowed lives in internal/session.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paperdrill/backend/internal/assist"
	"github.com/paperdrill/backend/internal/extract"
	"github.com/paperdrill/backend/internal/grade"
	"github.com/paperdrill/backend/internal/model"
	"github.com/paperdrill/backend/internal/session"
)

// maxUploadSize bounds how much of an uploaded paper is read into memory.
const maxUploadSize = 32 << 20 // 32 MiB

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	engine    *session.Controller
	extractor extract.Extractor
	keys      *grade.KeyGrader
}

// New creates a Handler. keys may be nil when grading is delegated to a
// Grader that manages its own context.
func New(engine *session.Controller, extractor extract.Extractor, keys *grade.KeyGrader) *Handler {
	return &Handler{engine: engine, extractor: extractor, keys: keys}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/upload", h.handleUpload)
	r.Get("/api/exam", h.handleExam)
	r.Get("/api/score", h.handleScore)
	r.Put("/api/answers/{unitID}", h.handleSetDraft)
	r.Post("/api/submit-answer", h.handleSubmit)
	r.Post("/api/assistant/toggle", h.handleToggleAssistant)
	r.Put("/api/assistant/question", h.handleAssistantDraft)
	r.Post("/api/ask-ai", h.handleAsk)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// POST /api/upload
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		http.Error(w, "only PDF files are allowed", http.StatusBadRequest)
		return
	}

	paper, err := h.extractor.Extract(r.Context(), header.Filename, file)
	if err != nil {
		slog.Error("extraction failed", "filename", header.Filename, "error", err)
		http.Error(w, "error parsing uploaded paper", http.StatusBadGateway)
		return
	}

	if h.keys != nil {
		h.keys.RegisterExam(paper.ExamID, paper.AnswerKey, paper.Questions)
	}
	h.engine.LoadSession(paper)

	respondJSON(w, http.StatusOK, paper)
}

// GET /api/exam
func (h *Handler) handleExam(w http.ResponseWriter, r *http.Request) {
	state, err := h.engine.State()
	if err != nil {
		http.Error(w, "no exam loaded", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// GET /api/score
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Score())
}

type setDraftRequest struct {
	Answer string `json:"answer"`
}

// PUT /api/answers/{unitID}
//
// Responds 204 even when the edit was declined (frozen unit): from the
// client's view the draft simply did not change, and the next state fetch
// shows the authoritative value.
func (h *Handler) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseUnitID(chi.URLParam(r, "unitID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req setDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.engine.SetDraft(id, req.Answer)
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	QuestionID model.UnitID `json:"question_id"`
	// Answer optionally carries the draft with the submission, matching
	// clients that do not use the draft endpoint.
	Answer string `json:"answer,omitempty"`
}

// POST /api/submit-answer
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answer != "" {
		h.engine.SetDraft(req.QuestionID, req.Answer)
	}

	res, err := h.engine.Submit(r.Context(), req.QuestionID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, res)
	case errors.Is(err, session.ErrAlreadySubmitted):
		// Idempotent: return the recorded result unchanged.
		respondJSON(w, http.StatusOK, res)
	case errors.Is(err, session.ErrInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrNoDraft):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrUnknownUnit):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrStaleSession):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		slog.Error("grading failed", "unit", req.QuestionID, "error", err)
		http.Error(w, "grading service failed; the answer can be resubmitted", http.StatusBadGateway)
	}
}

type toggleRequest struct {
	QuestionID int `json:"question_id"`
}

// POST /api/assistant/toggle
func (h *Handler) handleToggleAssistant(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.engine.ToggleAssistant(req.QuestionID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assistantDraftRequest struct {
	Text string `json:"text"`
}

// PUT /api/assistant/question
func (h *Handler) handleAssistantDraft(w http.ResponseWriter, r *http.Request) {
	var req assistantDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.engine.SetAssistantDraft(req.Text)
	w.WriteHeader(http.StatusNoContent)
}

type askRequest struct {
	QuestionID int    `json:"question_id"`
	Model      string `json:"model"`
	// UserQuestion optionally carries the question with the request,
	// matching clients that do not use the draft endpoint.
	UserQuestion string `json:"user_question,omitempty"`
}

// POST /api/ask-ai
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserQuestion != "" {
		h.engine.SetAssistantDraft(req.UserQuestion)
	}

	resp, err := h.engine.Ask(r.Context(), req.QuestionID, req.Model)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, resp)
	case errors.Is(err, assist.ErrUnknownModel):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrEmptyQuestion):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrUnknownQuestion):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrStaleSession):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		slog.Error("assistant call failed", "question", req.QuestionID, "model", req.Model, "error", err)
		http.Error(w, "assistant service failed; please try again", http.StatusBadGateway)
	}
}
