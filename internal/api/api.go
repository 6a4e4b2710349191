package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joescharf/taskreview/internal/models"
	"github.com/joescharf/taskreview/internal/orchestrator"
	"github.com/joescharf/taskreview/internal/store"
)

// MaxUploadBytes bounds the multipart body of an extended review.
const MaxUploadBytes = 10 << 20

// Server provides the REST API handlers.
type Server struct {
	orch    *orchestrator.Orchestrator
	cache   *store.SubmissionCache
	history store.Store
	version string
	now     func() time.Time
}

// NewServer creates a new API server.
// history may be nil, in which case results are not recorded and the
// history endpoints report 503.
func NewServer(orch *orchestrator.Orchestrator, cache *store.SubmissionCache, history store.Store, version string) *Server {
	return &Server{
		orch:    orch,
		cache:   cache,
		history: history,
		version: version,
		now:     time.Now,
	}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.banner)
	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /api/v1/task/submit", s.submitTask)
	mux.HandleFunc("POST /api/v1/task/review", s.reviewTask)
	mux.HandleFunc("POST /api/v1/task/process", s.processTask)
	mux.HandleFunc("POST /api/v1/task/review/extended", s.reviewExtended)

	mux.HandleFunc("GET /api/v1/reviews", s.listReviews)
	mux.HandleFunc("GET /api/v1/reviews/{id}", s.getReview)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps the domain error taxonomy to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCorruptInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- Service ---

func (s *Server) banner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "taskreview",
		"version": s.version,
		"docs":    "/health",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"cached_tasks":    s.cache.Len(),
		"history_enabled": s.history != nil,
	})
}

// --- Tasks ---

// reviewRequest references a cached submission or carries one inline.
type reviewRequest struct {
	TaskID  string                  `json:"task_id"`
	Payload *models.SubmissionInput `json:"payload"`
}

func (s *Server) submitTask(w http.ResponseWriter, r *http.Request) {
	var in models.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sub, err := models.NewSubmission(in, uuid.NewString(), s.now().UTC())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.cache.Put(sub)

	writeJSON(w, http.StatusCreated, sub)
}

// resolveSubmission returns the submission a review request refers to,
// writing the error response itself when it cannot.
func (s *Server) resolveSubmission(w http.ResponseWriter, r *http.Request) (*models.Submission, bool) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}

	switch {
	case req.TaskID != "":
		sub, err := s.cache.Get(req.TaskID)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("task not found: %s", req.TaskID))
			return nil, false
		}
		return sub, true
	case req.Payload != nil:
		sub, err := models.NewSubmission(*req.Payload, adhocID(), s.now().UTC())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return nil, false
		}
		return sub, true
	default:
		writeError(w, http.StatusBadRequest, "either task_id or payload is required")
		return nil, false
	}
}

func (s *Server) reviewTask(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.resolveSubmission(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.orch.Evaluate(sub))
}

func (s *Server) processTask(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.resolveSubmission(w, r)
	if !ok {
		return
	}
	res := s.orch.Orchestrate(sub)
	s.record(r, sub, res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) reviewExtended(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	req := orchestrator.ExtendedRequest{
		Narrative:     r.FormValue("description"),
		RepositoryURL: r.FormValue("github_url"),
		Title:         r.FormValue("task_title"),
		SubmittedBy:   r.FormValue("submitted_by"),
	}

	file, header, err := r.FormFile("document")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid document upload: "+err.Error())
		return
	default:
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read document: "+err.Error())
			return
		}
		req.Document = &orchestrator.Document{Name: header.Filename, Data: data}
	}

	sub, err := s.orch.BuildExtendedSubmission(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	res := s.orch.Orchestrate(sub)
	s.record(r, sub, res)
	writeJSON(w, http.StatusOK, res)
}

// record persists res to the review history. Failures are logged only.
func (s *Server) record(r *http.Request, sub *models.Submission, res *models.OrchestrationResult) {
	if s.history == nil {
		return
	}
	if err := s.history.SaveReview(r.Context(), models.NewReviewRecord(sub, res)); err != nil {
		slog.Warn("failed to record review", "task_id", sub.ID, "error", err)
	}
}

// --- History ---

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "review history is disabled")
		return
	}

	filter := store.ReviewFilter{
		SubmissionID: r.URL.Query().Get("task_id"),
		Status:       r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	reviews, err := s.history.ListReviews(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reviews == nil {
		reviews = []*models.ReviewRecord{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) getReview(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "review history is disabled")
		return
	}

	rec, err := s.history.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func adhocID() string {
	return "adhoc-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
