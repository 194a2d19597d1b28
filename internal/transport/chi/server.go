// Package chi exposes the assistant over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wellspring-cloud/wellspring/internal/domain"
	healthuc "github.com/wellspring-cloud/wellspring/internal/usecase/health"
)

const (
	defaultSimilarLimit = 5
	recentQueriesLimit  = 5
)

// ErrorCode identifies an API error class for clients.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeDocumentNotFound ErrorCode = "document_not_found"
	CodeCapacityExceeded ErrorCode = "capacity_exceeded"
	CodeEmbeddingFailed  ErrorCode = "embedding_failed"
	CodeFeedbackNotFound ErrorCode = "feedback_not_matched"
	CodeInvalidRating    ErrorCode = "invalid_rating"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	assistant     Assistant
	knowledge     Knowledge
	queryLog      QueryLog
	health        Health
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(assistant Assistant, knowledge Knowledge, queryLog QueryLog, health Health, logger *zap.Logger) *Server {
	s := &Server{
		assistant: assistant,
		knowledge: knowledge,
		queryLog:  queryLog,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrCapacityExceeded, http.StatusConflict, CodeCapacityExceeded),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingFailed, http.StatusBadGateway, CodeEmbeddingFailed),
		sentinelHandler(domain.ErrFeedbackNotMatched, http.StatusNotFound, CodeFeedbackNotFound),
		sentinelHandler(domain.ErrInvalidRating, http.StatusBadRequest, CodeInvalidRating),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/query", s.Query)
		r.Post("/feedback", s.Feedback)
		r.Post("/knowledge", s.AddKnowledge)
		r.Put("/knowledge/{id}", s.UpdateKnowledge)
		r.Delete("/knowledge/{id}", s.DeleteKnowledge)
		r.Get("/knowledge/{id}/similar", s.SimilarKnowledge)
		r.Get("/knowledge/stats", s.KnowledgeStats)
		r.Get("/stats", s.Stats)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// QueryRequest is the body for POST /api/v1/query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the answer envelope.
type QueryResponse struct {
	Answer         string  `json:"answer"`
	Confidence     float64 `json:"confidence"`
	Source         string  `json:"source"`
	QueryType      string  `json:"query_type,omitempty"`
	ProcessingTime float64 `json:"processing_time"`
}

// Query handles POST /api/v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	a := s.assistant.Ask(r.Context(), req.Question)

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:         a.Text,
		Confidence:     a.Confidence,
		Source:         string(a.Source),
		QueryType:      string(a.QueryType),
		ProcessingTime: a.Elapsed.Seconds(),
	})
}

// FeedbackRequest is the body for POST /api/v1/feedback.
type FeedbackRequest struct {
	Question string  `json:"question"`
	Rating   float64 `json:"rating"`
}

// Feedback handles POST /api/v1/feedback. The rating attaches to the most
// recent logged query with identical text.
func (s *Server) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "question is required")
		return
	}
	if req.Rating < 1.0 || req.Rating > 5.0 {
		s.handleDomainError(w, domain.ErrInvalidRating)
		return
	}

	if err := s.queryLog.RecordFeedback(r.Context(), req.Question, req.Rating); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// KnowledgeRequest is the body for knowledge create and update.
type KnowledgeRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AddKnowledge handles POST /api/v1/knowledge.
func (s *Server) AddKnowledge(w http.ResponseWriter, r *http.Request) {
	var req KnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id, err := s.knowledge.Add(r.Context(), req.Content, req.Metadata)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/knowledge/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateKnowledge handles PUT /api/v1/knowledge/{id}.
func (s *Server) UpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	var req KnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.knowledge.Update(r.Context(), id, req.Content, req.Metadata); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// DeleteKnowledge handles DELETE /api/v1/knowledge/{id}.
func (s *Server) DeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	if err := s.knowledge.Remove(chirouter.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SimilarItem is one entry in the similar-documents response.
type SimilarItem struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float64           `json:"similarity"`
}

// SimilarKnowledge handles GET /api/v1/knowledge/{id}/similar.
func (s *Server) SimilarKnowledge(w http.ResponseWriter, r *http.Request) {
	limit := defaultSimilarLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.knowledge.Similar(chirouter.URLParam(r, "id"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SimilarItem, len(results))
	for i, res := range results {
		items[i] = SimilarItem{
			ID:         res.ID,
			Content:    res.Content,
			Metadata:   res.Metadata,
			Similarity: res.Similarity,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// KnowledgeStats handles GET /api/v1/knowledge/stats.
func (s *Server) KnowledgeStats(w http.ResponseWriter, r *http.Request) {
	stats := s.knowledge.GetStats()

	writeJSON(w, http.StatusOK, map[string]any{
		"total_documents": stats.TotalDocuments,
		"capacity":        stats.Capacity,
		"vector_dim":      stats.VectorDim,
		"categories":      stats.Categories,
		"urgency_levels":  stats.UrgencyLevels,
	})
}

// RecentQuery is one history entry in the stats response.
type RecentQuery struct {
	Query      string    `json:"query"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	usage, err := s.queryLog.GetStats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	kb := s.knowledge.GetStats()

	// Recent history is informational; a read failure should not take the
	// whole stats endpoint down.
	recent := make([]RecentQuery, 0, recentQueriesLimit)
	entries, err := s.queryLog.Recent(r.Context(), recentQueriesLimit)
	if err != nil {
		s.logger.Warn("recent queries unavailable", zap.Error(err))
	}
	for _, e := range entries {
		recent = append(recent, RecentQuery{
			Query:      e.Query,
			Source:     string(e.Source),
			Confidence: e.Confidence,
			Timestamp:  e.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_queries":       usage.TotalQueries,
		"source_counts":       usage.SourceCounts,
		"avg_confidence":      usage.AvgConfidence,
		"avg_processing_time": usage.AvgProcessingSec,
		"feedback_count":      usage.FeedbackCount,
		"avg_rating":          usage.AvgRating,
		"feedback_rate":       usage.FeedbackRate,
		"total_documents":     kb.TotalDocuments,
		"recent_queries":      recent,
		"system_ready":        true,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    report.Status,
		"checks":    report.Checks,
		"documents": report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrCapacityExceeded,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingFailed,
		domain.ErrFeedbackNotMatched,
		domain.ErrInvalidRating,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, verr.Message)
		return
	}

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
