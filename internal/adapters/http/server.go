package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"golang.org/x/time/rate"

	"phishguard/internal/domain"
	"phishguard/internal/metrics"
	"phishguard/internal/ports"
	"phishguard/internal/services/features"
	historysvc "phishguard/internal/services/history"
)

const (
	msgURLRequired    = "URL is required"
	msgInvalidURL     = "Invalid URL format. URL must start with http:// or https://"
	msgAnalysisFailed = "Analysis failed. Please try again."
)

// Server exposes the analysis engine over HTTP.
type Server struct {
	analyzer ports.Analyzer
	history  ports.History
	metrics  *metrics.Metrics
	logger   *slog.Logger
	limiter  *rate.Limiter
	origins  []string
}

type Option func(*Server)

func WithMetrics(m *metrics.Metrics) Option { return func(s *Server) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRateLimit caps analysis requests per second for the whole process.
// Zero or less disables the limit.
func WithRateLimit(rps float64) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCORSOrigins sets the allowed origins; "*" allows any.
func WithCORSOrigins(origins ...string) Option { return func(s *Server) { s.origins = origins } }

func New(analyzer ports.Analyzer, history ports.History, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		history:  history,
		logger:   slog.Default(),
		origins:  []string{"*"},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer, s.cors)

	r.Get("/health", s.health)
	r.Get("/features", s.catalog)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Get("/domains/{domain}/verdicts", s.verdicts)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/analyze", s.analyzeBody)
		r.Get("/analyze", s.analyzeQuery)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "PhishGuard API is running",
	})
}

func (s *Server) catalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_weight": features.TotalWeight,
		"features":     features.Catalog(),
	})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (s *Server) analyzeBody(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}
	s.analyze(w, r, req.URL)
}

func (s *Server) analyzeQuery(w http.ResponseWriter, r *http.Request) {
	var target string
	if err := runtime.BindQueryParameter("form", true, true, "url", r.URL.Query(), &target); err != nil {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}
	s.analyze(w, r, target)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, target string) {
	// Only the emptiness check ignores whitespace; the URL itself is
	// validated as submitted.
	if strings.TrimSpace(target) == "" {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}
	report, err := s.analyzer.Analyze(r.Context(), target)
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, msgInvalidURL)
	case err != nil:
		writeError(w, http.StatusInternalServerError, msgAnalysisFailed)
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) verdicts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	out, err := s.history.Recent(r.Context(), name, limit)
	switch {
	case errors.Is(err, historysvc.ErrNotFound):
		writeError(w, http.StatusNotFound, "No verdicts recorded for domain")
	case errors.Is(err, historysvc.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, "Verdict history is not enabled")
	case err != nil:
		s.logger.Error("verdict history failed", "domain", name, "err", err)
		writeError(w, http.StatusInternalServerError, "Could not load verdict history")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"domain": name, "verdicts": out})
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	for _, o := range s.origins {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
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
