package transport

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/newsdesk/internal/domain/activity"
)

// ActivityService is the backend activity API behind the REST routes.
type ActivityService interface {
	LogActivity(ctx context.Context, caller activity.Principal, rec *activity.Record) error
	List(ctx context.Context, caller activity.Principal, scope activity.Scope, opts activity.ListActivityOptions) (activity.Page, error)
	Statistics(ctx context.Context, caller activity.Principal, scope activity.Scope, period int) (activity.Snapshot, error)
	Delete(ctx context.Context, caller activity.Principal, id string) error
}

// Server wires HTTP handlers.
type Server struct {
	activity ActivityService
	logger   *slog.Logger
}

// NewServer creates an HTTP router with middleware. authMiddleware guards
// every /api route and must attach a principal.
func NewServer(svc ActivityService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	metrics := NewMetrics()
	r.Use(metrics.Middleware)

	srv := &Server{activity: svc, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Get("/me", srv.handleWhoami)
		r.Get("/activity-types", srv.handleActivityTypes)
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", srv.handleListAll)
			r.Get("/stats", srv.handleStatsAll)
			r.Get("/me", srv.handleListSelf)
			r.Post("/me", srv.handleLog)
			r.Get("/me/stats", srv.handleStats)
			r.Delete("/me/{id}", srv.handleDelete)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	WriteData(w, http.StatusOK, caller)
}

func (s *Server) handleActivityTypes(w http.ResponseWriter, _ *http.Request) {
	WriteData(w, http.StatusOK, activity.Catalog())
}

func (s *Server) handleListSelf(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	s.list(w, r, caller, activity.Self(caller.UserID))
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	s.list(w, r, caller, activity.All())
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, caller activity.Principal, scope activity.Scope) {
	opts, err := parseListOptions(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	page, err := s.activity.List(r.Context(), caller, scope, opts)
	if err != nil {
		s.logFailure(r, "list activity", err)
		WriteError(w, err)
		return
	}
	items := page.Items
	if items == nil {
		items = []activity.Record{}
	}
	WriteData(w, http.StatusOK, ListPayload{
		Data: items,
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.PageSize,
			Total:      page.MatchedTotal,
			TotalPages: page.TotalPages,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	s.stats(w, r, caller, activity.Self(caller.UserID))
}

func (s *Server) handleStatsAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	s.stats(w, r, caller, activity.All())
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request, caller activity.Principal, scope activity.Scope) {
	period := activity.DefaultPeriod
	if raw := r.URL.Query().Get("period"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, activity.ErrValidation)
			return
		}
		period = v
	}
	snap, err := s.activity.Statistics(r.Context(), caller, scope, period)
	if err != nil {
		s.logFailure(r, "activity statistics", err)
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, snap)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	if err := s.activity.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		s.logFailure(r, "delete activity", err)
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, nil)
}

type logRequest struct {
	Type        activity.ActivityType `json:"type" validate:"required,max=64"`
	Description string                `json:"description" validate:"required,max=1000"`
	Details     string                `json:"details" validate:"max=4000"`
	Timestamp   *time.Time            `json:"timestamp"`
	Browser     string                `json:"browser" validate:"max=128"`
	OS          string                `json:"os" validate:"max=128"`
	Platform    string                `json:"platform" validate:"max=128"`
	City        string                `json:"city" validate:"max=128"`
	Country     string                `json:"country" validate:"max=128"`
	Metadata    map[string]any        `json:"metadata"`
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	caller, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, ErrUnauthorized)
		return
	}
	var req logRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteError(w, err)
		return
	}
	rec := &activity.Record{
		Type:        req.Type,
		Description: req.Description,
		Details:     req.Details,
		Browser:     req.Browser,
		OS:          req.OS,
		Platform:    req.Platform,
		Network: activity.Network{
			IPAddress: clientIP(r),
			City:      req.City,
			Country:   req.Country,
		},
		Metadata: req.Metadata,
	}
	if req.Timestamp != nil {
		rec.Timestamp = *req.Timestamp
	}
	if err := s.activity.LogActivity(r.Context(), caller, rec); err != nil {
		s.logFailure(r, "log activity", err)
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, rec)
}

func (s *Server) logFailure(r *http.Request, op string, err error) {
	status, kind := StatusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, op+" failed", "kind", kind, "error", err, "request_id", middleware.GetReqID(r.Context()))
}

func parseListOptions(r *http.Request) (activity.ListActivityOptions, error) {
	q := r.URL.Query()
	var opts activity.ListActivityOptions
	opts.Type = activity.ActivityType(strings.TrimSpace(q.Get("type")))
	opts.Search = q.Get("search")

	for name, dst := range map[string]*int{"days": &opts.Days, "page": &opts.Page, "limit": &opts.Limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return activity.ListActivityOptions{}, activity.ErrValidation
		}
		*dst = v
	}
	return opts, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
