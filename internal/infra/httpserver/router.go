package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appdash "github.com/bryanwahyu/secscan-dashboard/internal/application/dashboard"
	appscans "github.com/bryanwahyu/secscan-dashboard/internal/application/scans"
	domai "github.com/bryanwahyu/secscan-dashboard/internal/domain/ai"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/dashboard"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/scans"
	"github.com/bryanwahyu/secscan-dashboard/internal/middleware"
)

// Options wires the router. Dashboard and Scans are required; the rest may
// be left zero.
type Options struct {
	Dashboard *appdash.Service
	Scans     *appscans.Service
	Metrics   *middleware.Metrics
	// Limiter guards POST /analyze; nil disables rate limiting.
	Limiter *middleware.RateLimiter
	// Ready backs /healthz/ready.
	Ready         map[string]middleware.HealthChecker
	CORSOrigins   []string
	SecureCookies bool
	Log           *zap.Logger
}

type Router struct {
	dash    *appdash.Service
	scans   *appscans.Service
	metrics *middleware.Metrics
	pages   *pages
	secure  bool
	log     *zap.Logger
}

func NewRouter(o Options) http.Handler {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Metrics == nil {
		o.Metrics = middleware.NewMetrics()
	}
	r := &Router{
		dash:    o.Dashboard,
		scans:   o.Scans,
		metrics: o.Metrics,
		pages:   mustParsePages(),
		secure:  o.SecureCookies,
		log:     o.Log,
	}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	if len(o.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   o.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	mux.Use(o.Metrics.Middleware)
	mux.Use(middleware.Session(o.SecureCookies))
	mux.Use(middleware.Logging(o.Log))

	mux.Get("/health", r.wrap(r.handleHealth))
	mux.Get("/healthz/live", middleware.LivenessHandler)
	mux.Get("/healthz/ready", middleware.ReadinessHandler(o.Ready))
	mux.Get("/metrics", o.Metrics.Handler)

	mux.Get("/", r.wrap(r.handleIndex))
	analyze := mux.With()
	if o.Limiter != nil {
		analyze = mux.With(middleware.RateLimit(o.Limiter, middleware.ClientKey))
	}
	analyze.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Post("/theme", r.wrap(r.handleTheme))
	mux.Get("/session", r.wrap(r.handleSessionGet))
	mux.Delete("/session", r.wrap(r.handleSessionDelete))
	mux.Get("/recent-scan", r.wrap(r.handleRecent))
	mux.Get("/scans/{id}", r.wrap(r.handleGetScan))
	for _, kind := range dashboard.DetailKinds {
		mux.Get("/"+string(kind), r.wrap(r.detailHandler(kind)))
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= 500 {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			writeError(w, req, status, messageFor(err, status))
		}
	}
}

// badRequest marks a client error whose message is shown as is.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func statusFor(err error) int {
	var pe *dashboard.PayloadError
	var br badRequest
	switch {
	case errors.As(err, &br),
		errors.Is(err, analysis.ErrNoCode),
		errors.Is(err, analysis.ErrCodeTooLong),
		errors.As(err, &pe):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrBusy), errors.Is(err, dashboard.ErrNoResults):
		return http.StatusConflict
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, dashboard.ErrAnalysisFailed), errors.Is(err, analysis.ErrMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the text shown to the client for err.
func messageFor(err error, status int) string {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return br.msg
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domai.ErrQuotaExceeded):
		return "ai quota exceeded"
	case status == http.StatusInternalServerError:
		return "internal server error"
	default:
		return dashboard.AlertFor(err)
	}
}

func writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	if wantsJSON(req) {
		writeJSON(w, status, map[string]string{"error": msg, "status": string(analysis.StatusError)})
		return
	}
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// wantsJSON reports whether the client speaks JSON rather than HTML.
func wantsJSON(req *http.Request) bool {
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
