package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/parazit/frontend"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/secmon-lab/parazit/pkg/utils/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// ServerOption configures the page server
type ServerOption func(*serverOptions)

type serverOptions struct {
	limiter    *ratelimit.Limiter
	gatherer   prometheus.Gatherer
	trustProxy bool
}

// WithRateLimiter limits page renders per client
func WithRateLimiter(l *ratelimit.Limiter) ServerOption {
	return func(o *serverOptions) {
		o.limiter = l
	}
}

// WithMetrics exposes g on /metrics
func WithMetrics(g prometheus.Gatherer) ServerOption {
	return func(o *serverOptions) {
		o.gatherer = g
	}
}

// WithTrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
// Enable it only behind a reverse proxy that overwrites those headers.
func WithTrustProxy(trust bool) ServerOption {
	return func(o *serverOptions) {
		o.trustProxy = trust
	}
}

// NewServer creates the public page server
func NewServer(ctx context.Context, addr string, caseList interfaces.CaseList, opts ...ServerOption) (*Server, error) {
	if caseList == nil {
		return nil, goerr.New("case list use case is required")
	}

	var options serverOptions
	for _, opt := range opts {
		opt(&options)
	}

	router := newRouter(ctx, "parazit", options.trustProxy)
	page := &pageHandler{caseList: caseList}

	router.With(RateLimitMiddleware(options.limiter)).Get("/", page.HandleCaseList)

	if options.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(options.gatherer, promhttp.HandlerOpts{}))
	}

	static, err := frontend.GetHTTPFS()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load embedded static files")
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static)))

	return newServer(addr, router), nil
}

// newRouter creates a router with the common middleware stack and health check.
// Without trustProxy the client address is the socket peer.
func newRouter(ctx context.Context, service string, trustProxy bool) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	if trustProxy {
		router.Use(middleware.RealIP)
	}
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", healthHandler(service))

	return router
}

func newServer(addr string, router chi.Router) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// healthHandler handles health check requests
func healthHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": service,
		})
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode JSON response", "error", err)
	}
}
