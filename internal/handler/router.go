// Package handler provides the HTTP handlers of the recipebook API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/prn-tf/recipebook/internal/config"
)

// healthTimeout bounds the database ping of /health.
const healthTimeout = 2 * time.Second

// DatabaseChecker reports whether the database is reachable.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// RouteRegistrar is implemented by every resource handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Router assembles the middleware chain and the API routes.
type Router struct {
	handlers       []RouteRegistrar
	authMiddleware func(http.Handler) http.Handler
	metrics        func(http.Handler) http.Handler
	database       DatabaseChecker
	server         config.ServerConfig
	rateLimit      config.RateLimitConfig
	cors           config.CORSConfig
	logger         zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	// Handlers are mounted under /api.
	Handlers []RouteRegistrar

	// AuthMiddleware attaches the acting user to each request.
	AuthMiddleware func(http.Handler) http.Handler

	// MetricsMiddleware is optional.
	MetricsMiddleware func(http.Handler) http.Handler

	Database  DatabaseChecker
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig
	CORS      config.CORSConfig
	Logger    zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		handlers:       cfg.Handlers,
		authMiddleware: cfg.AuthMiddleware,
		metrics:        cfg.MetricsMiddleware,
		database:       cfg.Database,
		server:         cfg.Server,
		rateLimit:      cfg.RateLimit,
		cors:           cfg.CORS,
		logger:         cfg.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(rt.logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	if rt.metrics != nil {
		r.Use(rt.metrics)
	}
	if rt.rateLimit.Enabled {
		r.Use(httprate.Limit(
			rt.rateLimit.Requests,
			rt.rateLimit.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, errorBody(http.StatusText(http.StatusTooManyRequests)))
			}),
		))
	}
	if len(rt.cors.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cors.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if rt.server.MaxBodySize > 0 {
		r.Use(maxBody(rt.server.MaxBodySize))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody(msgNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody(msgMethodNotAllowed))
	})

	// Health check (no auth)
	r.Get("/health", rt.handleHealth)

	r.Route("/api", func(api chi.Router) {
		if rt.authMiddleware != nil {
			api.Use(rt.authMiddleware)
		}
		for _, h := range rt.handlers {
			h.RegisterRoutes(api)
		}
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := rt.database.Ping(ctx); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// requestIDLogger adds chi's request id to the request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// maxBody caps request bodies; oversized payloads fail to decode.
func maxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
