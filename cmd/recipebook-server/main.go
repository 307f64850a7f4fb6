// Package main is the entry point for the recipebook API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/handler"
	"github.com/prn-tf/recipebook/internal/logging"
	"github.com/prn-tf/recipebook/internal/observability"
	"github.com/prn-tf/recipebook/internal/password"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
	"github.com/prn-tf/recipebook/internal/session"
	"github.com/prn-tf/recipebook/internal/slug"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", os.Getenv("RECIPEBOOK_CONFIG"), "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(configPath string) error {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.Logger = logger

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting recipebook server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}
	repos := store.Repositories()

	sessionStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sessionStore.Close()
	sessions := session.NewManager(sessionStore, cfg.Session.TTL, logger)
	cookies := auth.NewCookies(cfg.Session)

	var metrics *observability.Metrics
	var metricsMiddleware func(http.Handler) http.Handler
	if cfg.Metrics.Enabled {
		metrics = observability.New(prometheus.NewRegistry())
		metricsMiddleware = metrics.Middleware
	}
	var serviceMetrics service.Metrics = service.NopMetrics{}
	if metrics != nil {
		serviceMetrics = metrics
	}

	hasher, err := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	pwPolicy := password.NewPolicy(cfg.Auth.PasswordPolicy)
	validator := schema.NewValidator()
	slugs := slug.NewGenerator()

	userService := service.NewUserService(repos.User, hasher, pwPolicy, validator, serviceMetrics, logger)
	authService := service.NewAuthService(repos.User, hasher, sessions, validator, serviceMetrics, logger)
	recipeService := service.NewRecipeService(repos, slugs, validator, serviceMetrics, logger)
	tagService := service.NewRecipeTagService(repos.RecipeTag, slugs, validator, serviceMetrics, logger)
	periodTypeService := service.NewPeriodTypeService(repos.PeriodType, slugs, serviceMetrics, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Handlers: []handler.RouteRegistrar{
			handler.NewUserHandler(handler.UserConfig{
				UserService: userService,
				AuthService: authService,
				Cookies:     cookies,
				Pagination:  cfg.Pagination,
				Logger:      logger,
			}),
			handler.NewAuthHandler(authService, cookies, logger),
			handler.NewRecipeHandler(recipeService, cfg.Pagination, logger),
			handler.NewRecipeTagHandler(tagService, cfg.Pagination, logger),
			handler.NewPeriodTypeHandler(periodTypeService, cfg.Pagination, logger),
		},
		AuthMiddleware:    auth.Middleware(sessions, repos.User, cookies),
		MetricsMiddleware: metricsMiddleware,
		Database:          store,
		Server:            cfg.Server,
		RateLimit:         cfg.RateLimit,
		CORS:              cfg.CORS,
		Logger:            logger,
	})

	servers := []*http.Server{{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}}
	if metrics != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		servers = append(servers, &http.Server{
			Addr:              cfg.Server.Host + ":" + strconv.Itoa(cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("addr", srv.Addr).Msg("graceful shutdown failed")
		}
	}

	return serveErr
}

func openSessionStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		return session.NewRedisStore(ctx, cfg.Redis, logger)
	default:
		return session.NewMemoryStore(time.Minute), nil
	}
}
