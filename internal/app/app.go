package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/pulseboard/internal/config"
	httpcontroller "github.com/vadim/pulseboard/internal/controller/http"
	"github.com/vadim/pulseboard/internal/database"
	analyticspolicy "github.com/vadim/pulseboard/internal/domain/analytics/policy"
	metricdao "github.com/vadim/pulseboard/internal/domain/metric/dao"
	metricservice "github.com/vadim/pulseboard/internal/domain/metric/service"
	postdao "github.com/vadim/pulseboard/internal/domain/post/dao"
	postpolicy "github.com/vadim/pulseboard/internal/domain/post/policy"
	postservice "github.com/vadim/pulseboard/internal/domain/post/service"
	"github.com/vadim/pulseboard/internal/httpx/upstream/authgate"
	"github.com/vadim/pulseboard/internal/httpx/upstream/socialgraph"
	"github.com/vadim/pulseboard/internal/scheduler"
	"github.com/vadim/pulseboard/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	pg *pgxpool.Pool

	// Domain policies (interfaces for HTTP handlers)
	postPolicy      *postpolicy.Policy
	analyticsPolicy *analyticspolicy.Policy
	metricService   *metricservice.Service

	// External collaborators
	authClient *authgate.Client
	exportS3   *storage.S3Storage

	// Scheduler for engagement refresh and metric retention
	scheduler *scheduler.Scheduler
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	// Initialize infrastructure
	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	// Initialize domain layers
	if err := app.initDomains(ctx); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	// Register routes
	app.registerRoutes()

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize scheduler
	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.New(app.postPolicy, app.metricService,
			cfg.Scheduler.Interval, cfg.Scheduler.MetricRetention, logger)
	}

	return app, nil
}

// initInfrastructure initializes infrastructure components (DB, S3, auth)
func (a *App) initInfrastructure(ctx context.Context) error {
	if err := database.Migrate(a.cfg.Database.PostgresDSN, a.cfg.Database.MigrationsDir); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Database.PostgresDSN, database.PoolConfig{
		MaxConns: a.cfg.Database.MaxConns,
		MinConns: a.cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pg = pool

	a.authClient = authgate.New(
		authgate.WithBaseURL(a.cfg.Auth.BaseURL),
		authgate.WithAPIKey(a.cfg.Auth.APIKey),
	)

	s3Storage, err := storage.NewS3Storage(storage.S3Config{
		Endpoint:        a.cfg.S3.Endpoint,
		AccessKeyID:     a.cfg.S3.AccessKeyID,
		SecretAccessKey: a.cfg.S3.SecretAccessKey,
		Bucket:          a.cfg.S3.Bucket,
		Region:          a.cfg.S3.Region,
		PublicURL:       a.cfg.S3.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initializing s3 storage: %w", err)
	}
	a.exportS3 = s3Storage

	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains(ctx context.Context) error {
	// Upstream metrics API client
	sgClient := socialgraph.New(
		socialgraph.WithBaseURL(a.cfg.SocialGraph.BaseURL),
		socialgraph.WithAPIVersion(a.cfg.SocialGraph.APIVersion),
		socialgraph.WithAccessToken(a.cfg.SocialGraph.AccessToken),
	)
	insights := socialgraph.NewFetcher(sgClient)

	// Posts
	postsRepo := postdao.NewPostPostgres(a.pg)
	postSvc := postservice.New(postsRepo)
	a.postPolicy = postpolicy.New(postSvc, &insightsFetcherAdapter{insights}, postsRepo, a.cfg.Scheduler.StaleAfter)

	// Daily metrics
	metricsRepo := metricdao.NewMetricPostgres(a.pg)
	a.metricService = metricservice.New(metricsRepo)

	// Analytics engine over both record sets; nil clock means wall clock
	a.analyticsPolicy = analyticspolicy.New(postSvc, a.metricService, nil)

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	// Health check
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	// API v1: everything behind token validation
	a.router.Route("/api/v1", func(r chi.Router) {
		r.Use(httpcontroller.RequireAuth(a.authClient))

		httpcontroller.NewAnalyticsHandler(a.analyticsPolicy).RegisterRoutes(r)
		httpcontroller.NewMetricsHandler(a.analyticsPolicy, a.metricService).RegisterRoutes(r)
		httpcontroller.NewPostHandler(a.postPolicy).RegisterRoutes(r)
		httpcontroller.NewExportHandler(a.analyticsPolicy, a.postPolicy, a.exportS3).RegisterRoutes(r)
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.pg.Ping(ctx); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"database unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start scheduler if enabled
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop scheduler
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pg != nil {
		a.pg.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}

// insightsFetcherAdapter adapts socialgraph.Fetcher to postpolicy.InsightsFetcher
type insightsFetcherAdapter struct {
	fetcher *socialgraph.Fetcher
}

func (a *insightsFetcherAdapter) FetchInsights(ctx context.Context, in postpolicy.FetchInsightsInput) (*postpolicy.FetchInsightsOutput, error) {
	out, err := a.fetcher.FetchInsights(ctx, socialgraph.InsightsInput{
		Platform: in.Platform,
		PostID:   in.PostID,
	})
	if err != nil {
		return nil, err
	}
	return &postpolicy.FetchInsightsOutput{
		Likes:    out.Likes,
		Comments: out.Comments,
		Shares:   out.Shares,
	}, nil
}
