// Package app assembles the server: configuration, logging, metrics, the
// analysis pipeline, websocket hub and the HTTP router, plus the start and
// graceful shutdown lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"craneview/internal/config"
	apierrors "craneview/internal/errors"
	"craneview/internal/infrastructure"
	customMiddleware "craneview/internal/middleware"
	"craneview/internal/services"
	handlers "craneview/internal/transport/http"
	ws "craneview/internal/websocket"
)

// Version is the reported service version, overridable at build time with
// -ldflags "-X craneview/internal/app.Version=...".
var Version = "dev"

const appName = "craneview"

// Application is the assembled server.
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Hub     *ws.Hub
	Service *services.AnalysisService
	Store   *services.DatasetStore
	Metrics *infrastructure.MetricsProvider
	Logger  *slog.Logger
}

// NewApplication builds the application from configuration and wires every
// component together.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", appName),
		slog.String("version", Version))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	metrics, err := infrastructure.InitializeMetrics(Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	a := &Application{
		Config:  cfg,
		Hub:     ws.NewHub(logger),
		Service: services.NewAnalysisService(logger, metrics.Pipeline),
		Store:   services.NewDatasetStore(),
		Metrics: metrics,
		Logger:  logger,
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	dataHandler := handlers.NewDataHandler(a.Service, a.Store, a.Hub, a.Logger, errorHandler)
	analysisHandler := handlers.NewAnalysisHandler(a.Service, a.Store, a.Hub, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Store, Version)
	wsHandler := ws.NewHandler(a.Hub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)

	r.Get("/healthz", healthHandler.Liveness)
	r.Handle("/metrics", a.Metrics.PrometheusHTTP)
	r.Get("/ws", wsHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.HealthCheck)
		r.Post("/workorders", dataHandler.Upload)
		r.Get("/workorders", dataHandler.GetDataset)
		r.Get("/analysis", analysisHandler.GetAnalysis)
		r.Get("/filters", analysisHandler.GetFilters)
		r.Get("/export/{format}", analysisHandler.Export)
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start launches the websocket hub and the HTTP server. A listen failure
// cancels the provided context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.Hub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "server started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the server, the hub and the metrics provider.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	if err := a.Metrics.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "error shutting down metrics",
			slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
