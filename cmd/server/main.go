// Command server starts the AI career coach HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/cache"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-career-coach/internal/adapter/textextractor/localfs"
	"github.com/fairyhunter13/ai-career-coach/internal/app"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/internal/features"
	"github.com/fairyhunter13/ai-career-coach/internal/heuristic"
	"github.com/fairyhunter13/ai-career-coach/internal/interview"
	"github.com/fairyhunter13/ai-career-coach/internal/usecase"
)

func main() {
	// Local development convenience; absent .env files are not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	profiles := postgres.NewProfileRepo(pool)

	// Analysis cache is optional; without Redis every request recomputes.
	var analysisCache domain.AnalysisCache
	redisCheck := func(context.Context) error { return nil }
	if cfg.CacheEnabled() {
		rc, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = rc.Close() }()
		analysisCache = rc
		redisCheck = rc.Ping
		slog.Info("analysis cache enabled", slog.Duration("ttl", cfg.CacheTTL))
	}

	// Without an API key the heuristic analyzer serves every request.
	var aiClient domain.AnalysisClient
	if cfg.GeminiAPIKey != "" {
		gc, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			slog.Error("gemini client init failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = gc.Close() }()
		aiClient = gc
		slog.Info("gemini client initialized", slog.String("model", cfg.GeminiModel))
	} else {
		slog.Warn("no Gemini API key configured; serving heuristic analyses only")
	}

	extractor := localfs.New(cfg.UploadsDir)

	analyzeSvc := usecase.NewAnalyzeService(profiles, extractor, aiClient, heuristic.New(), analysisCache, cfg.ExtractTimeout)
	interviewSvc := usecase.NewInterviewService(interview.New(features.New()))

	dbCheck := func(ctx context.Context) error { return pool.Ping(ctx) }
	srv := httpserver.NewServer(cfg, analyzeSvc, interviewSvc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv, profiles)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
