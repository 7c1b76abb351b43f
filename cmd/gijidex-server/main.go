package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gijidex/internal/config"
	logpkg "github.com/kailas-cloud/gijidex/internal/logger"
	"github.com/kailas-cloud/gijidex/internal/metrics"
	"github.com/kailas-cloud/gijidex/internal/normalize"
	historyrepo "github.com/kailas-cloud/gijidex/internal/repository/history"
	"github.com/kailas-cloud/gijidex/internal/tokenize"
	"github.com/kailas-cloud/gijidex/internal/transport/httpapi"
	"github.com/kailas-cloud/gijidex/internal/transport/ndl"
	"github.com/kailas-cloud/gijidex/internal/usecase/analytics"
	healthuc "github.com/kailas-cloud/gijidex/internal/usecase/health"
	historyuc "github.com/kailas-cloud/gijidex/internal/usecase/history"
	searchuc "github.com/kailas-cloud/gijidex/internal/usecase/search"
	"github.com/kailas-cloud/gijidex/internal/version"
)

func main() {
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gijidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("history_backend", cfg.History.Backend),
	)

	// Create history store based on backend
	var repo *historyrepo.Repo
	switch cfg.History.Backend {
	case "csv":
		repo = historyrepo.New(historyrepo.NewCSVBackend(cfg.History.Path), cfg.History.MaxEntries)
	case "redis":
		redisBackend, err := historyrepo.NewRedisBackend(historyrepo.RedisConfig{
			Addrs:     cfg.History.Redis.Addrs,
			Username:  cfg.History.Redis.Username,
			Password:  cfg.History.Redis.Password,
			DB:        cfg.History.Redis.DB,
			KeyPrefix: cfg.History.Redis.KeyPrefix,
		})
		if err != nil {
			logger.Fatal("Failed to create redis history backend", zap.Error(err))
		}
		defer redisBackend.Close()
		repo = historyrepo.New(redisBackend, cfg.History.MaxEntries)
	default:
		logger.Fatal("Unknown history backend", zap.String("backend", cfg.History.Backend))
	}

	ctx := context.Background()
	if err := repo.Ping(ctx); err != nil {
		logger.Fatal("History store not ready", zap.Error(err))
	}
	logger.Info("History store ready")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Build the tokenizer.
	var tok analytics.Tokenizer
	if cfg.Tokenizer.Disabled {
		tok = tokenize.Noop{}
		logger.Info("Tokenizer disabled, keyword tables will be empty")
	} else {
		tok, err = tokenize.New(tokenize.Config{
			MinTokenLength: cfg.Tokenizer.MinTokenLength,
			ExtraStopWords: cfg.Tokenizer.StopWords,
		})
		if err != nil {
			logger.Fatal("Failed to build tokenizer", zap.Error(err))
		}
	}

	// Minutes API client
	client := ndl.New(ndl.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		PageSize:    cfg.Upstream.PageSize,
		MaxRetries:  cfg.Upstream.Retries,
		Timeout:     time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		Concurrency: cfg.Upstream.Concurrency,
		Logger:      logger,
	})

	// Create use case services
	searchSvc := searchuc.New(client, normalize.New(), analytics.New(tok), repo,
		cfg.Search.TopKeywords, logger)
	histSvc := historyuc.New(repo)
	healthSvc := healthuc.New(repo, client)

	// Create the HTTP server
	server := httpapi.NewServer(searchSvc, histSvc, healthSvc, logger).
		WithDefaultMaxRecords(cfg.Search.DefaultMaxRecords)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
