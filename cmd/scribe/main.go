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
	"go.uber.org/zap"

	"github.com/glp-archive/scribe/internal/config"
	"github.com/glp-archive/scribe/internal/db"
	dbRedis "github.com/glp-archive/scribe/internal/db/redis"
	logpkg "github.com/glp-archive/scribe/internal/logger"
	"github.com/glp-archive/scribe/internal/metrics"
	"github.com/glp-archive/scribe/internal/render"
	manifestrepo "github.com/glp-archive/scribe/internal/repository/manifest"
	"github.com/glp-archive/scribe/internal/repository/textstore"
	"github.com/glp-archive/scribe/internal/repository/uistate"
	chiTransport "github.com/glp-archive/scribe/internal/transport/chi"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
	healthuc "github.com/glp-archive/scribe/internal/usecase/health"
	indexuc "github.com/glp-archive/scribe/internal/usecase/index"
	relateduc "github.com/glp-archive/scribe/internal/usecase/related"
	searchuc "github.com/glp-archive/scribe/internal/usecase/search"
	"github.com/glp-archive/scribe/internal/version"
)

func main() {
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

	logger.Info("Starting scribe API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("manifest_provider", cfg.Manifest.Provider),
	)

	// The document store backs the store manifest provider and the redis
	// UI-state store; neither is required in the default http+memory setup.
	var store db.Store
	needsStore := cfg.Manifest.Provider == "store" || cfg.UIState.Store == "redis"
	if needsStore {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
	}

	// Register archive metrics explicitly (no init())
	metrics.RegisterArchiveMetrics()

	// Manifest provider — selected at startup, one capability interface.
	var loader catalog.Loader
	switch cfg.Manifest.Provider {
	case "http":
		loader = manifestrepo.NewHTTPLoader(
			cfg.Manifest.URL,
			time.Duration(cfg.Manifest.TimeoutSec)*time.Second,
			cfg.Manifest.MaxBytes,
		)
	case "store":
		loader = manifestrepo.NewStoreLoader(store, cfg.Manifest.KeyPrefix)
	default:
		logger.Fatal("Unknown manifest provider", zap.String("provider", cfg.Manifest.Provider))
	}

	catalogSvc := catalog.New(loader, cfg.Archive.RootPrefix, logger)

	// Initial load. Failure is not fatal: catalog-dependent endpoints
	// answer 503 until an admin reload succeeds.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(),
		time.Duration(cfg.Manifest.TimeoutSec)*time.Second)
	if err := catalogSvc.Load(loadCtx); err != nil {
		metrics.ManifestLoadsTotal.WithLabelValues(cfg.Manifest.Provider, "error").Inc()
		logger.Error("Initial manifest load failed", zap.Error(err))
	} else {
		metrics.ManifestLoadsTotal.WithLabelValues(cfg.Manifest.Provider, "ok").Inc()
		if snap, ok := catalogSvc.Snapshot(); ok {
			metrics.ManifestDocuments.Set(float64(snap.Len()))
		}
	}
	cancelLoad()

	// UI state store
	var uiStore uistate.Store
	switch cfg.UIState.Store {
	case "redis":
		uiStore = uistate.NewRedis(store, cfg.UIState.KeyPrefix,
			time.Duration(cfg.UIState.TTLHours)*time.Hour)
	default:
		uiStore = uistate.NewMemory()
	}

	// Text fetcher
	texts := textstore.NewFetcher(textstore.Config{
		BaseURL:       cfg.Text.BaseURL,
		Timeout:       time.Duration(cfg.Text.TimeoutSec) * time.Second,
		MaxBytes:      cfg.Text.MaxBytes,
		CacheTTL:      time.Duration(cfg.Text.CacheTTLSec) * time.Second,
		ObjectStorage: cfg.Text.ObjectStorage,
		Fetches:       metrics.TextFetchesTotal,
		Cache:         metrics.TextCacheTotal,
	})

	// Use case services
	indexSvc := indexuc.New(catalogSvc)
	searchSvc := searchuc.New(catalogSvc)
	relatedSvc := relateduc.New(catalogSvc, cfg.Archive.RelatedLimit)

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(pinger, catalogSvc)

	// Create chi server
	server := chiTransport.NewServer(
		catalogSvc, indexSvc, searchSvc, relatedSvc, healthSvc,
		render.New(), texts, uiStore,
		cfg.Manifest.Provider, cfg.Archive.WrapWidth, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
