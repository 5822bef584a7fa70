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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbill/admind/internal/config"
	"github.com/cloudbill/admind/internal/kv"
	kvFile "github.com/cloudbill/admind/internal/kv/file"
	kvRedis "github.com/cloudbill/admind/internal/kv/redis"
	kvSqlite "github.com/cloudbill/admind/internal/kv/sqlite"
	logpkg "github.com/cloudbill/admind/internal/logger"
	"github.com/cloudbill/admind/internal/metrics"
	customerrepo "github.com/cloudbill/admind/internal/repository/customer"
	sessionrepo "github.com/cloudbill/admind/internal/repository/session"
	chiTransport "github.com/cloudbill/admind/internal/transport/chi"
	openaiTransport "github.com/cloudbill/admind/internal/transport/openai"
	customeruc "github.com/cloudbill/admind/internal/usecase/customer"
	dashboarduc "github.com/cloudbill/admind/internal/usecase/dashboard"
	gatewayuc "github.com/cloudbill/admind/internal/usecase/gateway"
	healthuc "github.com/cloudbill/admind/internal/usecase/health"
	sessionuc "github.com/cloudbill/admind/internal/usecase/session"
	"github.com/cloudbill/admind/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting admind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("state_driver", cfg.State.Driver),
	)

	// Durable-state store for the session flag
	var state kv.Store
	switch cfg.State.Driver {
	case "file":
		state, err = kvFile.NewStore(cfg.State.Path)
	case "sqlite":
		state, err = kvSqlite.NewStore(cfg.State.Path)
	case "redis":
		state, err = kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.State.Addrs,
			Password: cfg.State.Password,
		})
	default:
		return fmt.Errorf("unknown state driver %q", cfg.State.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create state store: %w", err)
	}
	defer state.Close()

	ctx := context.Background()
	if err := state.WaitForReady(ctx, time.Duration(cfg.State.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("state store not ready: %w", err)
	}

	// Customer repository — in-memory, optionally with simulated backend latency
	repo := customerrepo.New()
	if cfg.Store.LatencyMS > 0 {
		repo.WithLatency(time.Duration(cfg.Store.LatencyMS) * time.Millisecond)
	}
	if cfg.Store.SeedDemo {
		if err := seedDemo(ctx, repo); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Info("Seeded demo customers")
	}

	// Use case services
	gate := sessionuc.New(sessionrepo.New(state), logger)
	customerSvc := customeruc.New(repo)
	dashboardSvc := dashboarduc.New(repo)
	prober := openaiTransport.NewProber(&openaiTransport.Config{
		APIKey:  cfg.Gateway.APIKey,
		Timeout: time.Duration(cfg.Gateway.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	gatewaySvc := gatewayuc.New(repo, prober)
	healthSvc := healthuc.New(state)

	server := chiTransport.NewServer(customerSvc, dashboardSvc, gatewaySvc, healthSvc, gate)

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
	return nil
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

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
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
