package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"Loom/internal/api/middleware"
	"Loom/internal/api/routes"
	"Loom/internal/config"
	"Loom/internal/core/composer"
	"Loom/internal/observability"
	"Loom/internal/rpc"
)

const serviceName = "aggregator"

func main() {
	cfg, err := config.Load(config.EnvSecretSource{})
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(serviceName, config.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, serviceName, cfg.OTLPCollectorAddr)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	// Downstream connections. Trace context propagates through the client
	// stats handlers.
	targets := []struct {
		name string
		addr string
	}{
		{"post-service", cfg.PostServiceAddr},
		{"reply-service", cfg.ReplyServiceAddr},
		{"user-profile-service", cfg.UserProfileServiceAddr},
		{"relationship-service", cfg.RelationshipServiceAddr},
		{"feed-service", cfg.FeedServiceAddr},
	}
	conns := make(map[string]*grpc.ClientConn, len(targets))
	for _, t := range targets {
		conn, err := rpc.Dial(t.addr)
		if err != nil {
			logger.Fatal("failed to dial downstream", zap.String("target", t.name), zap.Error(err))
		}
		conns[t.name] = conn
		defer closeConn(logger, t.name, conn)
	}

	composition := composer.NewComposer(
		rpc.NewPostServiceClient(conns["post-service"]),
		rpc.NewReplyServiceClient(conns["reply-service"]),
		rpc.NewUserProfileServiceClient(conns["user-profile-service"]),
		rpc.NewRelationshipServiceClient(conns["relationship-service"]),
		rpc.NewFeedServiceClient(conns["feed-service"]),
		observability.NewAnnotator(serviceName),
		logger,
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	// Request deadline rides the context into every downstream RPC.
	r.Use(chiMiddleware.Timeout(10 * time.Second))

	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute, logger)
	r.Use(rateLimiter.Middleware)

	routes.RegisterAggregatorRoutes(r, composition, logger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	httpAddr := envOr("HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", httpAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

func closeConn(logger *zap.Logger, name string, conn *grpc.ClientConn) {
	if err := conn.Close(); err != nil {
		logger.Warn("failed to close connection", zap.String("target", name), zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
