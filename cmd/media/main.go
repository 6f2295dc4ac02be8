package main

import (
	"context"
	"errors"
	"net"
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

	"Loom/internal/api/middleware"
	"Loom/internal/api/routes"
	"Loom/internal/bus"
	"Loom/internal/config"
	"Loom/internal/core/posts"
	mongoRepo "Loom/internal/db/mongo"
	"Loom/internal/observability"
	"Loom/internal/rpc"
	"Loom/internal/rpc/servers"
	"Loom/internal/storage"
)

const serviceName = "media"

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

	mongoClient, db, err := mongoRepo.Connect(ctx, cfg.MongoURI, "media")
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()

	blobs, err := storage.NewBlobStore(ctx, storage.Options{
		Endpoint:  cfg.MediaEndpoint,
		AccessKey: cfg.MediaAccessKey,
		SecretKey: cfg.MediaSecretKey,
		Bucket:    cfg.MediaBucket,
		UseSSL:    config.IsProduction(),
		URLExpiry: cfg.MediaURLExpiry,
	})
	if err != nil {
		logger.Fatal("failed to connect to object store", zap.Error(err))
	}

	messageBus, err := bus.Connect(cfg.BrokerURI, logger)
	if err != nil {
		logger.Fatal("failed to connect to broker", zap.Error(err))
	}
	defer messageBus.Close()

	postService := posts.NewPostService(
		mongoRepo.NewPostRepository(db),
		blobs,
		bus.NewPublisher(messageBus),
		logger,
	)

	for _, binding := range bus.MediaServiceBindings(postService) {
		if err := messageBus.Consume(ctx, binding); err != nil {
			logger.Fatal("failed to start consumer", zap.String("queue", binding.Queue), zap.Error(err))
		}
	}

	// gRPC surface for the aggregator.
	grpcAddr := envOr("GRPC_ADDR", ":50051")
	grpcServer := rpc.NewServer()
	rpc.RegisterPostServiceServer(grpcServer, servers.NewPostServer(postService))

	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", grpcAddr), zap.Error(err))
	}
	go func() {
		logger.Info("grpc server listening", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal("grpc server failed", zap.Error(err))
		}
	}()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	auth := middleware.NewJWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, logger)
	routes.RegisterMediaRoutes(r, postService, auth, logger)

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
	grpcServer.GracefulStop()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
