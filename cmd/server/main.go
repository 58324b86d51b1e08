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

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/freelancepay/internal/auth"
	"github.com/mmynk/freelancepay/internal/config"
	"github.com/mmynk/freelancepay/internal/events"
	"github.com/mmynk/freelancepay/internal/middleware"
	"github.com/mmynk/freelancepay/internal/revocation"
	"github.com/mmynk/freelancepay/internal/service"
	"github.com/mmynk/freelancepay/internal/storage"
	"github.com/mmynk/freelancepay/internal/storage/postgres"
	"github.com/mmynk/freelancepay/internal/storage/sqlite"
	"github.com/mmynk/freelancepay/pkg/logging"
)

func main() {
	logging.Setup()
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	revoked, err := openRevocationStore(ctx, cfg)
	if err != nil {
		return err
	}

	publisher, err := openPublisher(ctx, cfg)
	if err != nil {
		return err
	}

	logger := slog.Default()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := service.NewRouter(service.Services{
		Auth:     service.NewAuthService(authenticator, jwtManager, store, revoked, cfg.CookieSecure, logger),
		Clients:  service.NewClientService(store, publisher, logger),
		Invoices: service.NewInvoiceService(store, publisher, logger),
	}, middleware.RequireAuth(jwtManager, revoked))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)
	router.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	var handler http.Handler = router
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(logger)(handler)
	handler = gzhttp.GzipHandler(handler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", "address", cfg.Addr(), "url", fmt.Sprintf("http://localhost%s/api", cfg.Addr()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Server) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver, "database", cfg.DBPath)
		return store, nil
	}
}

func openRevocationStore(ctx context.Context, cfg config.Server) (revocation.Store, error) {
	if cfg.RevocationBackend != config.RevocationRedis {
		return revocation.NewMemory(), nil
	}
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDBNum,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	slog.Info("Token revocation in Redis", "addr", cfg.RedisAddr)
	return revocation.NewRedis(cli), nil
}

func openPublisher(ctx context.Context, cfg config.Server) (events.Publisher, error) {
	if cfg.SNSTopicARN == "" {
		return events.Nop{}, nil
	}
	cli, err := events.NewSNSClient(ctx, cfg.SNSEndpoint)
	if err != nil {
		return nil, err
	}
	slog.Info("Publishing events to SNS", "topic", cfg.SNSTopicARN)
	return events.NewSNS(cli, cfg.SNSTopicARN), nil
}
