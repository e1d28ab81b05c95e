package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	_ "orderkit/docs"
	"orderkit/pkg/config"
	"orderkit/pkg/logger"
	"orderkit/pkg/metrics"
	"orderkit/pkg/order"
	"orderkit/pkg/order/memory"
	pg "orderkit/pkg/order/postgres"
	"orderkit/pkg/otel"
	"orderkit/pkg/session"
)

// @title orderkit API
// @version 1.0
// @description Orders with tier-based delivery, plus CSV record conversion
// @host localhost:8443
// @BasePath /
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("ORDERKIT_CONFIG"))
	level, lerr := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(os.Stdout, level, "orderkit", otel.GetTraceID)
	if err != nil {
		log.Error(ctx, "load config", "error", err)
		return err
	}
	if lerr != nil {
		log.Warn(ctx, "falling back to info level", "error", lerr)
	}
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "orderkit", Host: cfg.OtelHost, Probability: cfg.OtelProbability})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return err
	}
	defer shutdown(context.Background())

	repo, closeRepo, err := openRepository(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeRepo()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	a := &app{
		repo:     repo,
		sessions: session.New(redisClient, cfg.SessionTTL),
		log:      log,
		metrics:  metrics.NewRegistry(),
		tracer:   tp.Tracer("orderkit"),
		newID:    newOrderID,
	}
	srv := &http.Server{Addr: cfg.Addr, Handler: a.routes(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Addr, "tls", cfg.TLSEnabled())
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server closed", "error", err)
			return err
		}
	case sig := <-stop:
		log.Info(ctx, "shutting down", "signal", sig.String())
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error(ctx, "shutdown", "error", err)
			return err
		}
	}
	return nil
}

// openRepository uses Postgres when dsn is set and memory otherwise.
func openRepository(ctx context.Context, log *logger.Logger, dsn string) (order.Repository, func(), error) {
	if dsn == "" {
		log.Info(ctx, "DATABASE_URL not set, using in-memory orders")
		return memory.New(), func() {}, nil
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Error(ctx, "db connect", "error", err)
		return nil, nil, err
	}
	repo := pg.New(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Error(ctx, "migrate", "error", err)
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}
