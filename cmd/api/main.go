package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kalasahayak/internal/auth"
	"kalasahayak/internal/catalog"
	"kalasahayak/internal/config"
	"kalasahayak/internal/ingest"
	"kalasahayak/internal/inquiry"
	"kalasahayak/internal/logging"
	"kalasahayak/internal/platform/kalaapi"
	"kalasahayak/internal/product"
	"kalasahayak/internal/searchlog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, cleanup, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := newServer(cfg, log, d)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// wire builds the repositories and services. Postgres, Redis and Kafka are
// each optional; the returned cleanup closes whatever was opened.
func wire(ctx context.Context, cfg *config.Config, log *zap.Logger) (deps, func(), error) {
	var (
		d        deps
		closers  []func()
		products product.Repository
		recorder ingest.SourceRecorder
		runs     ingest.Repository
		inqRepo  inquiry.Repository
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DatabaseDSN != "" {
		pool, err := openDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return deps{}, cleanup, err
		}
		closers = append(closers, pool.Close)
		log.Info("database connection OK", zap.String("dsn", config.RedactDSN(cfg.DatabaseDSN)))

		pg := product.NewPostgresRepo(pool, cfg.DBTimeout)
		products, recorder = pg, pg
		runs = ingest.NewPostgresRepo(pool)
		inqRepo = inquiry.NewPostgresRepo(pool, cfg.DBTimeout)
		d.checks = append(d.checks, readinessCheck{name: "database", ping: pool.Ping})
	} else {
		mem, err := product.NewMemoryRepo(product.SampleItems())
		if err != nil {
			return deps{}, cleanup, err
		}
		products = mem
		runs = ingest.NewMemoryRepo()
		inqRepo = inquiry.NewMemoryRepo()
		log.Warn("DB_DSN not set, serving the in-memory sample catalog")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cache reads will fall through", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		products = product.NewCachedRepo(products, rdb, cfg.CacheTTL, log)
		d.checks = append(d.checks, readinessCheck{name: "cache", optional: true, ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	var events searchlog.Publisher = searchlog.NopPublisher{}
	if cfg.KafkaBroker != "" {
		kp := searchlog.NewKafkaPublisher(cfg.KafkaBroker, cfg.SearchTopic)
		closers = append(closers, func() {
			if err := kp.Close(); err != nil {
				log.Warn("close search publisher", zap.Error(err))
			}
		})
		events = kp
	}

	categories := make([]catalog.Category, 0, len(cfg.IngestCategories))
	for _, raw := range cfg.IngestCategories {
		c, err := catalog.ParseCategory(raw)
		if err != nil {
			return deps{}, cleanup, errors.Wrap(err, "INGEST_CATEGORIES")
		}
		categories = append(categories, c)
	}

	if cfg.JWTSecret != "" && len(cfg.Operators) > 0 {
		svc, err := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, cfg.Operators)
		if err != nil {
			return deps{}, cleanup, err
		}
		d.auth = svc
	}

	kala := kalaapi.NewClient(cfg.KalaAPIURL, cfg.UserAgent, cfg.KalaAPIRPS, cfg.KalaAPIRetries)
	d.remote = kala
	d.products = product.NewService(products, events, log)
	d.inquiries = inquiry.NewService(inqRepo, kala, log)
	d.ingest = ingest.NewService(kala, products, recorder, runs, ingest.Config{
		Categories: categories,
		BatchSize:  cfg.IngestBatch,
	}, log)
	return d, cleanup, nil
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrapf(err, "ping database (%s)", config.RedactDSN(dsn))
	}
	return pool, nil
}
