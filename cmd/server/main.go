package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"courier/internal/email"
	"courier/internal/platform/config"
	"courier/internal/platform/events"
	"courier/internal/platform/httpserver"
	"courier/internal/platform/logger"
	"courier/internal/platform/metrics"
	"courier/internal/platform/postgres"
	platformredis "courier/internal/platform/redis"
	"courier/internal/subscription/cache"
	"courier/internal/subscription/handler"
	"courier/internal/subscription/models"
	"courier/internal/subscription/service"
	"courier/internal/subscription/store"
	httptransport "courier/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Close()
	}

	sender, err := models.ParseEmailAddress(cfg.Email.Sender)
	if err != nil {
		return err
	}
	emailClient, err := email.NewClient(cfg.Email.BaseURL, sender, cfg.Email.AuthToken,
		email.WithTimeout(cfg.Email.Timeout))
	if err != nil {
		return err
	}

	m := metrics.New()
	subscriptionStore := store.NewPostgres(db)
	txRunner := newSubscriptionPostgresTx(db, time.Now)

	opts := []service.Option{
		service.WithMetrics(m),
	}
	if redisClient != nil {
		opts = append(opts, service.WithTokenCache(cache.New(redisClient.Client, cfg.Redis.TTL)))
	}
	if publisher != nil {
		opts = append(opts, service.WithEventPublisher(publisher))
	}

	subscriptions := service.New(subscriptionStore, txRunner, emailClient, log, cfg.Server.BaseURL, opts...)
	router := httptransport.NewRouter(handler.New(subscriptions, log, m))
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting courier", "addr", cfg.Server.Addr, "base_url", cfg.Server.BaseURL)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
