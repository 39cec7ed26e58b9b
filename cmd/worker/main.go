package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hanbutik/backend-butik/internal/common"
	"github.com/hanbutik/backend-butik/internal/config"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
	"github.com/hanbutik/backend-butik/internal/lock"
	"github.com/hanbutik/backend-butik/internal/notify"
	"github.com/hanbutik/backend-butik/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	taskConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for task queue")
	}
	taskClient := asynq.NewClient(taskConn)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()
	enqueuer := notify.Enqueuer{Client: taskClient, Queue: cfg.TaskQueue, MaxRetry: cfg.TaskMaxRetry}

	mailer := common.NopEmailSender{}

	emailNotifier := notify.EmailNotifier{
		Mail:    mailer,
		Users:   queries,
		Enabled: cfg.NotifyEmailEnabled,
		// The sweeper already emails the customer directly.
		TopicToggles: map[string]bool{events.TopicCartAbandoned: false},
	}
	deliveryWorker := notify.DeliveryWorker{
		Q:         queries,
		Notifiers: []events.Notifier{emailNotifier},
		Logger:    &logger,
	}

	sweeper := notify.Sweeper{
		Q:       queries,
		Mail:    mailer,
		Events:  &events.Bus{Store: queries, Scheduler: enqueuer},
		Locker:  lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff},
		Window:  cfg.AbandonedCartWindow,
		LockTTL: cfg.LockTTL,
		Logger:  &logger,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TaskEventDeliver, deliveryWorker.HandleEventDeliver)
	mux.HandleFunc(notify.TaskAbandonedSweep, sweeper.HandleSweepTask)

	srv := asynq.NewServer(taskConn, asynq.Config{
		Concurrency: cfg.TaskConcurrency,
		Queues:      map[string]int{cfg.TaskQueue: 1},
	})
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start task server")
	}

	scheduler := asynq.NewScheduler(taskConn, &asynq.SchedulerOpts{})
	spec := fmt.Sprintf("@every %s", cfg.AbandonedSweepInterval)
	if _, err := scheduler.Register(spec, asynq.NewTask(notify.TaskAbandonedSweep, nil), asynq.Queue(cfg.TaskQueue)); err != nil {
		logger.Fatal().Err(err).Msg("register abandoned cart sweep")
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}

	logger.Info().Msg("worker starting")
	<-ctx.Done()

	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *dbgen.Queries) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "butik-worker"
	if cfg.DBMaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.DBMaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool, dbgen.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
