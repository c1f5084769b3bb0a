package main

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/adapters/blobarchive"
	"marketing-analytics-service/internal/aggregation/adapters/memlock"
	aggPg "marketing-analytics-service/internal/aggregation/adapters/postgres"
	"marketing-analytics-service/internal/aggregation/adapters/redislock"
	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	aggUsecase "marketing-analytics-service/internal/aggregation/core/usecase"
	catalogRepoPg "marketing-analytics-service/internal/catalog/adapters/postgres"
	catalogUsecase "marketing-analytics-service/internal/catalog/core/usecase"
	"marketing-analytics-service/internal/platform/config"
	"marketing-analytics-service/internal/platform/database"
	"marketing-analytics-service/internal/platform/telemetry"
)

// app holds the wired runner and everything that must be closed with it.
type app struct {
	runner  *aggUsecase.Runner
	metrics *telemetry.Metrics
	closers []func() error
}

func (a *app) Close(log *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{metrics: telemetry.New()}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			a.Close(log)
			return nil, err
		}
	}

	locker, err := newLocker(ctx, cfg.Redis, a, log)
	if err != nil {
		a.Close(log)
		return nil, err
	}

	policy, err := newPolicy(cfg.Aggregation)
	if err != nil {
		a.Close(log)
		return nil, err
	}

	sqlDB := database.NewSQLDB(db)
	facts := aggPg.NewFactReader(sqlDB)
	catalogRepository := catalogRepoPg.NewCatalogRepository(sqlDB)
	catalogUC := catalogUsecase.NewCatalogUseCase(catalogRepository, catalogRepository, log)

	opts := []aggUsecase.RunnerOption{
		aggUsecase.WithStatusRefresher(catalogUC),
		aggUsecase.WithArchiver(aggPg.NewArchiver(sqlDB)),
	}
	if cfg.Scheduler.AssignSegments {
		assigner := aggUsecase.NewSegmentAssigner(facts, catalogRepository, aggPg.NewMembershipWriter(sqlDB), log)
		opts = append(opts, aggUsecase.WithSegmentAssigner(assigner))
	}
	if cfg.Archive.BucketURL != "" {
		exp, err := blobarchive.Open(ctx, cfg.Archive.BucketURL, cfg.Archive.Prefix, log)
		if err != nil {
			a.Close(log)
			return nil, err
		}
		a.closers = append(a.closers, exp.Close)
		opts = append(opts, aggUsecase.WithExporter(exp))
	}

	a.runner = aggUsecase.NewRunner(
		aggUsecase.NewAggregator(facts, catalogRepository, policy, log),
		aggPg.NewAggregateWriter(sqlDB),
		locker,
		a.metrics,
		log,
		opts...,
	)
	return a, nil
}

// newLocker picks the Redis lock when an address is configured, otherwise
// a process-local one.
func newLocker(ctx context.Context, cfg config.RedisConfig, a *app, log *zap.Logger) (ports.WindowLocker, error) {
	if cfg.Addr == "" {
		log.Info("using in-process window locks")
		return memlock.New(), nil
	}

	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Addr, err)
	}
	a.closers = append(a.closers, cli.Close)

	log.Info("using redis window locks", zap.String("addr", cfg.Addr))
	return redislock.New(cli, redislock.Options{
		Prefix: cfg.KeyPrefix,
		TTL:    cfg.LockTTL,
		Retry:  cfg.LockRetry,
	}, log), nil
}

func newPolicy(cfg config.AggregationConfig) (domain.Policy, error) {
	attr, err := domain.ParseAttribution(cfg.SegmentAttribution)
	if err != nil {
		return domain.Policy{}, err
	}
	return domain.Policy{
		SegmentAttribution: attr,
		CLVHorizonDays:     cfg.CLVHorizonDays,
		ClickEvent:         cfg.ClickEvent,
		ImpressionEvent:    cfg.ImpressionEvent,
	}, nil
}

