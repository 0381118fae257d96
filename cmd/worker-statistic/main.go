package main

import (
	"context"

	"github.com/dlir2404/intel-money-backend-sub000/internal/config"
	"github.com/dlir2404/intel-money-backend-sub000/internal/consumers"
	"github.com/dlir2404/intel-money-backend-sub000/internal/database"
	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewRedisClient,
			NewMQConnection,
			NewMQConsumer,
			NewMetrics,

			cache.NewRedisCache,
			repository.NewGeneralTransactionRepository,
			repository.NewCategoryRepository,
			NewStatisticService,
			NewStatisticConsumer,
		),
		fx.Invoke(runStatisticConsumer),
	).Run()
}

func runStatisticConsumer(cfg *config.Config, statisticConsumer consumers.StatisticConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareQueues(cfg.Statistic.Queue); err != nil {
				logger.Error("Declare queues failed", zap.Error(err))
				return err
			}

			go func() {
				if err := statisticConsumer.Consume(appCtx); err != nil {
					logger.Error("Consumer exited", zap.Error(err))
				}
			}()

			logger.Info("Statistic consumer started", zap.String("queue", cfg.Statistic.Queue))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping statistic consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return database.NewConnection(cfg, logger)
}

func NewRedisClient(cfg *config.Config, logger *zap.Logger) (redis.UniversalClient, error) {
	return cache.NewRedisClient(context.Background(), cfg.Redis, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewStatisticService(cfg *config.Config, transactions repository.GeneralTransactionRepository,
	categories repository.CategoryRepository, statisticCache cache.Cache, m *metrics.Metrics,
	logger *zap.Logger) service.StatisticService {
	return service.NewStatisticService(transactions, categories, statisticCache,
		service.StatisticOptions{Location: cfg.Statistic.Location()}, m, logger)
}

func NewStatisticConsumer(cfg *config.Config, statistic service.StatisticService, consumer mq.Consumer,
	logger *zap.Logger) consumers.StatisticConsumer {
	return consumers.NewStatisticConsumer(statistic, consumer, cfg.Statistic.Queue, cfg.RabbitMQ.Prefetch, logger)
}
