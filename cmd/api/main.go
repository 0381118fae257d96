package main

import (
	"context"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/api"
	v1 "github.com/dlir2404/intel-money-backend-sub000/internal/api/v1"
	"github.com/dlir2404/intel-money-backend-sub000/internal/api/validator"
	"github.com/dlir2404/intel-money-backend-sub000/internal/config"
	"github.com/dlir2404/intel-money-backend-sub000/internal/database"
	middleware "github.com/dlir2404/intel-money-backend-sub000/internal/error"
	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/publishers"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	version         = "1.0.0"
	collectInterval = 15 * time.Second
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewRedisClient,
			NewMetrics,
			NewFiber,

			cache.NewRedisCache,
			cache.NewRedisLocker,

			repository.NewGeneralTransactionRepository,
			repository.NewWalletRepository,
			repository.NewCategoryRepository,
			repository.NewRelatedUserRepository,
			repository.NewBalanceMutator,
			NewTransactionManager,

			NewStatisticService,
			NewStatisticDispatcher,
			service.NewLedgerService,
			NewSyncService,

			NewDatabaseCollector,
			NewHealthChecker,
			NewValidator,
			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	dbCollector *metrics.DatabaseMetricsCollector, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, handler, prometheus.DefaultGatherer)

	systemCollector := metrics.NewSystemCollector(m, logger, version)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			systemCollector.Start(collectInterval)
			dbCollector.Start(collectInterval)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()

			logger.Info("API server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			systemCollector.Stop()
			dbCollector.Stop()
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiber() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", zap.Error(err))
		return nil, err
	}

	return db, nil
}

func NewRedisClient(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) (redis.UniversalClient, error) {
	client, err := cache.NewRedisClient(context.Background(), cfg.Redis, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

func NewMetrics() *metrics.Metrics {
	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	m.SetServiceVersion(version, "", "")
	return m
}

func NewTransactionManager(db *gorm.DB, cfg *config.Config) repository.TxManager {
	return repository.NewTransactionManager(db, repository.TxOptions{
		Timeout: cfg.Ledger.OperationTimeout,
		Retries: cfg.Ledger.DeadlockRetries,
	})
}

func NewStatisticService(cfg *config.Config, transactions repository.GeneralTransactionRepository,
	categories repository.CategoryRepository, statisticCache cache.Cache, m *metrics.Metrics,
	logger *zap.Logger) service.StatisticService {
	return service.NewStatisticService(transactions, categories, statisticCache,
		service.StatisticOptions{Location: cfg.Statistic.Location()}, m, logger)
}

// NewStatisticDispatcher updates the statistic cache in the request path, or queues the update for
// the statistic worker when dispatch is "queue".
func NewStatisticDispatcher(cfg *config.Config, statistic service.StatisticService, m *metrics.Metrics,
	logger *zap.Logger, lc fx.Lifecycle) (service.StatisticDispatcher, error) {
	if cfg.Statistic.Dispatch != config.DispatchQueue {
		return statistic, nil
	}

	rabbit, err := mq.NewConnection(cfg.RabbitMQ, logger)
	if err != nil {
		return nil, err
	}

	if err := rabbit.DeclareQueues(cfg.Statistic.Queue); err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	publisher, err := rabbit.CreatePublisher()
	if err != nil {
		_ = rabbit.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rabbit.Close()
		},
	})

	return publishers.NewStatisticPublisher(publisher, cfg.Statistic.Queue, m, logger), nil
}

func NewSyncService(cfg *config.Config, txManager repository.TxManager, categories repository.CategoryRepository,
	wallets repository.WalletRepository, relatedUsers repository.RelatedUserRepository,
	transactions repository.GeneralTransactionRepository, balances repository.BalanceMutator, locker cache.Locker,
	m *metrics.Metrics, logger *zap.Logger) service.SyncService {
	return service.NewSyncService(txManager, categories, wallets, relatedUsers, transactions, balances, locker,
		service.SyncOptions{LockTTL: cfg.Sync.LockTTL}, m, logger)
}

func NewDatabaseCollector(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB) *metrics.DatabaseMetricsCollector {
	return metrics.NewDatabaseMetricsCollector(m, logger, db)
}

func NewHealthChecker(collector *metrics.DatabaseMetricsCollector) v1.HealthChecker {
	return collector
}

func NewValidator(m *metrics.Metrics) validator.IXValidator {
	return validator.NewXValidator(playground.New(), m)
}
