package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	"go.uber.org/zap"
)

// statisticPublisher hands committed transaction changes to the statistic worker instead of
// updating the cache in the request path.
type statisticPublisher struct {
	publisher mq.Publisher
	queue     string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewStatisticPublisher(publisher mq.Publisher, queue string, metrics *metrics.Metrics,
	logger *zap.Logger) service.StatisticDispatcher {
	return &statisticPublisher{publisher: publisher, queue: queue, metrics: metrics, logger: logger}
}

func (s *statisticPublisher) TransactionCreated(ctx context.Context, tx *model.GeneralTransaction) error {
	return s.publish(ctx, service.EventTransactionCreated, tx)
}

func (s *statisticPublisher) TransactionRemoved(ctx context.Context, tx *model.GeneralTransaction) error {
	return s.publish(ctx, service.EventTransactionRemoved, tx)
}

func (s *statisticPublisher) publish(ctx context.Context, event string, tx *model.GeneralTransaction) error {
	body, err := json.Marshal(service.NewStatisticEvent(tx))
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	if err := s.publisher.Publish(ctx, "", s.queue, mq.Message{Type: event, Body: body}); err != nil {
		s.logger.Error("Failed to publish statistic event",
			zap.String("event", event),
			zap.Int64("transactionID", tx.ID),
			zap.Error(err))
		s.record(event, "error")
		return err
	}

	s.logger.Debug("Statistic event published",
		zap.String("event", event),
		zap.Int64("transactionID", tx.ID))
	s.record(event, "published")

	return nil
}

func (s *statisticPublisher) record(event, status string) {
	if s.metrics != nil {
		s.metrics.RecordStatisticEvent(event, status)
	}
}
