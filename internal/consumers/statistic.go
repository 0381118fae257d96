package consumers

import (
	"context"
	"encoding/json"

	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	"go.uber.org/zap"
)

type StatisticConsumer interface {
	Consume(ctx context.Context) error
}

type statisticConsumer struct {
	statistic service.StatisticDispatcher
	consumer  mq.Consumer
	queue     string
	prefetch  int
	logger    *zap.Logger
}

func NewStatisticConsumer(statistic service.StatisticDispatcher, consumer mq.Consumer, queue string, prefetch int,
	logger *zap.Logger) StatisticConsumer {
	return &statisticConsumer{
		statistic: statistic,
		consumer:  consumer,
		queue:     queue,
		prefetch:  prefetch,
		logger:    logger,
	}
}

func (s *statisticConsumer) Consume(ctx context.Context) error {
	return s.consumer.Consume(ctx, s.prefetch, s.queue, s.handleMessage)
}

// handleMessage drops undecodable and unknown events. A dispatcher error is requeued; the statistic
// service drops the entries it could not update and does not return one.
func (s *statisticConsumer) handleMessage(ctx context.Context, msg mq.Message) error {
	var event service.StatisticEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Warn("Invalid statistic event", zap.String("type", msg.Type), zap.Error(err))
		return err
	}

	tx := event.Transaction()

	var err error
	switch msg.Type {
	case service.EventTransactionCreated:
		err = s.statistic.TransactionCreated(ctx, tx)
	case service.EventTransactionRemoved:
		err = s.statistic.TransactionRemoved(ctx, tx)
	default:
		s.logger.Warn("Unknown statistic event", zap.String("type", msg.Type))
		return nil
	}

	if err != nil {
		s.logger.Warn("Statistic update failed, requeueing",
			zap.String("type", msg.Type),
			zap.Int64("transactionID", event.TransactionID),
			zap.Error(err))
		return mq.Temporary(err)
	}

	return nil
}
