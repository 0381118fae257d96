package consumers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/consumers"
	"github.com/dlir2404/intel-money-backend-sub000/internal/mocks"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const queue = "ledger.statistic"

// handlerOf starts the consumer against a mock broker and returns the handler it registered.
func handlerOf(t *testing.T, statistic service.StatisticDispatcher) mq.Handle {
	t.Helper()

	consumer := new(mocks.Consumer)
	var handle mq.Handle
	consumer.On("Consume", mock.Anything, 4, queue, mock.Anything).
		Run(func(args mock.Arguments) { handle = args.Get(3).(mq.Handle) }).
		Return(nil).Once()

	require.NoError(t, consumers.NewStatisticConsumer(statistic, consumer, queue, 4, zap.NewNop()).
		Consume(context.Background()))
	consumer.AssertExpectations(t)
	require.NotNil(t, handle)

	return handle
}

func message(t *testing.T, eventType string) mq.Message {
	t.Helper()

	body, err := json.Marshal(service.StatisticEvent{
		TransactionID:   42,
		UserID:          7,
		Type:            model.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(300),
		TransactionDate: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	return mq.Message{Type: eventType, Body: body}
}

func TestStatisticConsumer(t *testing.T) {
	isIncome := mock.MatchedBy(func(tx *model.GeneralTransaction) bool {
		return tx.ID == 42 && tx.UserID == 7 && tx.Type == model.TransactionTypeIncome &&
			tx.Amount.Equal(decimal.NewFromInt(300))
	})

	t.Run("created", func(t *testing.T) {
		statistic := new(mocks.StatisticDispatcher)
		statistic.On("TransactionCreated", mock.Anything, isIncome).Return(nil).Once()

		err := handlerOf(t, statistic)(context.Background(), message(t, service.EventTransactionCreated))

		assert.NoError(t, err)
		statistic.AssertExpectations(t)
	})

	t.Run("removed", func(t *testing.T) {
		statistic := new(mocks.StatisticDispatcher)
		statistic.On("TransactionRemoved", mock.Anything, isIncome).Return(nil).Once()

		err := handlerOf(t, statistic)(context.Background(), message(t, service.EventTransactionRemoved))

		assert.NoError(t, err)
		statistic.AssertExpectations(t)
	})

	t.Run("cache failure is requeued", func(t *testing.T) {
		statistic := new(mocks.StatisticDispatcher)
		statistic.On("TransactionCreated", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		err := handlerOf(t, statistic)(context.Background(), message(t, service.EventTransactionCreated))

		assert.True(t, mq.IsTemporary(err))
		statistic.AssertExpectations(t)
	})

	t.Run("undecodable body is dropped", func(t *testing.T) {
		statistic := new(mocks.StatisticDispatcher)

		err := handlerOf(t, statistic)(context.Background(),
			mq.Message{Type: service.EventTransactionCreated, Body: []byte("{")})

		assert.Error(t, err)
		assert.False(t, mq.IsTemporary(err))
		statistic.AssertNotCalled(t, "TransactionCreated", mock.Anything, mock.Anything)
	})

	t.Run("unknown type is acked", func(t *testing.T) {
		statistic := new(mocks.StatisticDispatcher)

		err := handlerOf(t, statistic)(context.Background(), message(t, "transaction.archived"))

		assert.NoError(t, err)
		statistic.AssertExpectations(t)
	})
}
