package publishers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/mocks"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/publishers"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const queue = "ledger.statistic"

func expense() *model.GeneralTransaction {
	categoryID := int64(5)
	return &model.GeneralTransaction{
		ID:              42,
		UserID:          7,
		Type:            model.TransactionTypeExpense,
		Amount:          decimal.RequireFromString("19.90"),
		CategoryID:      &categoryID,
		SourceWalletID:  3,
		TransactionDate: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestStatisticPublisher(t *testing.T) {
	t.Run("created event carries the statistic fields", func(t *testing.T) {
		publisher := new(mocks.Publisher)
		var published mq.Message
		publisher.On("Publish", mock.Anything, "", queue, mock.Anything).
			Run(func(args mock.Arguments) { published = args.Get(3).(mq.Message) }).
			Return(nil).Once()

		dispatcher := publishers.NewStatisticPublisher(publisher, queue, nil, zap.NewNop())
		require.NoError(t, dispatcher.TransactionCreated(context.Background(), expense()))

		assert.Equal(t, service.EventTransactionCreated, published.Type)

		var event service.StatisticEvent
		require.NoError(t, json.Unmarshal(published.Body, &event))
		assert.Equal(t, int64(42), event.TransactionID)
		assert.Equal(t, int64(7), event.UserID)
		assert.Equal(t, model.TransactionTypeExpense, event.Type)
		assert.True(t, event.Amount.Equal(decimal.RequireFromString("19.90")))
		require.NotNil(t, event.CategoryID)
		assert.Equal(t, int64(5), *event.CategoryID)
		assert.True(t, event.TransactionDate.Equal(expense().TransactionDate))
		publisher.AssertExpectations(t)
	})

	t.Run("removed event type", func(t *testing.T) {
		publisher := new(mocks.Publisher)
		publisher.On("Publish", mock.Anything, "", queue, mock.MatchedBy(func(msg mq.Message) bool {
			return msg.Type == service.EventTransactionRemoved
		})).Return(nil).Once()

		dispatcher := publishers.NewStatisticPublisher(publisher, queue, nil, zap.NewNop())

		assert.NoError(t, dispatcher.TransactionRemoved(context.Background(), expense()))
		publisher.AssertExpectations(t)
	})

	t.Run("broker failure is returned", func(t *testing.T) {
		publisher := new(mocks.Publisher)
		failure := errors.New("channel closed")
		publisher.On("Publish", mock.Anything, "", queue, mock.Anything).Return(failure).Once()

		dispatcher := publishers.NewStatisticPublisher(publisher, queue, nil, zap.NewNop())

		assert.ErrorIs(t, dispatcher.TransactionCreated(context.Background(), expense()), failure)
		publisher.AssertExpectations(t)
	})
}
