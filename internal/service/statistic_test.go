package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/mocks"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var statisticNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type statisticFixture struct {
	svc          service.StatisticService
	mr           *miniredis.Miniredis
	transactions *mocks.GeneralTransactionRepository
	categories   *mocks.CategoryRepository
}

func newStatisticFixture(t *testing.T, wraps ...func(cache.Cache) cache.Cache) *statisticFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &statisticFixture{
		mr:           mr,
		transactions: &mocks.GeneralTransactionRepository{},
		categories:   &mocks.CategoryRepository{},
	}
	statisticCache := cache.NewRedisCache(client)
	for _, wrap := range wraps {
		statisticCache = wrap(statisticCache)
	}
	f.svc = service.NewStatisticService(f.transactions, f.categories, statisticCache,
		service.StatisticOptions{Clock: func() time.Time { return statisticNow }}, nil, zap.NewNop())

	// 1 is a root income category with child 2; 3 is a root expense category.
	parent := int64(1)
	f.categories.On("FindAllByUser", mock.Anything, userID).Return([]model.Category{
		{ID: 1, UserID: userID, Type: model.CategoryTypeIncome},
		{ID: 2, UserID: userID, Type: model.CategoryTypeIncome, ParentID: &parent},
		{ID: 3, UserID: userID, Type: model.CategoryTypeExpense},
	}, nil)

	return f
}

func (f *statisticFixture) cached(t *testing.T, key string) model.StatisticData {
	t.Helper()

	raw, err := f.mr.Get(key)
	require.NoError(t, err)

	var data model.StatisticData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func ptr(v int64) *int64 {
	return &v
}

func monthSums() []repository.CategorySum {
	return []repository.CategorySum{
		{Type: model.TransactionTypeIncome, CategoryID: ptr(2), Total: decimal.NewFromInt(300)},
		{Type: model.TransactionTypeIncome, CategoryID: ptr(1), Total: decimal.NewFromInt(200)},
		{Type: model.TransactionTypeExpense, CategoryID: ptr(3), Total: decimal.NewFromInt(120)},
	}
}

func TestStatistic_ThisMonth_CachesAndRollsUp(t *testing.T) {
	f := newStatisticFixture(t)

	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.transactions.On("SumByCategory", mock.Anything, userID, monthStart, monthStart.AddDate(0, 1, 0),
		repository.TransactionFilter{}).Return(monthSums(), nil).Once()

	first, err := f.svc.ThisMonth(context.Background(), userID, service.StatisticFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2026-03", first.Period.Key)
	assert.True(t, first.Data.TotalIncome.Equal(decimal.NewFromInt(500)))
	assert.True(t, first.Data.TotalExpense.Equal(decimal.NewFromInt(120)))
	assert.True(t, first.Data.TotalBalance.Equal(decimal.NewFromInt(380)))
	require.Len(t, first.Data.ByCategoryIncome, 1)
	assert.Equal(t, int64(1), first.Data.ByCategoryIncome[0].CategoryID)
	assert.True(t, first.Data.ByCategoryIncome[0].Amount.Equal(decimal.NewFromInt(500)))

	key := "statistic:1:month:2026-03"
	assert.True(t, f.mr.Exists(key))
	assert.Equal(t, 30*24*time.Hour, f.mr.TTL(key))

	second, err := f.svc.ThisMonth(context.Background(), userID, service.StatisticFilter{})
	require.NoError(t, err)
	assert.True(t, second.Data.TotalIncome.Equal(first.Data.TotalIncome))

	f.transactions.AssertExpectations(t)
}

func TestStatistic_Today_ShortTTL(t *testing.T) {
	f := newStatisticFixture(t)

	f.transactions.On("SumByCategory", mock.Anything, userID, mock.Anything, mock.Anything, mock.Anything).
		Return([]repository.CategorySum{}, nil)

	result, err := f.svc.Today(context.Background(), userID, service.StatisticFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", result.Period.Key)
	assert.True(t, result.Data.TotalIncome.IsZero())
	assert.Equal(t, time.Hour, f.mr.TTL("statistic:1:day:2026-03-14"))
}

func TestStatistic_FilteredQueryBypassesCache(t *testing.T) {
	f := newStatisticFixture(t)

	f.transactions.On("SumByCategory", mock.Anything, userID, mock.Anything, mock.Anything,
		repository.TransactionFilter{CategoryIDs: []int64{1, 2}}).
		Return([]repository.CategorySum{
			{Type: model.TransactionTypeIncome, CategoryID: ptr(2), Total: decimal.NewFromInt(300)},
		}, nil).Twice()

	for i := 0; i < 2; i++ {
		result, err := f.svc.ThisMonth(context.Background(), userID, service.StatisticFilter{CategoryIDs: []int64{1}})
		require.NoError(t, err)
		assert.True(t, result.Data.TotalIncome.Equal(decimal.NewFromInt(300)))
	}

	assert.False(t, f.mr.Exists("statistic:1:month:2026-03"))
	f.transactions.AssertExpectations(t)
}

func TestStatistic_IncrementalUpdate(t *testing.T) {
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	key := "statistic:1:month:2026-03"

	income := &model.GeneralTransaction{
		ID:              9,
		Type:            model.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(50),
		CategoryID:      ptr(2),
		UserID:          userID,
		TransactionDate: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}

	prime := func(t *testing.T, f *statisticFixture) model.StatisticData {
		f.transactions.On("SumByCategory", mock.Anything, userID, monthStart, monthStart.AddDate(0, 1, 0),
			repository.TransactionFilter{}).Return(monthSums(), nil).Once()

		result, err := f.svc.ThisMonth(context.Background(), userID, service.StatisticFilter{})
		require.NoError(t, err)
		return result.Data
	}

	t.Run("created folds into cached periods only", func(t *testing.T) {
		f := newStatisticFixture(t)
		prime(t, f)

		require.NoError(t, f.svc.TransactionCreated(context.Background(), income))

		data := f.cached(t, key)
		assert.True(t, data.TotalIncome.Equal(decimal.NewFromInt(550)))
		assert.True(t, data.TotalBalance.Equal(decimal.NewFromInt(430)))
		assert.True(t, data.ByCategoryIncome[0].Amount.Equal(decimal.NewFromInt(550)))
		assert.Equal(t, 30*24*time.Hour, f.mr.TTL(key))

		assert.False(t, f.mr.Exists("statistic:1:day:2026-03-10"))
		assert.False(t, f.mr.Exists("statistic:1:year:2026"))
	})

	t.Run("created then removed restores the entry", func(t *testing.T) {
		f := newStatisticFixture(t)
		before := prime(t, f)

		require.NoError(t, f.svc.TransactionCreated(context.Background(), income))
		require.NoError(t, f.svc.TransactionRemoved(context.Background(), income))

		after := f.cached(t, key)
		assert.True(t, after.TotalIncome.Equal(before.TotalIncome))
		assert.True(t, after.TotalBalance.Equal(before.TotalBalance))
		require.Len(t, after.ByCategoryIncome, len(before.ByCategoryIncome))
		assert.True(t, after.ByCategoryIncome[0].Amount.Equal(before.ByCategoryIncome[0].Amount))
	})

	t.Run("removal below zero invalidates", func(t *testing.T) {
		f := newStatisticFixture(t)
		prime(t, f)

		large := *income
		large.Amount = decimal.NewFromInt(10000)
		require.NoError(t, f.svc.TransactionRemoved(context.Background(), &large))

		assert.False(t, f.mr.Exists(key))
	})

	t.Run("unreportable changes are ignored", func(t *testing.T) {
		f := newStatisticFixture(t)
		prime(t, f)

		hidden := *income
		hidden.NotAddToReport = true
		require.NoError(t, f.svc.TransactionCreated(context.Background(), &hidden))

		transfer := &model.GeneralTransaction{Type: model.TransactionTypeTransfer, UserID: userID,
			Amount: decimal.NewFromInt(5), TransactionDate: income.TransactionDate}
		require.NoError(t, f.svc.TransactionCreated(context.Background(), transfer))

		assert.True(t, f.cached(t, key).TotalIncome.Equal(decimal.NewFromInt(500)))
	})
}

// flakyCache fails the first Replace of every key containing part.
type flakyCache struct {
	cache.Cache
	part   string
	failed map[string]bool
}

func failReplaceOn(part string) func(cache.Cache) cache.Cache {
	return func(inner cache.Cache) cache.Cache {
		return &flakyCache{Cache: inner, part: part, failed: map[string]bool{}}
	}
}

func (f *flakyCache) Replace(ctx context.Context, key string, value []byte) (bool, error) {
	if strings.Contains(key, f.part) && !f.failed[key] {
		f.failed[key] = true
		return false, errors.New("redis timeout")
	}
	return f.Cache.Replace(ctx, key, value)
}

func TestStatistic_PartialWriteFailure(t *testing.T) {
	f := newStatisticFixture(t, failReplaceOn(":month:"))
	ctx := context.Background()

	dayStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.transactions.On("SumByCategory", mock.Anything, userID, dayStart, dayStart.AddDate(0, 0, 1),
		repository.TransactionFilter{}).Return([]repository.CategorySum{}, nil).Once()
	f.transactions.On("SumByCategory", mock.Anything, userID, monthStart, monthStart.AddDate(0, 1, 0),
		repository.TransactionFilter{}).Return(monthSums(), nil).Twice()

	_, err := f.svc.Today(ctx, userID, service.StatisticFilter{})
	require.NoError(t, err)
	_, err = f.svc.ThisMonth(ctx, userID, service.StatisticFilter{})
	require.NoError(t, err)

	income := &model.GeneralTransaction{
		ID:              11,
		Type:            model.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(300),
		CategoryID:      ptr(1),
		UserID:          userID,
		TransactionDate: statisticNow,
	}

	// A failed write drops the entry and reports success, so the change is not delivered again.
	require.NoError(t, f.svc.TransactionCreated(ctx, income))

	dayKey := "statistic:1:day:2026-03-14"
	monthKey := "statistic:1:month:2026-03"
	assert.True(t, f.cached(t, dayKey).TotalIncome.Equal(decimal.NewFromInt(300)))
	assert.False(t, f.mr.Exists(monthKey))

	month, err := f.svc.ThisMonth(ctx, userID, service.StatisticFilter{})
	require.NoError(t, err)
	assert.True(t, month.Data.TotalIncome.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.mr.Exists(monthKey))

	f.transactions.AssertExpectations(t)
}

func TestStatistic_CategoryLoadFailureDropsEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	transactions := &mocks.GeneralTransactionRepository{}
	categories := &mocks.CategoryRepository{}
	categories.On("FindAllByUser", mock.Anything, userID).Return(nil, errors.New("connection reset")).Once()

	svc := service.NewStatisticService(transactions, categories, cache.NewRedisCache(client),
		service.StatisticOptions{Clock: func() time.Time { return statisticNow }}, nil, zap.NewNop())

	encoded, err := json.Marshal(model.NewStatisticData())
	require.NoError(t, err)
	require.NoError(t, mr.Set("statistic:1:day:2026-03-14", string(encoded)))
	require.NoError(t, mr.Set("statistic:1:year:2026", string(encoded)))

	err = svc.TransactionCreated(context.Background(), &model.GeneralTransaction{
		ID:              12,
		Type:            model.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(20),
		CategoryID:      ptr(3),
		UserID:          userID,
		TransactionDate: statisticNow,
	})

	assert.NoError(t, err)
	assert.False(t, mr.Exists("statistic:1:day:2026-03-14"))
	assert.False(t, mr.Exists("statistic:1:year:2026"))
	categories.AssertExpectations(t)
}

func TestStatistic_Ranges(t *testing.T) {
	t.Run("by month lists twelve periods", func(t *testing.T) {
		f := newStatisticFixture(t)
		f.transactions.On("SumByCategory", mock.Anything, userID, mock.Anything, mock.Anything, mock.Anything).
			Return([]repository.CategorySum{}, nil)

		stats, err := f.svc.ByMonth(context.Background(), userID, 2025, service.StatisticFilter{})
		require.NoError(t, err)
		require.Len(t, stats, 12)
		assert.Equal(t, "2025-01", stats[0].Period.Key)
		assert.Equal(t, "2025-12", stats[11].Period.Key)
	})

	t.Run("by day over the limit", func(t *testing.T) {
		f := newStatisticFixture(t)

		_, err := f.svc.ByDay(context.Background(), userID, statisticNow.AddDate(-2, 0, 0), statisticNow,
			service.StatisticFilter{})
		assertCode(t, err, constants.ErrCodeValidationFailed)
	})

	t.Run("by year inverted", func(t *testing.T) {
		f := newStatisticFixture(t)

		_, err := f.svc.ByYear(context.Background(), userID, 2026, 2020, service.StatisticFilter{})
		assertCode(t, err, constants.ErrCodeValidationFailed)
	})

	t.Run("custom range is never cached", func(t *testing.T) {
		f := newStatisticFixture(t)
		f.transactions.On("SumByCategory", mock.Anything, userID,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			repository.TransactionFilter{}).Return(monthSums(), nil)

		result, err := f.svc.CustomRange(context.Background(), userID,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
			service.StatisticFilter{})
		require.NoError(t, err)

		assert.Equal(t, service.PeriodCustom, result.Period.Kind)
		assert.Empty(t, f.mr.Keys())
	})
}
