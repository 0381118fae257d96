package service_test

import (
	"context"
	"errors"
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

const syncLockKey = "sync:lock:1"

type syncFixture struct {
	svc          service.SyncService
	mr           *miniredis.Miniredis
	locker       cache.Locker
	txManager    *mocks.TxManager
	categories   *mocks.CategoryRepository
	wallets      *mocks.WalletRepository
	relatedUsers *mocks.RelatedUserRepository
	transactions *mocks.GeneralTransactionRepository
	balances     *mocks.BalanceMutator
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &syncFixture{
		mr:           mr,
		locker:       cache.NewRedisLocker(client),
		txManager:    &mocks.TxManager{},
		categories:   &mocks.CategoryRepository{},
		wallets:      &mocks.WalletRepository{},
		relatedUsers: &mocks.RelatedUserRepository{},
		transactions: &mocks.GeneralTransactionRepository{},
		balances:     &mocks.BalanceMutator{},
	}
	f.svc = service.NewSyncService(f.txManager, f.categories, f.wallets, f.relatedUsers, f.transactions, f.balances,
		f.locker, service.SyncOptions{LockTTL: time.Minute}, nil, zap.NewNop())

	return f
}

func (f *syncFixture) assertExpectations(t *testing.T) {
	f.txManager.AssertExpectations(t)
	f.categories.AssertExpectations(t)
	f.wallets.AssertExpectations(t)
	f.relatedUsers.AssertExpectations(t)
	f.transactions.AssertExpectations(t)
	f.balances.AssertExpectations(t)
}

func TestSync_SyncBatch(t *testing.T) {
	t.Run("applies creates updates and deletes in one unit", func(t *testing.T) {
		f := newSyncFixture(t)

		existing := &model.Wallet{ID: 20, UserID: userID, Name: "Cash",
			Balance: decimal.NewFromInt(70), BaseBalance: decimal.NewFromInt(50)}
		doomed := &model.Wallet{ID: 30, UserID: userID, Balance: decimal.NewFromInt(15)}

		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil).Once()

		f.balances.On("Increment", mock.Anything, repository.UserTotalBalance, userID, amountOf("100")).Return(nil)
		f.wallets.On("Create", mock.Anything, mock.MatchedBy(func(w *model.Wallet) bool {
			return w.UserID == userID && w.Balance.Equal(decimal.NewFromInt(100))
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Wallet).ID = 40
		}).Return(nil)

		f.wallets.On("FindOwned", mock.Anything, userID, int64(20)).Return(existing, nil)
		f.balances.On("Increment", mock.Anything, repository.WalletBalance, int64(20), amountOf("25")).Return(nil)
		f.balances.On("Increment", mock.Anything, repository.UserTotalBalance, userID, amountOf("25")).Return(nil)
		f.wallets.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(w *model.Wallet) bool {
			return w.ID == 20 && w.Balance.Equal(decimal.NewFromInt(95)) && w.Name == "Pocket"
		})).Return(nil)

		f.relatedUsers.On("FindOwned", mock.Anything, userID, int64(99)).Return(nil, repository.ErrRelatedUserNotFound)

		f.wallets.On("FindOwned", mock.Anything, userID, int64(30)).Return(doomed, nil)
		f.wallets.On("GetForUpdate", mock.Anything, int64(30)).Return(doomed, nil)
		f.balances.On("Decrement", mock.Anything, repository.UserTotalBalance, userID, amountOf("15")).Return(nil)
		f.wallets.On("Delete", mock.Anything, doomed).Return(nil)

		result, err := f.svc.SyncBatch(context.Background(), userID, service.SyncBatchCommand{
			Wallets: service.Batch[model.Wallet]{
				Create: []model.Wallet{{Name: "Bank", BaseBalance: decimal.NewFromInt(100)}},
				Update: []model.Wallet{{ID: 20, Name: "Pocket", BaseBalance: decimal.NewFromInt(75)}},
				Delete: []int64{30},
			},
			RelatedUsers: service.Batch[model.RelatedUser]{
				Update: []model.RelatedUser{{ID: 99, Name: "Someone else's"}},
			},
		})

		require.NoError(t, err)
		require.Len(t, result.Wallets.Created, 1)
		assert.Equal(t, int64(40), result.Wallets.Created[0].ID)
		require.Len(t, result.Wallets.Updated, 1)
		assert.Equal(t, []int64{30}, result.Wallets.Deleted)
		assert.Empty(t, result.RelatedUsers.Updated)
		assert.NotNil(t, result.Categories.Deleted)
		assert.False(t, f.mr.Exists(syncLockKey))
		f.assertExpectations(t)
	})

	t.Run("rejects invalid batch before locking", func(t *testing.T) {
		f := newSyncFixture(t)

		_, err := f.svc.SyncBatch(context.Background(), userID, service.SyncBatchCommand{
			Categories: service.Batch[model.Category]{
				Create: []model.Category{{Name: "Food", Type: "TRANSFER"}},
			},
		})

		assertCode(t, err, constants.ErrCodeValidationFailed)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		assert.False(t, f.mr.Exists(syncLockKey))
	})

	t.Run("lock already held for the same user", func(t *testing.T) {
		f := newSyncFixture(t)

		held, ok, err := f.locker.TryAcquire(context.Background(), syncLockKey, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = f.svc.SyncBatch(context.Background(), userID, service.SyncBatchCommand{})

		assertCode(t, err, constants.ErrCodeSyncInProgress)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)

		got, err := f.mr.Get(syncLockKey)
		require.NoError(t, err)
		assert.Equal(t, held.Token, got)
	})

	t.Run("failed unit releases the lock", func(t *testing.T) {
		f := newSyncFixture(t)

		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil).Once()
		f.relatedUsers.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate entry"))

		_, err := f.svc.SyncBatch(context.Background(), userID, service.SyncBatchCommand{
			RelatedUsers: service.Batch[model.RelatedUser]{Create: []model.RelatedUser{{Name: "Lan"}}},
		})

		assertCode(t, err, constants.ErrCodeTransactionFailed)
		assert.False(t, f.mr.Exists(syncLockKey))
		f.assertExpectations(t)
	})

	t.Run("category parent cycle", func(t *testing.T) {
		f := newSyncFixture(t)

		one, two := int64(1), int64(2)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil).Once()
		f.categories.On("FindOwned", mock.Anything, userID, int64(1)).
			Return(&model.Category{ID: 1, UserID: userID, Type: model.CategoryTypeIncome}, nil)
		f.categories.On("FindOwned", mock.Anything, userID, int64(2)).
			Return(&model.Category{ID: 2, UserID: userID, Type: model.CategoryTypeIncome, ParentID: &one}, nil)

		_, err := f.svc.SyncBatch(context.Background(), userID, service.SyncBatchCommand{
			Categories: service.Batch[model.Category]{
				Update: []model.Category{{ID: 1, Name: "Salary", Type: model.CategoryTypeIncome, ParentID: &two}},
			},
		})

		assertCode(t, err, constants.ErrCodeValidationFailed)
		f.categories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing parent category", func(t *testing.T) {
		f := newSyncFixture(t)

		parent := int64(77)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil).Once()
		f.categories.On("FindOwned", mock.Anything, userID, int64(77)).Return(nil, repository.ErrCategoryNotFound)

		_, err := f.svc.SyncBatch(context.Background(), userID, service.SyncBatchCommand{
			Categories: service.Batch[model.Category]{
				Create: []model.Category{{Name: "Rent", Type: model.CategoryTypeExpense, ParentID: &parent}},
			},
		})

		assertCode(t, err, constants.ErrCodeCategoryNotFound)
		f.categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSync_GetChangesSince(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("collects every entity kind", func(t *testing.T) {
		f := newSyncFixture(t)

		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.categories.On("FindChangedSince", mock.Anything, userID, since).Return([]model.Category{{ID: 1}}, nil)
		f.wallets.On("FindChangedSince", mock.Anything, userID, since).Return([]model.Wallet{{ID: 2}, {ID: 3}}, nil)
		f.relatedUsers.On("FindChangedSince", mock.Anything, userID, since).Return([]model.RelatedUser{}, nil)
		f.transactions.On("FindChangedSince", mock.Anything, userID, since).
			Return([]model.GeneralTransaction{{ID: 4}}, nil)

		result, err := f.svc.GetChangesSince(context.Background(), userID, since)

		require.NoError(t, err)
		assert.Equal(t, since, result.Since)
		assert.Len(t, result.Categories, 1)
		assert.Len(t, result.Wallets, 2)
		assert.Len(t, result.Transactions, 1)
		f.assertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newSyncFixture(t)

		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.categories.On("FindChangedSince", mock.Anything, userID, since).Return(nil, errors.New("timeout"))

		_, err := f.svc.GetChangesSince(context.Background(), userID, since)

		assertCode(t, err, constants.ErrCodeStorageError)
	})
}
