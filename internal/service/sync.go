package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"go.uber.org/zap"
)

const (
	defaultLockTTL = 30 * time.Second
	releaseTimeout = 5 * time.Second
)

var (
	ErrInvalidCategoryType = errors.New("INVALID_CATEGORY_TYPE")
	ErrEmptyName           = errors.New("NAME_REQUIRED")
	ErrCategoryCycle       = errors.New("CATEGORY_PARENT_CYCLE")
)

type SyncService interface {
	SyncBatch(ctx context.Context, userID int64, cmd SyncBatchCommand) (SyncBatchResult, error)
	GetChangesSince(ctx context.Context, userID int64, since time.Time) (ChangesResult, error)
}

type SyncOptions struct {
	// LockTTL bounds how long a crashed sync can keep the user locked.
	LockTTL time.Duration
}

type syncCoordinator struct {
	txManager    repository.TxManager
	categories   repository.CategoryRepository
	wallets      repository.WalletRepository
	relatedUsers repository.RelatedUserRepository
	transactions repository.GeneralTransactionRepository
	balances     repository.BalanceMutator
	locker       cache.Locker
	lockTTL      time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewSyncService(txManager repository.TxManager, categories repository.CategoryRepository,
	wallets repository.WalletRepository, relatedUsers repository.RelatedUserRepository,
	transactions repository.GeneralTransactionRepository, balances repository.BalanceMutator,
	locker cache.Locker, opts SyncOptions, metrics *metrics.Metrics, logger *zap.Logger) SyncService {
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &syncCoordinator{
		txManager:    txManager,
		categories:   categories,
		wallets:      wallets,
		relatedUsers: relatedUsers,
		transactions: transactions,
		balances:     balances,
		locker:       locker,
		lockTTL:      lockTTL,
		metrics:      metrics,
		logger:       logger,
	}
}

// SyncBatch applies a client batch under the user's sync lock. It never waits for the lock.
// Updates and deletes of ids the user does not own are skipped.
func (s *syncCoordinator) SyncBatch(ctx context.Context, userID int64, cmd SyncBatchCommand) (SyncBatchResult, error) {
	start := time.Now()

	if err := validateBatch(cmd); err != nil {
		s.record("rejected", start)
		return SyncBatchResult{}, err
	}

	lease, acquired, err := s.locker.TryAcquire(ctx, syncLockKey(userID), s.lockTTL)
	if err != nil {
		s.logger.Error("Failed to acquire sync lock", zap.Int64("userID", userID), zap.Error(err))
		s.record("failed", start)
		return SyncBatchResult{}, NewServiceError(constants.ErrCodeStorageError, err)
	}
	if !acquired {
		s.logger.Info("Sync already in progress", zap.Int64("userID", userID))
		s.record("locked", start)
		return SyncBatchResult{}, NewServiceError(constants.ErrCodeSyncInProgress, ErrSyncLocked)
	}
	defer s.release(ctx, lease)

	var result SyncBatchResult
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		result = SyncBatchResult{
			Categories:   newBatchResult[model.Category](cmd.Categories.Delete),
			Wallets:      newBatchResult[model.Wallet](cmd.Wallets.Delete),
			RelatedUsers: newBatchResult[model.RelatedUser](cmd.RelatedUsers.Delete),
		}

		if err := s.createAll(ctx, userID, cmd, &result); err != nil {
			return err
		}
		if err := s.updateAll(ctx, userID, cmd, &result); err != nil {
			return err
		}
		return s.deleteAll(ctx, userID, cmd)
	})
	if err != nil {
		s.logger.Error("Sync batch failed", zap.Int64("userID", userID), zap.Error(err))
		s.record("failed", start)

		var serviceErr Error
		if errors.As(err, &serviceErr) {
			return SyncBatchResult{}, err
		}
		return SyncBatchResult{}, NewServiceError(constants.ErrCodeTransactionFailed, err)
	}

	s.logger.Info("Sync batch applied",
		zap.Int64("userID", userID),
		zap.Int("categories", len(result.Categories.Created)+len(result.Categories.Updated)),
		zap.Int("wallets", len(result.Wallets.Created)+len(result.Wallets.Updated)),
		zap.Int("relatedUsers", len(result.RelatedUsers.Created)+len(result.RelatedUsers.Updated)))
	s.record("applied", start)

	return result, nil
}

// GetChangesSince reads every entity kind in one unit so the four lists are a consistent snapshot.
func (s *syncCoordinator) GetChangesSince(ctx context.Context, userID int64, since time.Time) (ChangesResult, error) {
	result := ChangesResult{Since: since}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if result.Categories, err = s.categories.FindChangedSince(ctx, userID, since); err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		if result.Wallets, err = s.wallets.FindChangedSince(ctx, userID, since); err != nil {
			return fmt.Errorf("wallets: %w", err)
		}
		if result.RelatedUsers, err = s.relatedUsers.FindChangedSince(ctx, userID, since); err != nil {
			return fmt.Errorf("related users: %w", err)
		}
		if result.Transactions, err = s.transactions.FindChangedSince(ctx, userID, since); err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to read changes", zap.Int64("userID", userID), zap.Time("since", since), zap.Error(err))
		return ChangesResult{}, NewServiceError(constants.ErrCodeStorageError, err)
	}

	return result, nil
}

func (s *syncCoordinator) createAll(ctx context.Context, userID int64, cmd SyncBatchCommand, result *SyncBatchResult) error {
	for _, item := range cmd.Categories.Create {
		category := model.Category{
			UserID:   userID,
			Name:     item.Name,
			Type:     item.Type,
			ParentID: item.ParentID,
			Icon:     item.Icon,
		}
		if err := s.checkParent(ctx, userID, 0, category.ParentID); err != nil {
			return err
		}
		if err := s.categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		result.Categories.Created = append(result.Categories.Created, category)
	}

	for _, item := range cmd.Wallets.Create {
		wallet := model.Wallet{
			UserID:      userID,
			Name:        item.Name,
			Icon:        item.Icon,
			BaseBalance: item.BaseBalance,
			Balance:     item.BaseBalance,
		}
		if err := adjust(ctx, s.balances, repository.UserTotalBalance, userID, wallet.BaseBalance); err != nil {
			return err
		}
		if err := s.wallets.Create(ctx, &wallet); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		result.Wallets.Created = append(result.Wallets.Created, wallet)
	}

	for _, item := range cmd.RelatedUsers.Create {
		relatedUser := model.RelatedUser{
			UserID: userID,
			Name:   item.Name,
			Email:  item.Email,
			Phone:  item.Phone,
		}
		if err := s.relatedUsers.Create(ctx, &relatedUser); err != nil {
			return fmt.Errorf("create related user: %w", err)
		}
		result.RelatedUsers.Created = append(result.RelatedUsers.Created, relatedUser)
	}

	return nil
}

func (s *syncCoordinator) updateAll(ctx context.Context, userID int64, cmd SyncBatchCommand, result *SyncBatchResult) error {
	for _, item := range cmd.Categories.Update {
		category, err := s.categories.FindOwned(ctx, userID, item.ID)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.skipped("category", userID, item.ID)
			continue
		}
		if err != nil {
			return fmt.Errorf("find category %d: %w", item.ID, err)
		}

		if err := s.checkParent(ctx, userID, category.ID, item.ParentID); err != nil {
			return err
		}

		category.Name = item.Name
		category.Type = item.Type
		category.ParentID = item.ParentID
		category.Icon = item.Icon
		if err := s.categories.Update(ctx, category); err != nil {
			return fmt.Errorf("update category %d: %w", item.ID, err)
		}
		result.Categories.Updated = append(result.Categories.Updated, *category)
	}

	for _, item := range cmd.Wallets.Update {
		wallet, err := s.wallets.FindOwned(ctx, userID, item.ID)
		if errors.Is(err, repository.ErrWalletNotFound) {
			s.skipped("wallet", userID, item.ID)
			continue
		}
		if err != nil {
			return fmt.Errorf("find wallet %d: %w", item.ID, err)
		}

		// A new base balance shifts the running balance by the same amount.
		delta := item.BaseBalance.Sub(wallet.BaseBalance)
		if !delta.IsZero() {
			if err := adjust(ctx, s.balances, repository.WalletBalance, wallet.ID, delta); err != nil {
				return err
			}
			if err := adjust(ctx, s.balances, repository.UserTotalBalance, userID, delta); err != nil {
				return err
			}
		}

		wallet.Name = item.Name
		wallet.Icon = item.Icon
		wallet.BaseBalance = item.BaseBalance
		wallet.Balance = wallet.Balance.Add(delta)
		if err := s.wallets.UpdateProfile(ctx, wallet); err != nil {
			return fmt.Errorf("update wallet %d: %w", item.ID, err)
		}
		result.Wallets.Updated = append(result.Wallets.Updated, *wallet)
	}

	for _, item := range cmd.RelatedUsers.Update {
		relatedUser, err := s.relatedUsers.FindOwned(ctx, userID, item.ID)
		if errors.Is(err, repository.ErrRelatedUserNotFound) {
			s.skipped("relatedUser", userID, item.ID)
			continue
		}
		if err != nil {
			return fmt.Errorf("find related user %d: %w", item.ID, err)
		}

		relatedUser.Name = item.Name
		relatedUser.Email = item.Email
		relatedUser.Phone = item.Phone
		if err := s.relatedUsers.UpdateProfile(ctx, relatedUser); err != nil {
			return fmt.Errorf("update related user %d: %w", item.ID, err)
		}
		result.RelatedUsers.Updated = append(result.RelatedUsers.Updated, *relatedUser)
	}

	return nil
}

// deleteAll soft-deletes. Transactions referencing a deleted entity are kept as they are.
func (s *syncCoordinator) deleteAll(ctx context.Context, userID int64, cmd SyncBatchCommand) error {
	for _, id := range cmd.Categories.Delete {
		category, err := s.categories.FindOwned(ctx, userID, id)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.skipped("category", userID, id)
			continue
		}
		if err != nil {
			return fmt.Errorf("find category %d: %w", id, err)
		}
		if err := s.categories.Delete(ctx, category); err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
	}

	for _, id := range cmd.Wallets.Delete {
		wallet, err := s.wallets.FindOwned(ctx, userID, id)
		if errors.Is(err, repository.ErrWalletNotFound) {
			s.skipped("wallet", userID, id)
			continue
		}
		if err != nil {
			return fmt.Errorf("find wallet %d: %w", id, err)
		}

		// The balance removed from the user total must be the one the wallet holds at delete time.
		wallet, err = s.wallets.GetForUpdate(ctx, wallet.ID)
		if err != nil {
			return fmt.Errorf("lock wallet %d: %w", id, err)
		}

		if err := adjust(ctx, s.balances, repository.UserTotalBalance, userID, wallet.Balance.Neg()); err != nil {
			return err
		}
		if err := s.wallets.Delete(ctx, wallet); err != nil {
			return fmt.Errorf("delete wallet %d: %w", id, err)
		}
	}

	for _, id := range cmd.RelatedUsers.Delete {
		relatedUser, err := s.relatedUsers.FindOwned(ctx, userID, id)
		if errors.Is(err, repository.ErrRelatedUserNotFound) {
			s.skipped("relatedUser", userID, id)
			continue
		}
		if err != nil {
			return fmt.Errorf("find related user %d: %w", id, err)
		}
		if err := s.relatedUsers.Delete(ctx, relatedUser); err != nil {
			return fmt.Errorf("delete related user %d: %w", id, err)
		}
	}

	return nil
}

// checkParent requires the parent to be a live category of the user that is not the category
// itself or one of its descendants.
func (s *syncCoordinator) checkParent(ctx context.Context, userID, categoryID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}

	seen := map[int64]bool{}
	current := *parentID
	for {
		if categoryID != 0 && current == categoryID {
			return NewServiceError(constants.ErrCodeValidationFailed, ErrCategoryCycle)
		}
		if seen[current] {
			return nil
		}
		seen[current] = true

		parent, err := s.categories.FindOwned(ctx, userID, current)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return NewServiceError(constants.ErrCodeCategoryNotFound, err)
		}
		if err != nil {
			return fmt.Errorf("find parent category %d: %w", current, err)
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

// release runs even when ctx is already cancelled. A lease that cannot be released expires on its
// own.
func (s *syncCoordinator) release(ctx context.Context, lease cache.Lease) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.locker.Release(ctx, lease); err != nil {
		s.logger.Warn("Failed to release sync lock", zap.String("key", lease.Key), zap.Error(err))
	}
}

func (s *syncCoordinator) skipped(kind string, userID, id int64) {
	s.logger.Debug("Skipping sync item not owned by user",
		zap.String("kind", kind),
		zap.Int64("userID", userID),
		zap.Int64("id", id))
}

func (s *syncCoordinator) record(result string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSyncBatch(result, time.Since(start))
	}
}

func validateBatch(cmd SyncBatchCommand) error {
	categories := append(append([]model.Category(nil), cmd.Categories.Create...), cmd.Categories.Update...)
	for _, category := range categories {
		if category.Type != model.CategoryTypeIncome && category.Type != model.CategoryTypeExpense {
			return NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidCategoryType)
		}
		if strings.TrimSpace(category.Name) == "" {
			return NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyName)
		}
	}

	wallets := append(append([]model.Wallet(nil), cmd.Wallets.Create...), cmd.Wallets.Update...)
	for _, wallet := range wallets {
		if strings.TrimSpace(wallet.Name) == "" {
			return NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyName)
		}
	}

	relatedUsers := append(append([]model.RelatedUser(nil), cmd.RelatedUsers.Create...), cmd.RelatedUsers.Update...)
	for _, relatedUser := range relatedUsers {
		if strings.TrimSpace(relatedUser.Name) == "" {
			return NewServiceError(constants.ErrCodeValidationFailed, ErrEmptyName)
		}
	}

	return nil
}

func newBatchResult[T any](deleted []int64) BatchResult[T] {
	if deleted == nil {
		deleted = []int64{}
	}
	return BatchResult[T]{Created: []T{}, Updated: []T{}, Deleted: deleted}
}

func syncLockKey(userID int64) string {
	return fmt.Sprintf("sync:lock:%d", userID)
}
