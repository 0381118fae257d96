package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrWalletNotFound = errors.New("WALLET_NOT_FOUND")

type WalletRepository interface {
	Create(ctx context.Context, wallet *model.Wallet) error
	GetByID(ctx context.Context, id int64) (*model.Wallet, error)
	FindOwned(ctx context.Context, userID, id int64) (*model.Wallet, error)
	// GetForUpdate reads the wallet with a row lock held until the enclosing unit ends.
	GetForUpdate(ctx context.Context, id int64) (*model.Wallet, error)
	UpdateProfile(ctx context.Context, wallet *model.Wallet) error
	Delete(ctx context.Context, wallet *model.Wallet) error
	FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.Wallet, error)
	// FindDeleted returns the ids among ids that belong to soft-deleted wallets.
	FindDeleted(ctx context.Context, ids []int64) ([]int64, error)
}

type wallet struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &wallet{db: db}
}

func (w *wallet) Create(ctx context.Context, wallet *model.Wallet) error {
	return GetTx(ctx, w.db).Create(wallet).Error
}

func (w *wallet) GetByID(ctx context.Context, id int64) (*model.Wallet, error) {
	var found model.Wallet

	err := GetTx(ctx, w.db).Where("id = ?", id).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}

	return nil, err
}

func (w *wallet) FindOwned(ctx context.Context, userID, id int64) (*model.Wallet, error) {
	var found model.Wallet

	err := GetTx(ctx, w.db).Where("id = ? AND user_id = ?", id, userID).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}

	return nil, err
}

func (w *wallet) GetForUpdate(ctx context.Context, id int64) (*model.Wallet, error) {
	var found model.Wallet
	err := GetTx(ctx, w.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}

	return nil, err
}

// UpdateProfile writes the client-editable columns only. balance is owned by the BalanceMutator.
func (w *wallet) UpdateProfile(ctx context.Context, wallet *model.Wallet) error {
	wallet.UpdatedAt = time.Now()
	return GetTx(ctx, w.db).Model(wallet).
		Select("name", "icon", "base_balance", "updated_at").
		Updates(wallet).Error
}

func (w *wallet) Delete(ctx context.Context, wallet *model.Wallet) error {
	return GetTx(ctx, w.db).Delete(wallet).Error
}

func (w *wallet) FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.Wallet, error) {
	var wallets []model.Wallet

	err := GetTx(ctx, w.db).Unscoped().
		Where("user_id = ? AND (created_at >= ? OR updated_at >= ? OR deleted_at >= ?)", userID, since, since, since).
		Order("id").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}

	return wallets, nil
}

func (w *wallet) FindDeleted(ctx context.Context, ids []int64) ([]int64, error) {
	deleted := []int64{}
	if len(ids) == 0 {
		return deleted, nil
	}

	err := GetTx(ctx, w.db).Unscoped().Model(&model.Wallet{}).
		Where("id IN ? AND deleted_at IS NOT NULL", ids).
		Pluck("id", &deleted).Error
	if err != nil {
		return nil, err
	}

	return deleted, nil
}
