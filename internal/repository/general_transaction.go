package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
	ErrRowAlreadyDeleted   = errors.New("ROW_ALREADY_DELETED")
)

type TransactionFilter struct {
	Types       []model.TransactionType
	CategoryIDs []int64
	WalletIDs   []int64
}

// CategorySum is the total of one transaction type for one (leaf) category.
type CategorySum struct {
	Type       model.TransactionType
	CategoryID *int64
	Total      decimal.Decimal
}

type GeneralTransactionRepository interface {
	Create(ctx context.Context, tx *model.GeneralTransaction) error
	GetByID(ctx context.Context, id int64) (*model.GeneralTransaction, error)
	Delete(ctx context.Context, tx *model.GeneralTransaction) error
	FindByUser(ctx context.Context, userID int64, from, to time.Time, filter TransactionFilter) ([]model.GeneralTransaction, error)
	SumByCategory(ctx context.Context, userID int64, from, to time.Time, filter TransactionFilter) ([]CategorySum, error)
	FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.GeneralTransaction, error)
}

type generalTransaction struct {
	db *gorm.DB
}

func NewGeneralTransactionRepository(db *gorm.DB) GeneralTransactionRepository {
	return &generalTransaction{db: db}
}

// Create inserts the canonical row and then its extension row.
func (g *generalTransaction) Create(ctx context.Context, tx *model.GeneralTransaction) error {
	ext, err := tx.Extension()
	if err != nil {
		return err
	}

	db := GetTx(ctx, g.db)
	if err := db.Omit(clause.Associations).Create(tx).Error; err != nil {
		return fmt.Errorf("insert general transaction: %w", err)
	}

	if ext == nil {
		return nil
	}

	ext.SetGeneralTransactionID(tx.ID)
	if err := db.Create(ext).Error; err != nil {
		return fmt.Errorf("insert %s extension: %w", tx.Type, err)
	}

	return nil
}

func (g *generalTransaction) GetByID(ctx context.Context, id int64) (*model.GeneralTransaction, error) {
	var tx model.GeneralTransaction

	err := preloadExtensions(GetTx(ctx, g.db)).Where("id = ?", id).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

// Delete removes the extension row first and the canonical row last. Either delete touching no
// row means a concurrent unit already removed the transaction.
func (g *generalTransaction) Delete(ctx context.Context, tx *model.GeneralTransaction) error {
	ext, err := tx.Extension()
	if err != nil {
		return err
	}

	db := GetTx(ctx, g.db)
	if ext != nil {
		result := db.Where("general_transaction_id = ?", tx.ID).Delete(ext)
		if result.Error != nil {
			return fmt.Errorf("delete %s extension: %w", tx.Type, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRowAlreadyDeleted
		}
	}

	result := db.Delete(&model.GeneralTransaction{}, tx.ID)
	if result.Error != nil {
		return fmt.Errorf("delete general transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRowAlreadyDeleted
	}

	return nil
}

func (g *generalTransaction) FindByUser(ctx context.Context, userID int64, from, to time.Time,
	filter TransactionFilter) ([]model.GeneralTransaction, error) {
	var txs []model.GeneralTransaction

	db := preloadExtensions(GetTx(ctx, g.db)).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date < ?", userID, from, to)

	err := applyFilter(db, filter).
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// SumByCategory totals reportable income and expense rows of the user in [from, to) per type and
// category.
func (g *generalTransaction) SumByCategory(ctx context.Context, userID int64, from, to time.Time,
	filter TransactionFilter) ([]CategorySum, error) {
	var sums []CategorySum

	db := GetTx(ctx, g.db).Model(&model.GeneralTransaction{}).
		Select("type, category_id, SUM(amount) AS total").
		Where("user_id = ? AND transaction_date >= ? AND transaction_date < ?", userID, from, to).
		Where("type IN ?", []string{string(model.TransactionTypeIncome), string(model.TransactionTypeExpense)}).
		Where("not_add_to_report = ?", false)

	err := applyFilter(db, filter).
		Group("type, category_id").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	return sums, nil
}

func (g *generalTransaction) FindChangedSince(ctx context.Context, userID int64, since time.Time) (
	[]model.GeneralTransaction, error) {
	var txs []model.GeneralTransaction

	err := preloadExtensions(GetTx(ctx, g.db)).
		Where("user_id = ? AND (created_at >= ? OR updated_at >= ?)", userID, since, since).
		Order("id").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func preloadExtensions(db *gorm.DB) *gorm.DB {
	return db.Preload("Transfer").
		Preload("Lend").
		Preload("Borrow").
		Preload("ModifyBalance").
		Preload("CollectingDebt").
		Preload("Repayment")
}

func applyFilter(db *gorm.DB, filter TransactionFilter) *gorm.DB {
	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		db = db.Where("type IN ?", types)
	}

	if len(filter.CategoryIDs) > 0 {
		db = db.Where("category_id IN ?", filter.CategoryIDs)
	}

	if len(filter.WalletIDs) > 0 {
		db = db.Where("source_wallet_id IN ?", filter.WalletIDs)
	}

	return db
}
