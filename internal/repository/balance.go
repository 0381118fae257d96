package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNegativeDelta        = errors.New("NEGATIVE_DELTA")
	ErrBalanceTargetMissing = errors.New("BALANCE_TARGET_MISSING")
)

// Field names one aggregate column that may only change through a BalanceMutator.
type Field struct {
	table  string
	column string
}

func (f Field) String() string {
	return f.table + "." + f.column
}

var (
	UserTotalBalance = Field{table: "users", column: "total_balance"}
	UserTotalLoan    = Field{table: "users", column: "total_loan"}
	UserTotalDebt    = Field{table: "users", column: "total_debt"}

	WalletBalance = Field{table: "wallets", column: "balance"}

	RelatedUserTotalLoan      = Field{table: "related_users", column: "total_loan"}
	RelatedUserTotalDebt      = Field{table: "related_users", column: "total_debt"}
	RelatedUserTotalPaid      = Field{table: "related_users", column: "total_paid"}
	RelatedUserTotalCollected = Field{table: "related_users", column: "total_collected"}
)

// BalanceMutator applies relative adjustments to aggregate columns. The atomic unit is taken
// from ctx (see TxManager). Amounts are never negative; the caller picks the direction.
type BalanceMutator interface {
	Increment(ctx context.Context, field Field, id int64, amount decimal.Decimal) error
	Decrement(ctx context.Context, field Field, id int64, amount decimal.Decimal) error
}

type balanceMutator struct {
	db *gorm.DB
}

func NewBalanceMutator(db *gorm.DB) BalanceMutator {
	return &balanceMutator{db: db}
}

func (b *balanceMutator) Increment(ctx context.Context, field Field, id int64, amount decimal.Decimal) error {
	return b.apply(ctx, field, id, amount, "+")
}

func (b *balanceMutator) Decrement(ctx context.Context, field Field, id int64, amount decimal.Decimal) error {
	return b.apply(ctx, field, id, amount, "-")
}

func (b *balanceMutator) apply(ctx context.Context, field Field, id int64, amount decimal.Decimal, op string) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s %s %s: %w", field, op, amount, ErrNegativeDelta)
	}

	if amount.IsZero() {
		return nil
	}

	db := GetTx(ctx, b.db)
	// Table() skips the soft-delete scope, so effects on tombstoned rows can still be reversed.
	result := db.Table(field.table).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			field.column: gorm.Expr(field.column+" "+op+" ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("update %s: %w", field, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s id=%d: %w", field, id, ErrBalanceTargetMissing)
	}

	return nil
}
