package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome         TransactionType = "INCOME"
	TransactionTypeExpense        TransactionType = "EXPENSE"
	TransactionTypeTransfer       TransactionType = "TRANSFER"
	TransactionTypeLend           TransactionType = "LEND"
	TransactionTypeBorrow         TransactionType = "BORROW"
	TransactionTypeModifyBalance  TransactionType = "MODIFY_BALANCE"
	TransactionTypeCollectingDebt TransactionType = "COLLECTING_DEBT"
	TransactionTypeRepayment      TransactionType = "REPAYMENT"
)

var (
	ErrMissingExtension    = errors.New("MISSING_EXTENSION")
	ErrExtensionMismatch   = errors.New("EXTENSION_MISMATCH")
	ErrUnknownTransaction  = errors.New("UNKNOWN_TRANSACTION_TYPE")
	ErrUnexpectedExtension = errors.New("UNEXPECTED_EXTENSION")
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer, TransactionTypeLend,
		TransactionTypeBorrow, TransactionTypeModifyBalance, TransactionTypeCollectingDebt,
		TransactionTypeRepayment:
		return true
	}
	return false
}

// RequiresExtension reports whether rows of this type carry a kind-specific extension record.
func (t TransactionType) RequiresExtension() bool {
	return t.Valid() && t != TransactionTypeIncome && t != TransactionTypeExpense
}

// Categorized reports whether the type is attributed to a category and counted in statistics.
func (t TransactionType) Categorized() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// GeneralTransaction is the canonical ledger row. Kind-specific data lives in exactly one of the
// extension associations, selected by Type.
type GeneralTransaction struct {
	ID              int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	Type            TransactionType `gorm:"column:type;type:varchar(20);not null;index" json:"type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	CategoryID      *int64          `gorm:"column:category_id;index" json:"categoryId"`
	SourceWalletID  int64           `gorm:"column:source_wallet_id;not null;index" json:"sourceWalletId"`
	UserID          int64           `gorm:"column:user_id;not null;index:idx_general_tx_user_date,priority:1" json:"userId"`
	TransactionDate time.Time       `gorm:"column:transaction_date;not null;index:idx_general_tx_user_date,priority:2" json:"transactionDate"`
	Description     string          `gorm:"column:description;type:text" json:"description"`
	Images          []string        `gorm:"column:images;serializer:json" json:"images"`
	NotAddToReport  bool            `gorm:"column:not_add_to_report;not null;default:false" json:"notAddToReport"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updatedAt"`

	Transfer       *TransferTransaction       `gorm:"foreignKey:GeneralTransactionID;constraint:OnDelete:CASCADE" json:"transfer,omitempty"`
	Lend           *LendTransaction           `gorm:"foreignKey:GeneralTransactionID;constraint:OnDelete:CASCADE" json:"lend,omitempty"`
	Borrow         *BorrowTransaction         `gorm:"foreignKey:GeneralTransactionID;constraint:OnDelete:CASCADE" json:"borrow,omitempty"`
	ModifyBalance  *ModifyBalanceTransaction  `gorm:"foreignKey:GeneralTransactionID;constraint:OnDelete:CASCADE" json:"modifyBalance,omitempty"`
	CollectingDebt *CollectingDebtTransaction `gorm:"foreignKey:GeneralTransactionID;constraint:OnDelete:CASCADE" json:"collectingDebt,omitempty"`
	Repayment      *RepaymentTransaction      `gorm:"foreignKey:GeneralTransactionID;constraint:OnDelete:CASCADE" json:"repayment,omitempty"`
}

func (GeneralTransaction) TableName() string {
	return "general_transactions"
}

// NewGeneralTransaction builds a canonical record of ext's kind with ext attached. Income and
// expense take a nil extension.
func NewGeneralTransaction(txType TransactionType, base GeneralTransaction, ext Extension) (*GeneralTransaction, error) {
	if !txType.Valid() {
		return nil, ErrUnknownTransaction
	}

	tx := base
	tx.ID = 0
	tx.Type = txType
	tx.Transfer, tx.Lend, tx.Borrow = nil, nil, nil
	tx.ModifyBalance, tx.CollectingDebt, tx.Repayment = nil, nil, nil

	if !txType.RequiresExtension() {
		if ext != nil {
			return nil, ErrUnexpectedExtension
		}
		return &tx, nil
	}

	if ext == nil {
		return nil, ErrMissingExtension
	}
	if ext.TransactionType() != txType {
		return nil, ErrExtensionMismatch
	}

	ext.attach(&tx)
	return &tx, nil
}

// Extension returns the kind-specific record. It fails with ErrMissingExtension when the type
// requires one and none is loaded, and with ErrExtensionMismatch when a foreign one is present.
func (t *GeneralTransaction) Extension() (Extension, error) {
	var found []Extension
	if t.Transfer != nil {
		found = append(found, t.Transfer)
	}
	if t.Lend != nil {
		found = append(found, t.Lend)
	}
	if t.Borrow != nil {
		found = append(found, t.Borrow)
	}
	if t.ModifyBalance != nil {
		found = append(found, t.ModifyBalance)
	}
	if t.CollectingDebt != nil {
		found = append(found, t.CollectingDebt)
	}
	if t.Repayment != nil {
		found = append(found, t.Repayment)
	}

	if !t.Type.RequiresExtension() {
		if len(found) > 0 {
			return nil, ErrUnexpectedExtension
		}
		return nil, nil
	}

	if len(found) == 0 {
		return nil, ErrMissingExtension
	}
	if len(found) > 1 || found[0].TransactionType() != t.Type {
		return nil, ErrExtensionMismatch
	}

	return found[0], nil
}
