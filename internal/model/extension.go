package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Extension is the kind-specific payload of a GeneralTransaction. The set of implementations is
// closed to this package.
type Extension interface {
	TransactionType() TransactionType
	SetGeneralTransactionID(id int64)
	attach(tx *GeneralTransaction)
}

type TransferTransaction struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	GeneralTransactionID int64     `gorm:"column:general_transaction_id;not null;uniqueIndex" json:"generalTransactionId"`
	DestinationWalletID  int64     `gorm:"column:destination_wallet_id;not null;index" json:"destinationWalletId"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (TransferTransaction) TableName() string { return "transfer_transactions" }

func (e *TransferTransaction) TransactionType() TransactionType { return TransactionTypeTransfer }
func (e *TransferTransaction) SetGeneralTransactionID(id int64) { e.GeneralTransactionID = id }
func (e *TransferTransaction) attach(tx *GeneralTransaction) { tx.Transfer = e }

type LendTransaction struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	GeneralTransactionID int64           `gorm:"column:general_transaction_id;not null;uniqueIndex" json:"generalTransactionId"`
	BorrowerID           int64           `gorm:"column:borrower_id;not null;index" json:"borrowerId"`
	CollectionDate       *time.Time      `gorm:"column:collection_date" json:"collectionDate"`
	CollectedAmount      decimal.Decimal `gorm:"column:collected_amount;type:decimal(20,2);not null;default:0" json:"collectedAmount"`
	CreatedAt            time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt            time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (LendTransaction) TableName() string { return "lend_transactions" }

func (e *LendTransaction) TransactionType() TransactionType { return TransactionTypeLend }
func (e *LendTransaction) SetGeneralTransactionID(id int64) { e.GeneralTransactionID = id }
func (e *LendTransaction) attach(tx *GeneralTransaction) { tx.Lend = e }

type BorrowTransaction struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	GeneralTransactionID int64           `gorm:"column:general_transaction_id;not null;uniqueIndex" json:"generalTransactionId"`
	LenderID             int64           `gorm:"column:lender_id;not null;index" json:"lenderId"`
	RepaymentDate        *time.Time      `gorm:"column:repayment_date" json:"repaymentDate"`
	RepaymentAmount      decimal.Decimal `gorm:"column:repayment_amount;type:decimal(20,2);not null;default:0" json:"repaymentAmount"`
	CreatedAt            time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt            time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (BorrowTransaction) TableName() string { return "borrow_transactions" }

func (e *BorrowTransaction) TransactionType() TransactionType { return TransactionTypeBorrow }
func (e *BorrowTransaction) SetGeneralTransactionID(id int64) { e.GeneralTransactionID = id }
func (e *BorrowTransaction) attach(tx *GeneralTransaction) { tx.Borrow = e }

// ModifyBalanceTransaction records a manual correction of a wallet balance. Increased keeps the
// direction of the correction so it can be reversed from the row alone.
type ModifyBalanceTransaction struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	GeneralTransactionID int64           `gorm:"column:general_transaction_id;not null;uniqueIndex" json:"generalTransactionId"`
	NewRealBalance       decimal.Decimal `gorm:"column:new_real_balance;type:decimal(20,2);not null" json:"newRealBalance"`
	Increased            bool            `gorm:"column:increased;not null" json:"increased"`
	CreatedAt            time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt            time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (ModifyBalanceTransaction) TableName() string { return "modify_balance_transactions" }

func (e *ModifyBalanceTransaction) TransactionType() TransactionType {
	return TransactionTypeModifyBalance
}
func (e *ModifyBalanceTransaction) SetGeneralTransactionID(id int64) { e.GeneralTransactionID = id }
func (e *ModifyBalanceTransaction) attach(tx *GeneralTransaction) { tx.ModifyBalance = e }

type CollectingDebtTransaction struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	GeneralTransactionID int64     `gorm:"column:general_transaction_id;not null;uniqueIndex" json:"generalTransactionId"`
	BorrowerID           int64     `gorm:"column:borrower_id;not null;index" json:"borrowerId"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (CollectingDebtTransaction) TableName() string { return "collecting_debt_transactions" }

func (e *CollectingDebtTransaction) TransactionType() TransactionType {
	return TransactionTypeCollectingDebt
}
func (e *CollectingDebtTransaction) SetGeneralTransactionID(id int64) { e.GeneralTransactionID = id }
func (e *CollectingDebtTransaction) attach(tx *GeneralTransaction) { tx.CollectingDebt = e }

type RepaymentTransaction struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	GeneralTransactionID int64     `gorm:"column:general_transaction_id;not null;uniqueIndex" json:"generalTransactionId"`
	LenderID             int64     `gorm:"column:lender_id;not null;index" json:"lenderId"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (RepaymentTransaction) TableName() string { return "repayment_transactions" }

func (e *RepaymentTransaction) TransactionType() TransactionType { return TransactionTypeRepayment }
func (e *RepaymentTransaction) SetGeneralTransactionID(id int64) { e.GeneralTransactionID = id }
func (e *RepaymentTransaction) attach(tx *GeneralTransaction) { tx.Repayment = e }
