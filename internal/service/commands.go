package service

import (
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionBody holds the fields shared by every transaction kind.
type TransactionBody struct {
	Amount          decimal.Decimal
	SourceWalletID  int64
	TransactionDate *time.Time
	Description     string
	Images          []string
	NotAddToReport  bool
}

type CreateCategorizedCommand struct {
	TransactionBody
	CategoryID int64
}

type CreateTransferCommand struct {
	TransactionBody
	DestinationWalletID int64
}

type CreateLendCommand struct {
	TransactionBody
	BorrowerID     int64
	CollectionDate *time.Time
}

type CreateBorrowCommand struct {
	TransactionBody
	LenderID      int64
	RepaymentDate *time.Time
}

type CreateModifyBalanceCommand struct {
	SourceWalletID  int64
	NewRealBalance  decimal.Decimal
	TransactionDate *time.Time
	Description     string
}

type CreateCollectingDebtCommand struct {
	TransactionBody
	BorrowerID int64
}

type CreateRepaymentCommand struct {
	TransactionBody
	LenderID int64
}

type ListTransactionsQuery struct {
	From        time.Time
	To          time.Time
	Types       []model.TransactionType
	CategoryIDs []int64
	WalletIDs   []int64
}

// StatisticFilter narrows a statistic query. A non-empty filter is never served from the cache.
type StatisticFilter struct {
	CategoryIDs []int64
	WalletIDs   []int64
}

func (f StatisticFilter) Empty() bool {
	return len(f.CategoryIDs) == 0 && len(f.WalletIDs) == 0
}

// Batch is one entity kind of a sync push.
type Batch[T any] struct {
	Create []T
	Update []T
	Delete []int64
}

type SyncBatchCommand struct {
	Categories   Batch[model.Category]
	Wallets      Batch[model.Wallet]
	RelatedUsers Batch[model.RelatedUser]
}

// StatisticEvent is the queued form of a committed transaction change. It carries only what the
// statistic cache update reads.
type StatisticEvent struct {
	TransactionID   int64                 `json:"transactionId"`
	UserID          int64                 `json:"userId"`
	Type            model.TransactionType `json:"type"`
	Amount          decimal.Decimal       `json:"amount"`
	CategoryID      *int64                `json:"categoryId"`
	TransactionDate time.Time             `json:"transactionDate"`
	NotAddToReport  bool                  `json:"notAddToReport"`
}

func NewStatisticEvent(tx *model.GeneralTransaction) StatisticEvent {
	return StatisticEvent{
		TransactionID:   tx.ID,
		UserID:          tx.UserID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		CategoryID:      tx.CategoryID,
		TransactionDate: tx.TransactionDate,
		NotAddToReport:  tx.NotAddToReport,
	}
}

func (e StatisticEvent) Transaction() *model.GeneralTransaction {
	return &model.GeneralTransaction{
		ID:              e.TransactionID,
		UserID:          e.UserID,
		Type:            e.Type,
		Amount:          e.Amount,
		CategoryID:      e.CategoryID,
		TransactionDate: e.TransactionDate,
		NotAddToReport:  e.NotAddToReport,
	}
}
