package service

import (
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
)

// TransactionResult is a committed transaction with the entities it references, re-read after
// commit so balances are current.
type TransactionResult struct {
	Transaction       *model.GeneralTransaction
	SourceWallet      *model.Wallet
	DestinationWallet *model.Wallet
	Category          *model.Category
	RelatedUser       *model.RelatedUser
}

type PeriodStatistic struct {
	Period Period
	Data   model.StatisticData
}

type BatchResult[T any] struct {
	Created []T     `json:"created"`
	Updated []T     `json:"updated"`
	Deleted []int64 `json:"deleted"`
}

type SyncBatchResult struct {
	Categories   BatchResult[model.Category]    `json:"categories"`
	Wallets      BatchResult[model.Wallet]      `json:"wallets"`
	RelatedUsers BatchResult[model.RelatedUser] `json:"relatedUsers"`
}

type ChangesResult struct {
	Since        time.Time                  `json:"since"`
	Categories   []model.Category           `json:"categories"`
	Wallets      []model.Wallet             `json:"wallets"`
	RelatedUsers []model.RelatedUser        `json:"relatedUsers"`
	Transactions []model.GeneralTransaction `json:"transactions"`
}
