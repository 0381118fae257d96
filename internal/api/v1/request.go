package v1

import (
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	Amount          decimal.Decimal `json:"amount" validate:"required,money"`
	SourceWalletID  int64           `json:"sourceWalletId" validate:"required,gt=0"`
	TransactionDate *time.Time      `json:"transactionDate"`
	Description     string          `json:"description" validate:"max=1000"`
	Images          []string        `json:"images" validate:"max=20,dive,max=2048"`
	NotAddToReport  bool            `json:"notAddToReport"`
}

func (r TransactionRequest) body() service.TransactionBody {
	return service.TransactionBody{
		Amount:          r.Amount,
		SourceWalletID:  r.SourceWalletID,
		TransactionDate: r.TransactionDate,
		Description:     r.Description,
		Images:          r.Images,
		NotAddToReport:  r.NotAddToReport,
	}
}

type CategorizedRequest struct {
	TransactionRequest
	CategoryID int64 `json:"categoryId" validate:"required,gt=0"`
}

func (r CategorizedRequest) command() service.CreateCategorizedCommand {
	return service.CreateCategorizedCommand{TransactionBody: r.body(), CategoryID: r.CategoryID}
}

type TransferRequest struct {
	TransactionRequest
	DestinationWalletID int64 `json:"destinationWalletId" validate:"required,gt=0"`
}

func (r TransferRequest) command() service.CreateTransferCommand {
	return service.CreateTransferCommand{TransactionBody: r.body(), DestinationWalletID: r.DestinationWalletID}
}

type LendRequest struct {
	TransactionRequest
	BorrowerID     int64      `json:"borrowerId" validate:"required,gt=0"`
	CollectionDate *time.Time `json:"collectionDate"`
}

func (r LendRequest) command() service.CreateLendCommand {
	return service.CreateLendCommand{
		TransactionBody: r.body(),
		BorrowerID:      r.BorrowerID,
		CollectionDate:  r.CollectionDate,
	}
}

type BorrowRequest struct {
	TransactionRequest
	LenderID      int64      `json:"lenderId" validate:"required,gt=0"`
	RepaymentDate *time.Time `json:"repaymentDate"`
}

func (r BorrowRequest) command() service.CreateBorrowCommand {
	return service.CreateBorrowCommand{
		TransactionBody: r.body(),
		LenderID:        r.LenderID,
		RepaymentDate:   r.RepaymentDate,
	}
}

type ModifyBalanceRequest struct {
	SourceWalletID  int64           `json:"sourceWalletId" validate:"required,gt=0"`
	NewRealBalance  decimal.Decimal `json:"newRealBalance" validate:"signed_money"`
	TransactionDate *time.Time      `json:"transactionDate"`
	Description     string          `json:"description" validate:"max=1000"`
}

func (r ModifyBalanceRequest) command() service.CreateModifyBalanceCommand {
	return service.CreateModifyBalanceCommand{
		SourceWalletID:  r.SourceWalletID,
		NewRealBalance:  r.NewRealBalance,
		TransactionDate: r.TransactionDate,
		Description:     r.Description,
	}
}

type CollectingDebtRequest struct {
	TransactionRequest
	BorrowerID int64 `json:"borrowerId" validate:"required,gt=0"`
}

func (r CollectingDebtRequest) command() service.CreateCollectingDebtCommand {
	return service.CreateCollectingDebtCommand{TransactionBody: r.body(), BorrowerID: r.BorrowerID}
}

type RepaymentRequest struct {
	TransactionRequest
	LenderID int64 `json:"lenderId" validate:"required,gt=0"`
}

func (r RepaymentRequest) command() service.CreateRepaymentCommand {
	return service.CreateRepaymentCommand{TransactionBody: r.body(), LenderID: r.LenderID}
}

type BatchRequest[T any] struct {
	Create []T     `json:"create"`
	Update []T     `json:"update"`
	Delete []int64 `json:"delete"`
}

func (b BatchRequest[T]) batch() service.Batch[T] {
	return service.Batch[T]{Create: b.Create, Update: b.Update, Delete: b.Delete}
}

// SyncRequest entities are validated by the sync coordinator, not by tags.
type SyncRequest struct {
	Categories   BatchRequest[model.Category]    `json:"categories"`
	Wallets      BatchRequest[model.Wallet]      `json:"wallets"`
	RelatedUsers BatchRequest[model.RelatedUser] `json:"relatedUsers"`
}

func (r SyncRequest) command() service.SyncBatchCommand {
	return service.SyncBatchCommand{
		Categories:   r.Categories.batch(),
		Wallets:      r.Wallets.batch(),
		RelatedUsers: r.RelatedUsers.batch(),
	}
}
