package service

import (
	"context"
	"errors"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"go.uber.org/zap"
)

const (
	operationCreate = "create"
	operationUpdate = "update"
	operationRemove = "remove"
)

type LedgerService interface {
	CreateIncome(ctx context.Context, userID int64, cmd CreateCategorizedCommand) (TransactionResult, error)
	CreateExpense(ctx context.Context, userID int64, cmd CreateCategorizedCommand) (TransactionResult, error)
	CreateTransfer(ctx context.Context, userID int64, cmd CreateTransferCommand) (TransactionResult, error)
	CreateLend(ctx context.Context, userID int64, cmd CreateLendCommand) (TransactionResult, error)
	CreateBorrow(ctx context.Context, userID int64, cmd CreateBorrowCommand) (TransactionResult, error)
	CreateModifyBalance(ctx context.Context, userID int64, cmd CreateModifyBalanceCommand) (TransactionResult, error)
	CreateCollectingDebt(ctx context.Context, userID int64, cmd CreateCollectingDebtCommand) (TransactionResult, error)
	CreateRepayment(ctx context.Context, userID int64, cmd CreateRepaymentCommand) (TransactionResult, error)

	UpdateIncome(ctx context.Context, userID, id int64, cmd CreateCategorizedCommand) (TransactionResult, error)
	UpdateExpense(ctx context.Context, userID, id int64, cmd CreateCategorizedCommand) (TransactionResult, error)
	UpdateTransfer(ctx context.Context, userID, id int64, cmd CreateTransferCommand) (TransactionResult, error)
	UpdateLend(ctx context.Context, userID, id int64, cmd CreateLendCommand) (TransactionResult, error)
	UpdateBorrow(ctx context.Context, userID, id int64, cmd CreateBorrowCommand) (TransactionResult, error)

	RemoveTransaction(ctx context.Context, userID, id int64) error
	ListTransactions(ctx context.Context, userID int64, query ListTransactionsQuery) ([]model.GeneralTransaction, error)
}

// references are the entities a transaction points at, resolved and ownership-checked before the
// atomic unit opens.
type references struct {
	source      *model.Wallet
	destination *model.Wallet
	category    *model.Category
	relatedUser *model.RelatedUser
}

type ledger struct {
	txManager    repository.TxManager
	transactions repository.GeneralTransactionRepository
	wallets      repository.WalletRepository
	categories   repository.CategoryRepository
	relatedUsers repository.RelatedUserRepository
	balances     repository.BalanceMutator
	dispatcher   StatisticDispatcher
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewLedgerService(txManager repository.TxManager, transactions repository.GeneralTransactionRepository,
	wallets repository.WalletRepository, categories repository.CategoryRepository,
	relatedUsers repository.RelatedUserRepository, balances repository.BalanceMutator,
	dispatcher StatisticDispatcher, metrics *metrics.Metrics, logger *zap.Logger) LedgerService {
	return &ledger{
		txManager:    txManager,
		transactions: transactions,
		wallets:      wallets,
		categories:   categories,
		relatedUsers: relatedUsers,
		balances:     balances,
		dispatcher:   dispatcher,
		metrics:      metrics,
		logger:       logger,
	}
}

func (l *ledger) CreateIncome(ctx context.Context, userID int64, cmd CreateCategorizedCommand) (TransactionResult, error) {
	tx, refs, err := l.prepareCategorized(ctx, userID, model.TransactionTypeIncome, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeIncome, userID, err)
	}
	return l.create(ctx, tx, refs)
}

func (l *ledger) CreateExpense(ctx context.Context, userID int64, cmd CreateCategorizedCommand) (TransactionResult, error) {
	tx, refs, err := l.prepareCategorized(ctx, userID, model.TransactionTypeExpense, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeExpense, userID, err)
	}
	return l.create(ctx, tx, refs)
}

func (l *ledger) CreateTransfer(ctx context.Context, userID int64, cmd CreateTransferCommand) (TransactionResult, error) {
	tx, refs, err := l.prepareTransfer(ctx, userID, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeTransfer, userID, err)
	}
	return l.create(ctx, tx, refs)
}

func (l *ledger) CreateLend(ctx context.Context, userID int64, cmd CreateLendCommand) (TransactionResult, error) {
	tx, refs, err := l.prepareLend(ctx, userID, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeLend, userID, err)
	}
	return l.create(ctx, tx, refs)
}

func (l *ledger) CreateBorrow(ctx context.Context, userID int64, cmd CreateBorrowCommand) (TransactionResult, error) {
	tx, refs, err := l.prepareBorrow(ctx, userID, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeBorrow, userID, err)
	}
	return l.create(ctx, tx, refs)
}

func (l *ledger) CreateCollectingDebt(ctx context.Context, userID int64, cmd CreateCollectingDebtCommand) (
	TransactionResult, error) {
	tx, refs, err := l.prepareCollectingDebt(ctx, userID, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeCollectingDebt, userID, err)
	}
	return l.create(ctx, tx, refs)
}

func (l *ledger) CreateRepayment(ctx context.Context, userID int64, cmd CreateRepaymentCommand) (TransactionResult, error) {
	tx, refs, err := l.prepareRepayment(ctx, userID, cmd)
	if err != nil {
		return l.rejected(operationCreate, model.TransactionTypeRepayment, userID, err)
	}
	return l.create(ctx, tx, refs)
}

// CreateModifyBalance records a correction that moves the wallet to NewRealBalance. The delta is
// computed from the wallet as locked inside the unit, and persisted as a positive amount plus a
// direction.
func (l *ledger) CreateModifyBalance(ctx context.Context, userID int64, cmd CreateModifyBalanceCommand) (
	TransactionResult, error) {
	txType := model.TransactionTypeModifyBalance

	if !cmd.NewRealBalance.Equal(cmd.NewRealBalance.Round(2)) {
		return l.rejected(operationCreate, txType, userID,
			NewServiceError(constants.ErrCodeValidationFailed, ErrAmountPrecision))
	}

	wallet, err := l.ownedWallet(ctx, userID, cmd.SourceWalletID)
	if err != nil {
		return l.rejected(operationCreate, txType, userID, err)
	}

	ext := &model.ModifyBalanceTransaction{NewRealBalance: cmd.NewRealBalance}
	base := model.GeneralTransaction{
		SourceWalletID:  wallet.ID,
		UserID:          userID,
		TransactionDate: transactionDate(cmd.TransactionDate),
		Description:     cmd.Description,
		Images:          []string{},
		NotAddToReport:  true,
	}
	tx, err := model.NewGeneralTransaction(txType, base, ext)
	if err != nil {
		return l.rejected(operationCreate, txType, userID, NewServiceError(constants.ErrCodeInconsistentExtension, err))
	}

	start := time.Now()
	err = l.unit(ctx, func(ctx context.Context) error {
		current, err := l.wallets.GetForUpdate(ctx, wallet.ID)
		if err != nil {
			return err
		}

		delta := cmd.NewRealBalance.Sub(current.Balance)
		if delta.IsZero() {
			return NewServiceError(constants.ErrCodeValidationFailed, ErrBalanceUnchanged)
		}

		tx.Amount = delta.Abs()
		ext.Increased = delta.IsPositive()

		return l.apply(ctx, tx)
	})
	if err != nil {
		return l.failed(operationCreate, tx, err)
	}

	l.applied(operationCreate, tx, start)
	return l.result(ctx, tx, references{source: wallet}), nil
}

func (l *ledger) UpdateIncome(ctx context.Context, userID, id int64, cmd CreateCategorizedCommand) (
	TransactionResult, error) {
	return l.update(ctx, userID, id, model.TransactionTypeIncome,
		func() (*model.GeneralTransaction, references, error) {
			return l.prepareCategorized(ctx, userID, model.TransactionTypeIncome, cmd)
		})
}

func (l *ledger) UpdateExpense(ctx context.Context, userID, id int64, cmd CreateCategorizedCommand) (
	TransactionResult, error) {
	return l.update(ctx, userID, id, model.TransactionTypeExpense,
		func() (*model.GeneralTransaction, references, error) {
			return l.prepareCategorized(ctx, userID, model.TransactionTypeExpense, cmd)
		})
}

func (l *ledger) UpdateTransfer(ctx context.Context, userID, id int64, cmd CreateTransferCommand) (
	TransactionResult, error) {
	return l.update(ctx, userID, id, model.TransactionTypeTransfer,
		func() (*model.GeneralTransaction, references, error) {
			return l.prepareTransfer(ctx, userID, cmd)
		})
}

func (l *ledger) UpdateLend(ctx context.Context, userID, id int64, cmd CreateLendCommand) (TransactionResult, error) {
	return l.update(ctx, userID, id, model.TransactionTypeLend,
		func() (*model.GeneralTransaction, references, error) {
			return l.prepareLend(ctx, userID, cmd)
		})
}

func (l *ledger) UpdateBorrow(ctx context.Context, userID, id int64, cmd CreateBorrowCommand) (TransactionResult, error) {
	return l.update(ctx, userID, id, model.TransactionTypeBorrow,
		func() (*model.GeneralTransaction, references, error) {
			return l.prepareBorrow(ctx, userID, cmd)
		})
}

func (l *ledger) RemoveTransaction(ctx context.Context, userID, id int64) error {
	stored, err := l.ownedTransaction(ctx, userID, id)
	if err != nil {
		_, err = l.rejected(operationRemove, "", userID, err)
		return err
	}

	start := time.Now()
	err = l.unit(ctx, func(ctx context.Context) error {
		return l.reverse(ctx, stored)
	})
	if err != nil {
		_, err = l.failed(operationRemove, stored, err)
		return err
	}

	l.applied(operationRemove, stored, start)
	l.notifyRemoved(ctx, stored)

	return nil
}

func (l *ledger) ListTransactions(ctx context.Context, userID int64, query ListTransactionsQuery) (
	[]model.GeneralTransaction, error) {
	if query.To.Before(query.From) {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidRange)
	}

	filter := repository.TransactionFilter{
		Types:       query.Types,
		CategoryIDs: query.CategoryIDs,
		WalletIDs:   query.WalletIDs,
	}

	txs, err := l.transactions.FindByUser(ctx, userID, query.From, query.To, filter)
	if err != nil {
		l.logger.Error("Failed to list transactions", zap.Int64("userID", userID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeStorageError, err)
	}

	return txs, nil
}

func (l *ledger) create(ctx context.Context, tx *model.GeneralTransaction, refs references) (TransactionResult, error) {
	start := time.Now()
	err := l.unit(ctx, func(ctx context.Context) error {
		return l.apply(ctx, tx)
	})
	if err != nil {
		return l.failed(operationCreate, tx, err)
	}

	l.applied(operationCreate, tx, start)
	l.notifyCreated(ctx, tx)

	return l.result(ctx, tx, refs), nil
}

// update replaces the stored transaction by reversing it and creating the new body in one unit.
// The replacement is a new record with a new id.
func (l *ledger) update(ctx context.Context, userID, id int64, txType model.TransactionType,
	prepare func() (*model.GeneralTransaction, references, error)) (TransactionResult, error) {
	stored, err := l.ownedTransaction(ctx, userID, id)
	if err != nil {
		return l.rejected(operationUpdate, txType, userID, err)
	}
	if stored.Type != txType {
		return l.rejected(operationUpdate, txType, userID,
			NewServiceError(constants.ErrCodeValidationFailed, ErrTypeMismatch))
	}

	tx, refs, err := prepare()
	if err != nil {
		return l.rejected(operationUpdate, txType, userID, err)
	}

	start := time.Now()
	err = l.unit(ctx, func(ctx context.Context) error {
		if err := l.reverse(ctx, stored); err != nil {
			return err
		}
		return l.apply(ctx, tx)
	})
	if err != nil {
		return l.failed(operationUpdate, tx, err)
	}

	l.applied(operationUpdate, tx, start)
	l.notifyRemoved(ctx, stored)
	l.notifyCreated(ctx, tx)

	return l.result(ctx, tx, refs), nil
}

// apply mutates the aggregates first and inserts the rows last.
func (l *ledger) apply(ctx context.Context, tx *model.GeneralTransaction) error {
	effects, err := effectsOf(tx)
	if err != nil {
		return NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	if err := applyEffects(ctx, l.balances, effects); err != nil {
		return err
	}

	return l.transactions.Create(ctx, tx)
}

// reverse undoes exactly the effects of the persisted record, then deletes extension and canonical
// rows. Wallets deleted since the record was written are left as they are.
func (l *ledger) reverse(ctx context.Context, stored *model.GeneralTransaction) error {
	effects, err := effectsOf(stored)
	if err != nil {
		return NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	deleted, err := l.deletedWallets(ctx, effects)
	if err != nil {
		return err
	}

	if err := applyEffects(ctx, l.balances, settleDeletedWallets(inverse(effects), stored.UserID, deleted)); err != nil {
		return err
	}

	return l.transactions.Delete(ctx, stored)
}

func (l *ledger) deletedWallets(ctx context.Context, effects []effect) (map[int64]bool, error) {
	ids, err := l.wallets.FindDeleted(ctx, walletIDs(effects))
	if err != nil {
		return nil, err
	}

	deleted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		deleted[id] = true
	}
	return deleted, nil
}

// unit runs fn atomically. Failures other than service errors become TRANSACTION_FAILED.
func (l *ledger) unit(ctx context.Context, fn func(ctx context.Context) error) error {
	err := l.txManager.WithTx(ctx, fn)
	if err == nil {
		return nil
	}

	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return err
	}

	return NewServiceError(constants.ErrCodeTransactionFailed, err)
}

func (l *ledger) prepareCategorized(ctx context.Context, userID int64, txType model.TransactionType,
	cmd CreateCategorizedCommand) (*model.GeneralTransaction, references, error) {
	if err := validateBody(cmd.TransactionBody); err != nil {
		return nil, references{}, err
	}

	wallet, err := l.ownedWallet(ctx, userID, cmd.SourceWalletID)
	if err != nil {
		return nil, references{}, err
	}

	category, err := l.ownedCategory(ctx, userID, cmd.CategoryID)
	if err != nil {
		return nil, references{}, err
	}
	if !category.Type.Matches(txType) {
		return nil, references{}, NewServiceError(constants.ErrCodeInvalidCategory, ErrCategoryMismatch)
	}

	base := newBase(userID, cmd.TransactionBody)
	base.CategoryID = &category.ID

	tx, err := model.NewGeneralTransaction(txType, base, nil)
	if err != nil {
		return nil, references{}, NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	return tx, references{source: wallet, category: category}, nil
}

func (l *ledger) prepareTransfer(ctx context.Context, userID int64, cmd CreateTransferCommand) (
	*model.GeneralTransaction, references, error) {
	if err := validateBody(cmd.TransactionBody); err != nil {
		return nil, references{}, err
	}
	if cmd.SourceWalletID == cmd.DestinationWalletID {
		return nil, references{}, NewServiceError(constants.ErrCodeValidationFailed, ErrSameWallet)
	}

	source, err := l.ownedWallet(ctx, userID, cmd.SourceWalletID)
	if err != nil {
		return nil, references{}, err
	}

	destination, err := l.ownedWallet(ctx, userID, cmd.DestinationWalletID)
	if err != nil {
		return nil, references{}, err
	}

	ext := &model.TransferTransaction{DestinationWalletID: destination.ID}
	tx, err := model.NewGeneralTransaction(model.TransactionTypeTransfer, newBase(userID, cmd.TransactionBody), ext)
	if err != nil {
		return nil, references{}, NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	return tx, references{source: source, destination: destination}, nil
}

func (l *ledger) prepareLend(ctx context.Context, userID int64, cmd CreateLendCommand) (
	*model.GeneralTransaction, references, error) {
	wallet, borrower, err := l.prepareCounterparty(ctx, userID, cmd.TransactionBody, cmd.BorrowerID)
	if err != nil {
		return nil, references{}, err
	}

	ext := &model.LendTransaction{BorrowerID: borrower.ID, CollectionDate: cmd.CollectionDate}
	tx, err := model.NewGeneralTransaction(model.TransactionTypeLend, newBase(userID, cmd.TransactionBody), ext)
	if err != nil {
		return nil, references{}, NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	return tx, references{source: wallet, relatedUser: borrower}, nil
}

func (l *ledger) prepareBorrow(ctx context.Context, userID int64, cmd CreateBorrowCommand) (
	*model.GeneralTransaction, references, error) {
	wallet, lender, err := l.prepareCounterparty(ctx, userID, cmd.TransactionBody, cmd.LenderID)
	if err != nil {
		return nil, references{}, err
	}

	ext := &model.BorrowTransaction{LenderID: lender.ID, RepaymentDate: cmd.RepaymentDate}
	tx, err := model.NewGeneralTransaction(model.TransactionTypeBorrow, newBase(userID, cmd.TransactionBody), ext)
	if err != nil {
		return nil, references{}, NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	return tx, references{source: wallet, relatedUser: lender}, nil
}

func (l *ledger) prepareCollectingDebt(ctx context.Context, userID int64, cmd CreateCollectingDebtCommand) (
	*model.GeneralTransaction, references, error) {
	wallet, borrower, err := l.prepareCounterparty(ctx, userID, cmd.TransactionBody, cmd.BorrowerID)
	if err != nil {
		return nil, references{}, err
	}
	if cmd.Amount.GreaterThan(borrower.TotalDebt) {
		return nil, references{}, NewServiceError(constants.ErrCodeValidationFailed, ErrExceedsOutstanding)
	}

	ext := &model.CollectingDebtTransaction{BorrowerID: borrower.ID}
	tx, err := model.NewGeneralTransaction(model.TransactionTypeCollectingDebt, newBase(userID, cmd.TransactionBody), ext)
	if err != nil {
		return nil, references{}, NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	return tx, references{source: wallet, relatedUser: borrower}, nil
}

func (l *ledger) prepareRepayment(ctx context.Context, userID int64, cmd CreateRepaymentCommand) (
	*model.GeneralTransaction, references, error) {
	wallet, lender, err := l.prepareCounterparty(ctx, userID, cmd.TransactionBody, cmd.LenderID)
	if err != nil {
		return nil, references{}, err
	}
	if cmd.Amount.GreaterThan(lender.TotalLoan) {
		return nil, references{}, NewServiceError(constants.ErrCodeValidationFailed, ErrExceedsOutstanding)
	}

	ext := &model.RepaymentTransaction{LenderID: lender.ID}
	tx, err := model.NewGeneralTransaction(model.TransactionTypeRepayment, newBase(userID, cmd.TransactionBody), ext)
	if err != nil {
		return nil, references{}, NewServiceError(constants.ErrCodeInconsistentExtension, err)
	}

	return tx, references{source: wallet, relatedUser: lender}, nil
}

func (l *ledger) prepareCounterparty(ctx context.Context, userID int64, body TransactionBody, relatedUserID int64) (
	*model.Wallet, *model.RelatedUser, error) {
	if err := validateBody(body); err != nil {
		return nil, nil, err
	}

	wallet, err := l.ownedWallet(ctx, userID, body.SourceWalletID)
	if err != nil {
		return nil, nil, err
	}

	relatedUser, err := l.ownedRelatedUser(ctx, userID, relatedUserID)
	if err != nil {
		return nil, nil, err
	}

	return wallet, relatedUser, nil
}

func (l *ledger) ownedWallet(ctx context.Context, userID, id int64) (*model.Wallet, error) {
	wallet, err := l.wallets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, NewServiceError(constants.ErrCodeWalletNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeStorageError, err)
	}

	if wallet.UserID != userID {
		return nil, NewServiceError(constants.ErrCodeInvalidOwner, ErrNotOwner)
	}

	return wallet, nil
}

func (l *ledger) ownedCategory(ctx context.Context, userID, id int64) (*model.Category, error) {
	category, err := l.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, NewServiceError(constants.ErrCodeCategoryNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeStorageError, err)
	}

	if category.UserID != userID {
		return nil, NewServiceError(constants.ErrCodeInvalidOwner, ErrNotOwner)
	}

	return category, nil
}

func (l *ledger) ownedRelatedUser(ctx context.Context, userID, id int64) (*model.RelatedUser, error) {
	relatedUser, err := l.relatedUsers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRelatedUserNotFound) {
			return nil, NewServiceError(constants.ErrCodeRelatedUserNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeStorageError, err)
	}

	if relatedUser.UserID != userID {
		return nil, NewServiceError(constants.ErrCodeInvalidOwner, ErrNotOwner)
	}

	return relatedUser, nil
}

func (l *ledger) ownedTransaction(ctx context.Context, userID, id int64) (*model.GeneralTransaction, error) {
	tx, err := l.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeStorageError, err)
	}

	if tx.UserID != userID {
		return nil, NewServiceError(constants.ErrCodeInvalidOwner, ErrNotOwner)
	}

	return tx, nil
}

// result re-reads the referenced wallets and counterparty so the caller sees post-commit balances.
// A failed re-read is logged and the pre-commit copy is returned.
func (l *ledger) result(ctx context.Context, tx *model.GeneralTransaction, refs references) TransactionResult {
	result := TransactionResult{
		Transaction:       tx,
		SourceWallet:      refs.source,
		DestinationWallet: refs.destination,
		Category:          refs.category,
		RelatedUser:       refs.relatedUser,
	}

	if refs.source != nil {
		if wallet, err := l.wallets.GetByID(ctx, refs.source.ID); err == nil {
			result.SourceWallet = wallet
		} else {
			l.logger.Warn("Failed to reload source wallet", zap.Int64("walletID", refs.source.ID), zap.Error(err))
		}
	}

	if refs.destination != nil {
		if wallet, err := l.wallets.GetByID(ctx, refs.destination.ID); err == nil {
			result.DestinationWallet = wallet
		} else {
			l.logger.Warn("Failed to reload destination wallet",
				zap.Int64("walletID", refs.destination.ID), zap.Error(err))
		}
	}

	if refs.relatedUser != nil {
		if relatedUser, err := l.relatedUsers.GetByID(ctx, refs.relatedUser.ID); err == nil {
			result.RelatedUser = relatedUser
		} else {
			l.logger.Warn("Failed to reload related user",
				zap.Int64("relatedUserID", refs.relatedUser.ID), zap.Error(err))
		}
	}

	return result
}

// notifyCreated and notifyRemoved run after commit. The request context may be cancelled once the
// response is written, so dispatch is detached from it. Failures never reach the caller.
func (l *ledger) notifyCreated(ctx context.Context, tx *model.GeneralTransaction) {
	if !Reportable(tx) {
		return
	}

	if err := l.dispatcher.TransactionCreated(context.WithoutCancel(ctx), tx); err != nil {
		l.logger.Warn("Failed to dispatch statistic update",
			zap.String("event", EventTransactionCreated),
			zap.Int64("transactionID", tx.ID),
			zap.Error(err))
	}
}

func (l *ledger) notifyRemoved(ctx context.Context, tx *model.GeneralTransaction) {
	if !Reportable(tx) {
		return
	}

	if err := l.dispatcher.TransactionRemoved(context.WithoutCancel(ctx), tx); err != nil {
		l.logger.Warn("Failed to dispatch statistic update",
			zap.String("event", EventTransactionRemoved),
			zap.Int64("transactionID", tx.ID),
			zap.Error(err))
	}
}

func (l *ledger) rejected(operation string, txType model.TransactionType, userID int64, err error) (
	TransactionResult, error) {
	l.logger.Warn("Transaction rejected",
		zap.String("operation", operation),
		zap.String("type", string(txType)),
		zap.Int64("userID", userID),
		zap.Error(err))

	if l.metrics != nil {
		l.metrics.RecordTransactionError(operation, string(txType), CodeOf(err))
	}

	return TransactionResult{}, err
}

func (l *ledger) failed(operation string, tx *model.GeneralTransaction, err error) (TransactionResult, error) {
	l.logger.Error("Transaction unit failed",
		zap.String("operation", operation),
		zap.String("type", string(tx.Type)),
		zap.Int64("userID", tx.UserID),
		zap.Error(err))

	if l.metrics != nil {
		l.metrics.RecordTransactionError(operation, string(tx.Type), CodeOf(err))
	}

	return TransactionResult{}, err
}

func (l *ledger) applied(operation string, tx *model.GeneralTransaction, start time.Time) {
	l.logger.Info("Transaction applied",
		zap.String("operation", operation),
		zap.String("type", string(tx.Type)),
		zap.Int64("transactionID", tx.ID),
		zap.Int64("userID", tx.UserID),
		zap.String("amount", tx.Amount.String()))

	if l.metrics != nil {
		l.metrics.RecordTransactionApplied(operation, string(tx.Type), time.Since(start))
	}
}

func validateBody(body TransactionBody) error {
	if !body.Amount.IsPositive() {
		return NewServiceError(constants.ErrCodeValidationFailed, ErrNonPositiveAmount)
	}
	if !body.Amount.Equal(body.Amount.Round(2)) {
		return NewServiceError(constants.ErrCodeValidationFailed, ErrAmountPrecision)
	}
	return nil
}

func newBase(userID int64, body TransactionBody) model.GeneralTransaction {
	images := body.Images
	if images == nil {
		images = []string{}
	}

	return model.GeneralTransaction{
		Amount:          body.Amount,
		SourceWalletID:  body.SourceWalletID,
		UserID:          userID,
		TransactionDate: transactionDate(body.TransactionDate),
		Description:     body.Description,
		Images:          images,
		NotAddToReport:  body.NotAddToReport,
	}
}

func transactionDate(date *time.Time) time.Time {
	if date == nil {
		return time.Now()
	}
	return *date
}
