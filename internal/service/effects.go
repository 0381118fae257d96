package service

import (
	"context"
	"fmt"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/shopspring/decimal"
)

// effect is one signed adjustment of an aggregate column.
type effect struct {
	field  repository.Field
	id     int64
	amount decimal.Decimal
}

// effectsOf derives the aggregate adjustments of a transaction from its persisted type, amount and
// extension only. Reversal applies inverse(effectsOf(tx)), so the two can never drift apart.
func effectsOf(tx *model.GeneralTransaction) ([]effect, error) {
	ext, err := tx.Extension()
	if err != nil {
		return nil, err
	}

	amount := tx.Amount
	wallet := tx.SourceWalletID
	user := tx.UserID

	switch tx.Type {
	case model.TransactionTypeIncome:
		return []effect{
			{repository.WalletBalance, wallet, amount},
			{repository.UserTotalBalance, user, amount},
		}, nil

	case model.TransactionTypeExpense:
		return []effect{
			{repository.WalletBalance, wallet, amount.Neg()},
			{repository.UserTotalBalance, user, amount.Neg()},
		}, nil

	case model.TransactionTypeTransfer:
		transfer := ext.(*model.TransferTransaction)
		return []effect{
			{repository.WalletBalance, wallet, amount.Neg()},
			{repository.WalletBalance, transfer.DestinationWalletID, amount},
		}, nil

	case model.TransactionTypeLend:
		lend := ext.(*model.LendTransaction)
		return []effect{
			{repository.WalletBalance, wallet, amount.Neg()},
			{repository.UserTotalBalance, user, amount.Neg()},
			{repository.UserTotalLoan, user, amount},
			{repository.RelatedUserTotalDebt, lend.BorrowerID, amount},
		}, nil

	case model.TransactionTypeBorrow:
		borrow := ext.(*model.BorrowTransaction)
		return []effect{
			{repository.WalletBalance, wallet, amount},
			{repository.UserTotalBalance, user, amount},
			{repository.UserTotalDebt, user, amount},
			{repository.RelatedUserTotalLoan, borrow.LenderID, amount},
		}, nil

	case model.TransactionTypeModifyBalance:
		modify := ext.(*model.ModifyBalanceTransaction)
		delta := amount
		if !modify.Increased {
			delta = amount.Neg()
		}
		return []effect{
			{repository.WalletBalance, wallet, delta},
			{repository.UserTotalBalance, user, delta},
		}, nil

	case model.TransactionTypeCollectingDebt:
		collect := ext.(*model.CollectingDebtTransaction)
		return []effect{
			{repository.WalletBalance, wallet, amount},
			{repository.UserTotalBalance, user, amount},
			{repository.UserTotalLoan, user, amount.Neg()},
			{repository.RelatedUserTotalDebt, collect.BorrowerID, amount.Neg()},
			{repository.RelatedUserTotalCollected, collect.BorrowerID, amount},
		}, nil

	case model.TransactionTypeRepayment:
		repay := ext.(*model.RepaymentTransaction)
		return []effect{
			{repository.WalletBalance, wallet, amount.Neg()},
			{repository.UserTotalBalance, user, amount.Neg()},
			{repository.UserTotalDebt, user, amount.Neg()},
			{repository.RelatedUserTotalLoan, repay.LenderID, amount.Neg()},
			{repository.RelatedUserTotalPaid, repay.LenderID, amount},
		}, nil
	}

	return nil, fmt.Errorf("%s: %w", tx.Type, model.ErrUnknownTransaction)
}

func inverse(effects []effect) []effect {
	inverted := make([]effect, len(effects))
	for i, e := range effects {
		inverted[i] = effect{field: e.field, id: e.id, amount: e.amount.Neg()}
	}
	return inverted
}

// walletIDs lists the wallets the effects touch, in order of first appearance.
func walletIDs(effects []effect) []int64 {
	var ids []int64
	seen := map[int64]bool{}
	for _, e := range effects {
		if e.field == repository.WalletBalance && !seen[e.id] {
			seen[e.id] = true
			ids = append(ids, e.id)
		}
	}
	return ids
}

// settleDeletedWallets drops the effects on deleted wallets and restates the user total as the sum of
// what remains on live wallets. A deleted wallet's balance left the user total when it was removed.
func settleDeletedWallets(effects []effect, userID int64, deleted map[int64]bool) []effect {
	if len(deleted) == 0 {
		return effects
	}

	settled := make([]effect, 0, len(effects))
	live := decimal.Zero
	for _, e := range effects {
		switch {
		case e.field == repository.WalletBalance && deleted[e.id], e.field == repository.UserTotalBalance:
			continue
		case e.field == repository.WalletBalance:
			live = live.Add(e.amount)
			settled = append(settled, e)
		default:
			settled = append(settled, e)
		}
	}

	if !live.IsZero() {
		settled = append(settled, effect{repository.UserTotalBalance, userID, live})
	}
	return settled
}

// applyEffects routes every signed effect to Increment or Decrement by its sign.
func applyEffects(ctx context.Context, balances repository.BalanceMutator, effects []effect) error {
	for _, e := range effects {
		if err := adjust(ctx, balances, e.field, e.id, e.amount); err != nil {
			return err
		}
	}
	return nil
}

func adjust(ctx context.Context, balances repository.BalanceMutator, field repository.Field, id int64,
	delta decimal.Decimal) error {
	if delta.IsNegative() {
		return balances.Decrement(ctx, field, id, delta.Neg())
	}
	return balances.Increment(ctx, field, id, delta)
}
