package service

import "errors"

var (
	ErrNonPositiveAmount  = errors.New("AMOUNT_MUST_BE_POSITIVE")
	ErrAmountPrecision    = errors.New("AMOUNT_HAS_MORE_THAN_TWO_DECIMALS")
	ErrSameWallet         = errors.New("SOURCE_AND_DESTINATION_WALLET_EQUAL")
	ErrCategoryMismatch   = errors.New("CATEGORY_TYPE_MISMATCH")
	ErrNotOwner           = errors.New("NOT_OWNER")
	ErrTypeMismatch       = errors.New("TRANSACTION_TYPE_MISMATCH")
	ErrBalanceUnchanged   = errors.New("BALANCE_UNCHANGED")
	ErrExceedsOutstanding = errors.New("AMOUNT_EXCEEDS_OUTSTANDING")
	ErrInvalidRange       = errors.New("INVALID_RANGE")
	ErrSyncLocked         = errors.New("SYNC_LOCKED")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Code + ": " + e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the first service Error in err's chain, or "" when there is none.
func CodeOf(err error) string {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return ""
}
