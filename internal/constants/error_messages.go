package constants

const (
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeInvalidCategory       = "INVALID_CATEGORY"
	ErrCodeWalletNotFound        = "WALLET_NOT_FOUND"
	ErrCodeCategoryNotFound      = "CATEGORY_NOT_FOUND"
	ErrCodeRelatedUserNotFound   = "RELATED_USER_NOT_FOUND"
	ErrCodeTransactionNotFound   = "TRANSACTION_NOT_FOUND"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeInvalidOwner          = "INVALID_OWNER"
	ErrCodeTransactionFailed     = "TRANSACTION_FAILED"
	ErrCodeStorageError          = "STORAGE_ERROR"
	ErrCodeSyncInProgress        = "SYNC_IN_PROGRESS"
	ErrCodeInconsistentExtension = "INCONSISTENT_EXTENSION"
	ErrCodeInvalidRequestBody    = "INVALID_REQUEST_BODY"
	ErrCodeMissingUser           = "MISSING_USER"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed      = "request validation failed"
	ErrMsgInvalidCategory       = "category type does not match transaction type"
	ErrMsgWalletNotFound        = "wallet not found"
	ErrMsgCategoryNotFound      = "category not found"
	ErrMsgRelatedUserNotFound   = "related user not found"
	ErrMsgTransactionNotFound   = "transaction not found"
	ErrMsgUserNotFound          = "user not found"
	ErrMsgInvalidOwner          = "resource belongs to another user"
	ErrMsgTransactionFailed     = "transaction could not be applied"
	ErrMsgStorageError          = "storage error"
	ErrMsgSyncInProgress        = "another sync is in progress for this user"
	ErrMsgInconsistentExtension = "transaction record is inconsistent"
	ErrMsgInvalidRequestBody    = "failed to parse request body"
	ErrMsgMissingUser           = "missing or invalid X-User-ID header"
	ErrMsgInternalError         = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:      ErrMsgValidationFailed,
	ErrCodeInvalidCategory:       ErrMsgInvalidCategory,
	ErrCodeWalletNotFound:        ErrMsgWalletNotFound,
	ErrCodeCategoryNotFound:      ErrMsgCategoryNotFound,
	ErrCodeRelatedUserNotFound:   ErrMsgRelatedUserNotFound,
	ErrCodeTransactionNotFound:   ErrMsgTransactionNotFound,
	ErrCodeUserNotFound:          ErrMsgUserNotFound,
	ErrCodeInvalidOwner:          ErrMsgInvalidOwner,
	ErrCodeTransactionFailed:     ErrMsgTransactionFailed,
	ErrCodeStorageError:          ErrMsgStorageError,
	ErrCodeSyncInProgress:        ErrMsgSyncInProgress,
	ErrCodeInconsistentExtension: ErrMsgInconsistentExtension,
	ErrCodeInvalidRequestBody:    ErrMsgInvalidRequestBody,
	ErrCodeMissingUser:           ErrMsgMissingUser,
	ErrCodeInternalError:         ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeMissingUser:
		return 400
	case ErrCodeInvalidOwner:
		return 403
	case ErrCodeWalletNotFound, ErrCodeCategoryNotFound, ErrCodeRelatedUserNotFound,
		ErrCodeTransactionNotFound, ErrCodeUserNotFound:
		return 404
	case ErrCodeSyncInProgress:
		return 409
	case ErrCodeValidationFailed, ErrCodeInvalidCategory:
		return 422
	case ErrCodeTransactionFailed, ErrCodeStorageError, ErrCodeInconsistentExtension, ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}

func IsKnownCode(code string) bool {
	_, exists := errorMessages[code]
	return exists
}
