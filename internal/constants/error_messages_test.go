package constants_test

import (
	"testing"

	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := map[string]int{
		constants.ErrCodeInvalidRequestBody:  400,
		constants.ErrCodeInvalidOwner:        403,
		constants.ErrCodeWalletNotFound:      404,
		constants.ErrCodeTransactionNotFound: 404,
		constants.ErrCodeSyncInProgress:      409,
		constants.ErrCodeValidationFailed:    422,
		constants.ErrCodeInvalidCategory:     422,
		constants.ErrCodeTransactionFailed:   500,
		"SOMETHING_ELSE":                     500,
	}

	for code, status := range cases {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, status, constants.GetHTTPStatus(code))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, constants.ErrMsgSyncInProgress, constants.GetErrorMessage(constants.ErrCodeSyncInProgress))
	assert.Equal(t, constants.ErrMsgInternalError, constants.GetErrorMessage("UNKNOWN"))
}
