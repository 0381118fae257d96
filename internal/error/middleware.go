package middleware

import (
	"errors"

	"github.com/dlir2404/intel-money-backend-sub000/internal/api/validator"
	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Errors  []validator.Error `json:"errors,omitempty"`
}

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Code:    constants.ErrCodeInvalidRequestBody,
				Message: fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError && !constants.IsKnownCode(errorCode) {
		errorCode = constants.ErrCodeInternalError
	}

	resp := Response{
		Code:    errorCode,
		Message: constants.GetErrorMessage(errorCode),
	}

	var fieldErrs validator.FieldErrors
	if errors.As(err.Cause, &fieldErrs) {
		resp.Errors = fieldErrs
	}

	return c.Status(status).JSON(resp)
}
