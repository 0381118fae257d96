package validator

import (
	"fmt"
	"strings"

	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	sep = " and "
)

type Error struct {
	FailedField string      `json:"field"`
	Tag         string      `json:"tag"`
	Value       interface{} `json:"-"`
}

// FieldErrors is the cause carried by a VALIDATION_FAILED error raised for a request body.
type FieldErrors []Error

func (f FieldErrors) Error() string {
	msgs := make([]string, 0, len(f))
	for _, err := range f {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", err.FailedField, err.Tag))
	}
	return strings.Join(msgs, sep)
}

type IXValidator interface {
	ParseAndValidate(c *fiber.Ctx, out any) error
	Validate(data any) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) IXValidator {
	for key, function := range valid {
		_ = validate.RegisterValidation(key, function)
	}
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	return &XValidator{
		validator: validate,
		metrics:   metrics,
	}
}

// ParseAndValidate decodes the body into out and validates it. Decode failures are
// INVALID_REQUEST_BODY, tag failures VALIDATION_FAILED with the failed fields as cause.
func (x XValidator) ParseAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	if errs := x.Validate(out); len(errs) > 0 {
		if x.metrics != nil {
			for _, err := range errs {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}
		return service.NewServiceError(constants.ErrCodeValidationFailed, FieldErrors(errs))
	}

	return nil
}

func (x XValidator) Validate(data any) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		validationErrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return []Error{{FailedField: "body", Tag: "struct"}}
		}

		for _, err := range validationErrs {
			validationErrors = append(validationErrors, Error{
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Value(),
			})
		}
	}
	return validationErrors
}
