package validator

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	moneyRegex       = `^\d+(\.\d{1,2})?$`
	signedMoneyRegex = `^-?\d+(\.\d{1,2})?$`
)

const (
	MoneyTag       = "money"
	SignedMoneyTag = "signed_money"
)

var (
	moneyPattern       = regexp.MustCompile(moneyRegex)
	signedMoneyPattern = regexp.MustCompile(signedMoneyRegex)
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	MoneyTag:       ValidateMoney,
	SignedMoneyTag: ValidateSignedMoney,
}

// ValidateMoney accepts non-negative amounts with at most two fractional digits.
func ValidateMoney(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

func ValidateSignedMoney(fl validator.FieldLevel) bool {
	return signedMoneyPattern.MatchString(fl.Field().String())
}

// decimalValue lets string tags such as money and required run against decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}
