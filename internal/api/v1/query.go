package v1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
)

const dateLayout = "2006-01-02"

var errEmptyValue = errors.New("empty value")

func invalidParam(name string, cause error) error {
	if cause == nil {
		cause = errEmptyValue
	}
	return service.NewServiceError(constants.ErrCodeValidationFailed, fmt.Errorf("invalid %s: %w", name, cause))
}

// parseDate accepts a calendar day in the handler's location or an RFC 3339 instant. With
// endOfDay a calendar day is moved to the start of the next day.
func (h *Handler) parseDate(name, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, invalidParam(name, nil)
	}

	if day, err := time.ParseInLocation(dateLayout, value, h.location); err == nil {
		if endOfDay {
			return day.AddDate(0, 0, 1), nil
		}
		return day, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalidParam(name, err)
	}
	return t, nil
}

func parseIDs(name, value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, invalidParam(name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseTypes(value string) ([]model.TransactionType, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	types := make([]model.TransactionType, 0, len(parts))
	for _, part := range parts {
		txType := model.TransactionType(strings.ToUpper(strings.TrimSpace(part)))
		if !txType.Valid() {
			return nil, invalidParam("type", model.ErrUnknownTransaction)
		}
		types = append(types, txType)
	}
	return types, nil
}

func parseYear(name, value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}

	year, err := strconv.Atoi(value)
	if err != nil || year < 1 || year > 9999 {
		return 0, invalidParam(name, err)
	}
	return year, nil
}
