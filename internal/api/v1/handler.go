package v1

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/api/validator"
	"github.com/dlir2404/intel-money-backend-sub000/internal/config"
	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const userHeader = "X-User-ID"

var ErrMissingUser = errors.New("MISSING_USER")

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	logger    *zap.Logger
	validator validator.IXValidator
	ledger    service.LedgerService
	statistic service.StatisticService
	sync      service.SyncService
	health    HealthChecker
	location  *time.Location
}

func NewHandler(cfg *config.Config, logger *zap.Logger, validator validator.IXValidator, ledger service.LedgerService,
	statistic service.StatisticService, sync service.SyncService, health HealthChecker) *Handler {
	return &Handler{
		logger:    logger,
		validator: validator,
		ledger:    ledger,
		statistic: statistic,
		sync:      sync,
		health:    health,
		location:  cfg.Statistic.Location(),
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.health.HealthCheck(c.UserContext()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) CreateIncome(c *fiber.Ctx) error {
	return h.createCategorized(c, h.ledger.CreateIncome)
}

func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	return h.createCategorized(c, h.ledger.CreateExpense)
}

func (h *Handler) createCategorized(c *fiber.Ctx,
	create func(context.Context, int64, service.CreateCategorizedCommand) (service.TransactionResult, error)) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request CategorizedRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := create(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) CreateTransfer(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request TransferRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.CreateTransfer(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) CreateLend(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request LendRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.CreateLend(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) CreateBorrow(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request BorrowRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.CreateBorrow(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) CreateModifyBalance(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request ModifyBalanceRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.CreateModifyBalance(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) CreateCollectingDebt(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request CollectingDebtRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.CreateCollectingDebt(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) CreateRepayment(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request RepaymentRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.CreateRepayment(c.UserContext(), userID, request.command())
	return h.created(c, result, err)
}

func (h *Handler) UpdateIncome(c *fiber.Ctx) error {
	return h.updateCategorized(c, h.ledger.UpdateIncome)
}

func (h *Handler) UpdateExpense(c *fiber.Ctx) error {
	return h.updateCategorized(c, h.ledger.UpdateExpense)
}

func (h *Handler) updateCategorized(c *fiber.Ctx,
	update func(context.Context, int64, int64, service.CreateCategorizedCommand) (service.TransactionResult, error)) error {
	userID, id, err := h.userAndID(c)
	if err != nil {
		return err
	}

	var request CategorizedRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := update(c.UserContext(), userID, id, request.command())
	return h.updated(c, result, err)
}

func (h *Handler) UpdateTransfer(c *fiber.Ctx) error {
	userID, id, err := h.userAndID(c)
	if err != nil {
		return err
	}

	var request TransferRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.UpdateTransfer(c.UserContext(), userID, id, request.command())
	return h.updated(c, result, err)
}

func (h *Handler) UpdateLend(c *fiber.Ctx) error {
	userID, id, err := h.userAndID(c)
	if err != nil {
		return err
	}

	var request LendRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.UpdateLend(c.UserContext(), userID, id, request.command())
	return h.updated(c, result, err)
}

func (h *Handler) UpdateBorrow(c *fiber.Ctx) error {
	userID, id, err := h.userAndID(c)
	if err != nil {
		return err
	}

	var request BorrowRequest
	if err := h.validator.ParseAndValidate(c, &request); err != nil {
		return err
	}

	result, err := h.ledger.UpdateBorrow(c.UserContext(), userID, id, request.command())
	return h.updated(c, result, err)
}

func (h *Handler) RemoveTransaction(c *fiber.Ctx) error {
	userID, id, err := h.userAndID(c)
	if err != nil {
		return err
	}

	if err := h.ledger.RemoveTransaction(c.UserContext(), userID, id); err != nil {
		return err
	}

	return c.JSON(DeleteResponse{ID: id, Deleted: true})
}

// ListTransactions defaults to the current month. A date-only "to" includes that whole day.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	now := time.Now().In(h.location)
	query := service.ListTransactionsQuery{
		From: service.PeriodOf(service.PeriodMonth, now).Start,
		To:   service.PeriodOf(service.PeriodDay, now).End,
	}

	if value := c.Query("from"); value != "" {
		if query.From, err = h.parseDate("from", value, false); err != nil {
			return err
		}
	}
	if value := c.Query("to"); value != "" {
		if query.To, err = h.parseDate("to", value, true); err != nil {
			return err
		}
	}
	if query.Types, err = parseTypes(c.Query("type")); err != nil {
		return err
	}
	if query.CategoryIDs, err = parseIDs("categoryIds", c.Query("categoryIds")); err != nil {
		return err
	}
	if query.WalletIDs, err = parseIDs("walletIds", c.Query("walletIds")); err != nil {
		return err
	}

	txs, err := h.ledger.ListTransactions(c.UserContext(), userID, query)
	if err != nil {
		return err
	}

	return c.JSON(TransactionsResponse{Transactions: txs, Total: len(txs)})
}

func (h *Handler) Today(c *fiber.Ctx) error {
	return h.currentStatistic(c, h.statistic.Today)
}

func (h *Handler) ThisWeek(c *fiber.Ctx) error {
	return h.currentStatistic(c, h.statistic.ThisWeek)
}

func (h *Handler) ThisMonth(c *fiber.Ctx) error {
	return h.currentStatistic(c, h.statistic.ThisMonth)
}

func (h *Handler) ThisQuarter(c *fiber.Ctx) error {
	return h.currentStatistic(c, h.statistic.ThisQuarter)
}

func (h *Handler) ThisYear(c *fiber.Ctx) error {
	return h.currentStatistic(c, h.statistic.ThisYear)
}

func (h *Handler) currentStatistic(c *fiber.Ctx,
	get func(context.Context, int64, service.StatisticFilter) (service.PeriodStatistic, error)) error {
	userID, filter, err := h.statisticQuery(c)
	if err != nil {
		return err
	}

	stat, err := get(c.UserContext(), userID, filter)
	if err != nil {
		return err
	}

	return c.JSON(newStatisticResponse(stat))
}

func (h *Handler) ByDay(c *fiber.Ctx) error {
	userID, filter, err := h.statisticQuery(c)
	if err != nil {
		return err
	}

	from, to, err := h.dateRange(c)
	if err != nil {
		return err
	}

	stats, err := h.statistic.ByDay(c.UserContext(), userID, from, to, filter)
	if err != nil {
		return err
	}

	return c.JSON(newStatisticsResponse(stats))
}

func (h *Handler) ByMonth(c *fiber.Ctx) error {
	userID, filter, err := h.statisticQuery(c)
	if err != nil {
		return err
	}

	year, err := parseYear("year", c.Query("year"), time.Now().In(h.location).Year())
	if err != nil {
		return err
	}

	stats, err := h.statistic.ByMonth(c.UserContext(), userID, year, filter)
	if err != nil {
		return err
	}

	return c.JSON(newStatisticsResponse(stats))
}

func (h *Handler) ByYear(c *fiber.Ctx) error {
	userID, filter, err := h.statisticQuery(c)
	if err != nil {
		return err
	}

	current := time.Now().In(h.location).Year()
	fromYear, err := parseYear("from", c.Query("from"), current)
	if err != nil {
		return err
	}
	toYear, err := parseYear("to", c.Query("to"), current)
	if err != nil {
		return err
	}

	stats, err := h.statistic.ByYear(c.UserContext(), userID, fromYear, toYear, filter)
	if err != nil {
		return err
	}

	return c.JSON(newStatisticsResponse(stats))
}

func (h *Handler) CustomRange(c *fiber.Ctx) error {
	userID, filter, err := h.statisticQuery(c)
	if err != nil {
		return err
	}

	from, to, err := h.dateRange(c)
	if err != nil {
		return err
	}

	stat, err := h.statistic.CustomRange(c.UserContext(), userID, from, to, filter)
	if err != nil {
		return err
	}

	return c.JSON(newStatisticResponse(stat))
}

func (h *Handler) SyncBatch(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var request SyncRequest
	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse sync body", zap.Int64("userID", userID), zap.Error(err))
		return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	result, err := h.sync.SyncBatch(c.UserContext(), userID, request.command())
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *Handler) ChangesSince(c *fiber.Ctx) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var since time.Time
	if value := c.Query("since"); value != "" {
		if since, err = h.parseDate("since", value, false); err != nil {
			return err
		}
	}

	result, err := h.sync.GetChangesSince(c.UserContext(), userID, since)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *Handler) created(c *fiber.Ctx, result service.TransactionResult, err error) error {
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newTransactionResponse(result))
}

func (h *Handler) updated(c *fiber.Ctx, result service.TransactionResult, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(newTransactionResponse(result))
}

func (h *Handler) userID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Get(userHeader), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewServiceError(constants.ErrCodeMissingUser, ErrMissingUser)
	}
	return id, nil
}

func (h *Handler) userAndID(c *fiber.Ctx) (int64, int64, error) {
	userID, err := h.userID(c)
	if err != nil {
		return 0, 0, err
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, invalidParam("id", err)
	}

	return userID, id, nil
}

func (h *Handler) statisticQuery(c *fiber.Ctx) (int64, service.StatisticFilter, error) {
	userID, err := h.userID(c)
	if err != nil {
		return 0, service.StatisticFilter{}, err
	}

	var filter service.StatisticFilter
	if filter.CategoryIDs, err = parseIDs("categoryIds", c.Query("categoryIds")); err != nil {
		return 0, service.StatisticFilter{}, err
	}
	if filter.WalletIDs, err = parseIDs("walletIds", c.Query("walletIds")); err != nil {
		return 0, service.StatisticFilter{}, err
	}

	return userID, filter, nil
}

// dateRange reads the inclusive from/to day pair of the range statistic endpoints.
func (h *Handler) dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := h.parseDate("from", c.Query("from"), false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := h.parseDate("to", c.Query("to"), false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
