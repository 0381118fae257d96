package mocks

import (
	"context"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
	"github.com/stretchr/testify/mock"
)

type StatisticDispatcher struct {
	mock.Mock
}

func (s *StatisticDispatcher) TransactionCreated(ctx context.Context, tx *model.GeneralTransaction) error {
	args := s.Called(ctx, tx)
	return args.Error(0)
}

func (s *StatisticDispatcher) TransactionRemoved(ctx context.Context, tx *model.GeneralTransaction) error {
	args := s.Called(ctx, tx)
	return args.Error(0)
}

type LedgerService struct {
	mock.Mock
}

func (l *LedgerService) CreateIncome(ctx context.Context, userID int64, cmd service.CreateCategorizedCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateExpense(ctx context.Context, userID int64, cmd service.CreateCategorizedCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateTransfer(ctx context.Context, userID int64, cmd service.CreateTransferCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateLend(ctx context.Context, userID int64, cmd service.CreateLendCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateBorrow(ctx context.Context, userID int64, cmd service.CreateBorrowCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateModifyBalance(ctx context.Context, userID int64, cmd service.CreateModifyBalanceCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateCollectingDebt(ctx context.Context, userID int64, cmd service.CreateCollectingDebtCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) CreateRepayment(ctx context.Context, userID int64, cmd service.CreateRepaymentCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) UpdateIncome(ctx context.Context, userID, id int64, cmd service.CreateCategorizedCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, id, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) UpdateExpense(ctx context.Context, userID, id int64, cmd service.CreateCategorizedCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, id, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) UpdateTransfer(ctx context.Context, userID, id int64, cmd service.CreateTransferCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, id, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) UpdateLend(ctx context.Context, userID, id int64, cmd service.CreateLendCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, id, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) UpdateBorrow(ctx context.Context, userID, id int64, cmd service.CreateBorrowCommand) (
	service.TransactionResult, error) {
	args := l.Called(ctx, userID, id, cmd)
	return args.Get(0).(service.TransactionResult), args.Error(1)
}

func (l *LedgerService) RemoveTransaction(ctx context.Context, userID, id int64) error {
	args := l.Called(ctx, userID, id)
	return args.Error(0)
}

func (l *LedgerService) ListTransactions(ctx context.Context, userID int64, query service.ListTransactionsQuery) (
	[]model.GeneralTransaction, error) {
	args := l.Called(ctx, userID, query)
	txs, _ := args.Get(0).([]model.GeneralTransaction)
	return txs, args.Error(1)
}

type StatisticService struct {
	StatisticDispatcher
}

func (s *StatisticService) Today(ctx context.Context, userID int64, filter service.StatisticFilter) (
	service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, filter)
	return args.Get(0).(service.PeriodStatistic), args.Error(1)
}

func (s *StatisticService) ThisWeek(ctx context.Context, userID int64, filter service.StatisticFilter) (
	service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, filter)
	return args.Get(0).(service.PeriodStatistic), args.Error(1)
}

func (s *StatisticService) ThisMonth(ctx context.Context, userID int64, filter service.StatisticFilter) (
	service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, filter)
	return args.Get(0).(service.PeriodStatistic), args.Error(1)
}

func (s *StatisticService) ThisQuarter(ctx context.Context, userID int64, filter service.StatisticFilter) (
	service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, filter)
	return args.Get(0).(service.PeriodStatistic), args.Error(1)
}

func (s *StatisticService) ThisYear(ctx context.Context, userID int64, filter service.StatisticFilter) (
	service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, filter)
	return args.Get(0).(service.PeriodStatistic), args.Error(1)
}

func (s *StatisticService) ByDay(ctx context.Context, userID int64, from, to time.Time,
	filter service.StatisticFilter) ([]service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, from, to, filter)
	stats, _ := args.Get(0).([]service.PeriodStatistic)
	return stats, args.Error(1)
}

func (s *StatisticService) ByMonth(ctx context.Context, userID int64, year int, filter service.StatisticFilter) (
	[]service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, year, filter)
	stats, _ := args.Get(0).([]service.PeriodStatistic)
	return stats, args.Error(1)
}

func (s *StatisticService) ByYear(ctx context.Context, userID int64, fromYear, toYear int,
	filter service.StatisticFilter) ([]service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, fromYear, toYear, filter)
	stats, _ := args.Get(0).([]service.PeriodStatistic)
	return stats, args.Error(1)
}

func (s *StatisticService) CustomRange(ctx context.Context, userID int64, from, to time.Time,
	filter service.StatisticFilter) (service.PeriodStatistic, error) {
	args := s.Called(ctx, userID, from, to, filter)
	return args.Get(0).(service.PeriodStatistic), args.Error(1)
}

type SyncService struct {
	mock.Mock
}

func (s *SyncService) SyncBatch(ctx context.Context, userID int64, cmd service.SyncBatchCommand) (
	service.SyncBatchResult, error) {
	args := s.Called(ctx, userID, cmd)
	return args.Get(0).(service.SyncBatchResult), args.Error(1)
}

func (s *SyncService) GetChangesSince(ctx context.Context, userID int64, since time.Time) (service.ChangesResult, error) {
	args := s.Called(ctx, userID, since)
	return args.Get(0).(service.ChangesResult), args.Error(1)
}
