package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/constants"
	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionRemoved = "transaction.removed"
)

const (
	maxDaysPerQuery  = 366
	maxYearsPerQuery = 50
)

// StatisticDispatcher receives committed transaction changes. Implementations update the statistic
// cache directly or hand the change to a worker.
type StatisticDispatcher interface {
	TransactionCreated(ctx context.Context, tx *model.GeneralTransaction) error
	TransactionRemoved(ctx context.Context, tx *model.GeneralTransaction) error
}

// Reportable reports whether tx contributes to statistics.
func Reportable(tx *model.GeneralTransaction) bool {
	return tx.Type.Categorized() && !tx.NotAddToReport
}

type StatisticService interface {
	StatisticDispatcher

	Today(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error)
	ThisWeek(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error)
	ThisMonth(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error)
	ThisQuarter(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error)
	ThisYear(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error)
	ByDay(ctx context.Context, userID int64, from, to time.Time, filter StatisticFilter) ([]PeriodStatistic, error)
	ByMonth(ctx context.Context, userID int64, year int, filter StatisticFilter) ([]PeriodStatistic, error)
	ByYear(ctx context.Context, userID int64, fromYear, toYear int, filter StatisticFilter) ([]PeriodStatistic, error)
	CustomRange(ctx context.Context, userID int64, from, to time.Time, filter StatisticFilter) (PeriodStatistic, error)
}

type StatisticOptions struct {
	// Location is the timezone periods are computed in. Nil means UTC.
	Location *time.Location
	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

type statistic struct {
	transactions repository.GeneralTransactionRepository
	categories   repository.CategoryRepository
	cache        cache.Cache
	location     *time.Location
	clock        func() time.Time
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewStatisticService(transactions repository.GeneralTransactionRepository, categories repository.CategoryRepository,
	statisticCache cache.Cache, opts StatisticOptions, metrics *metrics.Metrics, logger *zap.Logger) StatisticService {
	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &statistic{
		transactions: transactions,
		categories:   categories,
		cache:        statisticCache,
		location:     location,
		clock:        clock,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *statistic) Today(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error) {
	return s.current(ctx, userID, PeriodDay, filter)
}

func (s *statistic) ThisWeek(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error) {
	return s.current(ctx, userID, PeriodWeek, filter)
}

func (s *statistic) ThisMonth(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error) {
	return s.current(ctx, userID, PeriodMonth, filter)
}

func (s *statistic) ThisQuarter(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error) {
	return s.current(ctx, userID, PeriodQuarter, filter)
}

func (s *statistic) ThisYear(ctx context.Context, userID int64, filter StatisticFilter) (PeriodStatistic, error) {
	return s.current(ctx, userID, PeriodYear, filter)
}

func (s *statistic) ByDay(ctx context.Context, userID int64, from, to time.Time, filter StatisticFilter) (
	[]PeriodStatistic, error) {
	from, to = from.In(s.location), to.In(s.location)
	if to.Before(from) || to.Sub(from) > maxDaysPerQuery*24*time.Hour {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidRange)
	}

	return s.periods(ctx, userID, DaysBetween(from, to), filter)
}

func (s *statistic) ByMonth(ctx context.Context, userID int64, year int, filter StatisticFilter) (
	[]PeriodStatistic, error) {
	return s.periods(ctx, userID, MonthsOf(year, s.location), filter)
}

func (s *statistic) ByYear(ctx context.Context, userID int64, fromYear, toYear int, filter StatisticFilter) (
	[]PeriodStatistic, error) {
	if toYear < fromYear || toYear-fromYear >= maxYearsPerQuery {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidRange)
	}

	return s.periods(ctx, userID, YearsBetween(fromYear, toYear, s.location), filter)
}

// CustomRange always recomputes. Arbitrary ranges are never cached.
func (s *statistic) CustomRange(ctx context.Context, userID int64, from, to time.Time, filter StatisticFilter) (
	PeriodStatistic, error) {
	if to.Before(from) {
		return PeriodStatistic{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidRange)
	}

	period := CustomPeriod(from.In(s.location), to.In(s.location))
	s.record(period.Kind, "bypass")

	data, err := s.compute(ctx, userID, period, filter)
	if err != nil {
		return PeriodStatistic{}, err
	}

	return PeriodStatistic{Period: period, Data: data}, nil
}

func (s *statistic) TransactionCreated(ctx context.Context, tx *model.GeneralTransaction) error {
	return s.update(ctx, tx, false)
}

func (s *statistic) TransactionRemoved(ctx context.Context, tx *model.GeneralTransaction) error {
	return s.update(ctx, tx, true)
}

func (s *statistic) current(ctx context.Context, userID int64, kind PeriodKind, filter StatisticFilter) (
	PeriodStatistic, error) {
	period := PeriodOf(kind, s.clock().In(s.location))
	return s.period(ctx, userID, period, filter)
}

func (s *statistic) periods(ctx context.Context, userID int64, periods []Period, filter StatisticFilter) (
	[]PeriodStatistic, error) {
	results := make([]PeriodStatistic, 0, len(periods))
	for _, period := range periods {
		result, err := s.period(ctx, userID, period, filter)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// period serves an unfiltered query from the cache, computing and storing it on a miss. Filtered
// queries skip the cache entirely since entries hold the whole-user view only.
func (s *statistic) period(ctx context.Context, userID int64, period Period, filter StatisticFilter) (
	PeriodStatistic, error) {
	if !filter.Empty() {
		s.record(period.Kind, "bypass")

		data, err := s.compute(ctx, userID, period, filter)
		if err != nil {
			return PeriodStatistic{}, err
		}
		return PeriodStatistic{Period: period, Data: data}, nil
	}

	key := statisticKey(userID, period)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var data model.StatisticData
		if err := json.Unmarshal(raw, &data); err == nil {
			s.record(period.Kind, "hit")
			return PeriodStatistic{Period: period, Data: data}, nil
		}
		s.logger.Warn("Discarding unreadable statistic entry", zap.String("key", key), zap.Error(err))
		s.record(period.Kind, "error")

	case errors.Is(err, cache.ErrCacheMiss):
		s.record(period.Kind, "miss")

	default:
		s.logger.Warn("Statistic cache read failed", zap.String("key", key), zap.Error(err))
		s.record(period.Kind, "error")
	}

	data, err := s.compute(ctx, userID, period, filter)
	if err != nil {
		return PeriodStatistic{}, err
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("Failed to encode statistic entry", zap.String("key", key), zap.Error(err))
		return PeriodStatistic{Period: period, Data: data}, nil
	}

	if err := s.cache.Set(ctx, key, encoded, period.TTL(s.clock())); err != nil {
		s.logger.Warn("Statistic cache write failed", zap.String("key", key), zap.Error(err))
	}

	return PeriodStatistic{Period: period, Data: data}, nil
}

func (s *statistic) compute(ctx context.Context, userID int64, period Period, filter StatisticFilter) (
	model.StatisticData, error) {
	tree, err := s.categoryTree(ctx, userID)
	if err != nil {
		return model.StatisticData{}, err
	}

	txFilter := repository.TransactionFilter{WalletIDs: filter.WalletIDs}
	if len(filter.CategoryIDs) > 0 {
		txFilter.CategoryIDs = tree.expand(filter.CategoryIDs)
	}

	sums, err := s.transactions.SumByCategory(ctx, userID, period.Start, period.End, txFilter)
	if err != nil {
		s.logger.Error("Failed to aggregate transactions",
			zap.Int64("userID", userID),
			zap.String("period", period.Key),
			zap.Error(err))
		return model.StatisticData{}, NewServiceError(constants.ErrCodeStorageError, err)
	}

	data := model.NewStatisticData()
	for _, sum := range sums {
		var bucket *int64
		if sum.CategoryID != nil {
			root := tree.root(*sum.CategoryID)
			bucket = &root
		}
		accumulate(&data, sum.Type, bucket, sum.Total)
	}

	return data, nil
}

// update folds one committed change into every cached period containing its date. Periods that are
// not cached are skipped; the next read computes them from the store. An entry the change cannot
// be applied to, or whose read or write fails, is dropped instead, so a change is never folded twice
// and update never asks for redelivery.
func (s *statistic) update(ctx context.Context, tx *model.GeneralTransaction, removal bool) error {
	if !Reportable(tx) {
		return nil
	}

	amount := tx.Amount
	if removal {
		amount = amount.Neg()
	}

	date := tx.TransactionDate.In(s.location)

	var (
		tree    *categoryTree
		treeErr error
	)

	for _, kind := range cachedKinds {
		period := PeriodOf(kind, date)
		key := statisticKey(tx.UserID, period)

		raw, err := s.cache.Get(ctx, key)
		if errors.Is(err, cache.ErrCacheMiss) {
			s.recordUpdate(kind, "skipped")
			continue
		}
		if err != nil {
			s.dropUnapplied(ctx, kind, key, fmt.Errorf("read: %w", err))
			continue
		}

		var data model.StatisticData
		if err := json.Unmarshal(raw, &data); err != nil {
			s.invalidate(ctx, kind, key)
			continue
		}

		var bucket *int64
		if tx.CategoryID != nil {
			if tree == nil && treeErr == nil {
				loaded, err := s.categoryTree(ctx, tx.UserID)
				if err != nil {
					treeErr = err
				} else {
					tree = &loaded
				}
			}
			if treeErr != nil {
				s.dropUnapplied(ctx, kind, key, treeErr)
				continue
			}
			root := tree.root(*tx.CategoryID)
			bucket = &root
		}

		if !accumulate(&data, tx.Type, bucket, amount) {
			s.invalidate(ctx, kind, key)
			continue
		}

		encoded, err := json.Marshal(data)
		if err != nil {
			s.dropUnapplied(ctx, kind, key, err)
			continue
		}

		replaced, err := s.cache.Replace(ctx, key, encoded)
		if err != nil {
			s.dropUnapplied(ctx, kind, key, fmt.Errorf("write: %w", err))
			continue
		}
		if !replaced {
			s.recordUpdate(kind, "skipped")
			continue
		}

		s.recordUpdate(kind, "updated")
	}

	s.logger.Debug("Statistic cache updated",
		zap.Int64("transactionID", tx.ID),
		zap.Int64("userID", tx.UserID),
		zap.Bool("removal", removal))

	return nil
}

// dropUnapplied removes an entry the change could not be folded into.
func (s *statistic) dropUnapplied(ctx context.Context, kind PeriodKind, key string, cause error) {
	s.logger.Warn("Statistic entry not updated, dropping it",
		zap.String("key", key),
		zap.Error(cause))
	s.recordUpdate(kind, "error")
	s.invalidate(ctx, kind, key)
}

func (s *statistic) invalidate(ctx context.Context, kind PeriodKind, key string) {
	s.recordUpdate(kind, "invalidated")
	if err := s.cache.Del(ctx, key); err != nil {
		s.logger.Warn("Failed to drop statistic entry", zap.String("key", key), zap.Error(err))
	}
}

func (s *statistic) categoryTree(ctx context.Context, userID int64) (categoryTree, error) {
	categories, err := s.categories.FindAllByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load categories", zap.Int64("userID", userID), zap.Error(err))
		return categoryTree{}, NewServiceError(constants.ErrCodeStorageError, err)
	}
	return newCategoryTree(categories), nil
}

func (s *statistic) record(kind PeriodKind, result string) {
	if s.metrics != nil {
		s.metrics.RecordStatisticRequest(string(kind), result)
	}
}

func (s *statistic) recordUpdate(kind PeriodKind, result string) {
	if s.metrics != nil {
		s.metrics.RecordStatisticCacheUpdate(string(kind), result)
	}
}

func statisticKey(userID int64, period Period) string {
	return fmt.Sprintf("statistic:%d:%s:%s", userID, period.Kind, period.Key)
}

// accumulate adds a signed amount of txType to data, into bucket when it is not nil. It reports
// false when a negative amount would take a total or bucket below zero, which means data did not
// contain the contribution being removed.
func accumulate(data *model.StatisticData, txType model.TransactionType, bucket *int64, amount decimal.Decimal) bool {
	ok := true

	switch txType {
	case model.TransactionTypeIncome:
		data.TotalIncome = data.TotalIncome.Add(amount)
		ok = !data.TotalIncome.IsNegative()
		if bucket != nil {
			var bucketOK bool
			data.ByCategoryIncome, bucketOK = addToBucket(data.ByCategoryIncome, *bucket, amount)
			ok = ok && bucketOK
		}

	case model.TransactionTypeExpense:
		data.TotalExpense = data.TotalExpense.Add(amount)
		ok = !data.TotalExpense.IsNegative()
		if bucket != nil {
			var bucketOK bool
			data.ByCategoryExpense, bucketOK = addToBucket(data.ByCategoryExpense, *bucket, amount)
			ok = ok && bucketOK
		}

	default:
		return true
	}

	data.TotalBalance = data.TotalIncome.Sub(data.TotalExpense)
	return ok
}

// addToBucket keeps buckets sorted by category id and without zero entries.
func addToBucket(buckets []model.CategoryAmount, categoryID int64, amount decimal.Decimal) (
	[]model.CategoryAmount, bool) {
	for i := range buckets {
		if buckets[i].CategoryID != categoryID {
			continue
		}

		total := buckets[i].Amount.Add(amount)
		if total.IsZero() {
			return append(buckets[:i], buckets[i+1:]...), true
		}
		buckets[i].Amount = total
		return buckets, !total.IsNegative()
	}

	if amount.IsZero() {
		return buckets, true
	}
	if amount.IsNegative() {
		return buckets, false
	}

	buckets = append(buckets, model.CategoryAmount{CategoryID: categoryID, Amount: amount})
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].CategoryID < buckets[j].CategoryID })
	return buckets, true
}

// categoryTree resolves root categories and descendants of one user's categories, deleted ones
// included.
type categoryTree struct {
	parent   map[int64]int64
	children map[int64][]int64
}

func newCategoryTree(categories []model.Category) categoryTree {
	tree := categoryTree{
		parent:   make(map[int64]int64, len(categories)),
		children: make(map[int64][]int64, len(categories)),
	}

	for _, category := range categories {
		if category.ParentID == nil || *category.ParentID == category.ID {
			continue
		}
		tree.parent[category.ID] = *category.ParentID
		tree.children[*category.ParentID] = append(tree.children[*category.ParentID], category.ID)
	}

	return tree
}

// root walks up to the top-level ancestor. A cycle stops the walk at the last unvisited category.
func (t categoryTree) root(id int64) int64 {
	visited := map[int64]bool{id: true}
	current := id
	for {
		parent, ok := t.parent[current]
		if !ok || visited[parent] {
			return current
		}
		visited[parent] = true
		current = parent
	}
}

// expand returns ids plus all of their descendants.
func (t categoryTree) expand(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	queue := append([]int64(nil), ids...)
	var expanded []int64

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		expanded = append(expanded, id)
		queue = append(queue, t.children[id]...)
	}

	return expanded
}
