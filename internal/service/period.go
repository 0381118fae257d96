package service

import (
	"fmt"
	"time"
)

type PeriodKind string

const (
	PeriodDay     PeriodKind = "day"
	PeriodWeek    PeriodKind = "week"
	PeriodMonth   PeriodKind = "month"
	PeriodQuarter PeriodKind = "quarter"
	PeriodYear    PeriodKind = "year"
	PeriodCustom  PeriodKind = "custom"
)

// cachedKinds are the granularities kept in the statistic cache, finest first.
var cachedKinds = []PeriodKind{PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}

const todayTTL = time.Hour

var periodTTL = map[PeriodKind]time.Duration{
	PeriodDay:     24 * time.Hour,
	PeriodWeek:    7 * 24 * time.Hour,
	PeriodMonth:   30 * 24 * time.Hour,
	PeriodQuarter: 90 * 24 * time.Hour,
	PeriodYear:    365 * 24 * time.Hour,
}

// Period is the half-open range [Start, End) of one calendar bucket.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Key   string     `json:"key"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// PeriodOf returns the period of kind containing t, computed in t's location. Weeks are ISO weeks
// starting on Monday.
func PeriodOf(kind PeriodKind, t time.Time) Period {
	loc := t.Location()
	year, month, day := t.Date()

	switch kind {
	case PeriodWeek:
		offset := (int(t.Weekday()) + 6) % 7
		start := time.Date(year, month, day-offset, 0, 0, 0, 0, loc)
		isoYear, isoWeek := start.ISOWeek()
		return Period{
			Kind:  kind,
			Key:   fmt.Sprintf("%04d-W%02d", isoYear, isoWeek),
			Start: start,
			End:   start.AddDate(0, 0, 7),
		}

	case PeriodMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return Period{Kind: kind, Key: start.Format("2006-01"), Start: start, End: start.AddDate(0, 1, 0)}

	case PeriodQuarter:
		quarter := (int(month)-1)/3 + 1
		start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, loc)
		return Period{
			Kind:  kind,
			Key:   fmt.Sprintf("%04d-Q%d", year, quarter),
			Start: start,
			End:   start.AddDate(0, 3, 0),
		}

	case PeriodYear:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return Period{Kind: kind, Key: fmt.Sprintf("%04d", year), Start: start, End: start.AddDate(1, 0, 0)}
	}

	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return Period{Kind: PeriodDay, Key: start.Format("2006-01-02"), Start: start, End: start.AddDate(0, 0, 1)}
}

// CustomPeriod covers whole days from the day of from through the day of to, inclusive.
func CustomPeriod(from, to time.Time) Period {
	start := PeriodOf(PeriodDay, from).Start
	end := PeriodOf(PeriodDay, to).End
	return Period{
		Kind:  PeriodCustom,
		Key:   start.Format("2006-01-02") + "_" + end.AddDate(0, 0, -1).Format("2006-01-02"),
		Start: start,
		End:   end,
	}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// TTL is the cache lifetime of the period's entry. The current day is cached for an hour only.
func (p Period) TTL(now time.Time) time.Duration {
	if p.Kind == PeriodDay && p.Contains(now) {
		return todayTTL
	}
	return periodTTL[p.Kind]
}

// DaysBetween lists the day periods from the day of from through the day of to.
func DaysBetween(from, to time.Time) []Period {
	var periods []Period
	for day := PeriodOf(PeriodDay, from); !day.Start.After(to); day = PeriodOf(PeriodDay, day.End) {
		periods = append(periods, day)
	}
	return periods
}

func MonthsOf(year int, loc *time.Location) []Period {
	periods := make([]Period, 0, 12)
	for month := time.January; month <= time.December; month++ {
		periods = append(periods, PeriodOf(PeriodMonth, time.Date(year, month, 1, 0, 0, 0, 0, loc)))
	}
	return periods
}

func YearsBetween(fromYear, toYear int, loc *time.Location) []Period {
	var periods []Period
	for year := fromYear; year <= toYear; year++ {
		periods = append(periods, PeriodOf(PeriodYear, time.Date(year, time.January, 1, 0, 0, 0, 0, loc)))
	}
	return periods
}
