package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodOf(t *testing.T) {
	at := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	tests := []struct {
		kind  PeriodKind
		key   string
		start time.Time
		end   time.Time
	}{
		{PeriodDay, "2026-03-14", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, "2026-W11", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},
		{PeriodMonth, "2026-03", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodQuarter, "2026-Q1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodYear, "2026", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			period := PeriodOf(tt.kind, at)

			assert.Equal(t, tt.kind, period.Kind)
			assert.Equal(t, tt.key, period.Key)
			assert.True(t, tt.start.Equal(period.Start), "start %s", period.Start)
			assert.True(t, tt.end.Equal(period.End), "end %s", period.End)
			assert.True(t, period.Contains(at))
		})
	}
}

func TestPeriodOf_ISOWeekAcrossYears(t *testing.T) {
	// Friday 2027-01-01 belongs to the last ISO week of 2026.
	period := PeriodOf(PeriodWeek, time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-W53", period.Key)
	assert.Equal(t, time.Monday, period.Start.Weekday())

	// Sunday closes the week that started the Monday before.
	sunday := PeriodOf(PeriodWeek, time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2026-W11", sunday.Key)
}

func TestPeriodOf_Location(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	utc := time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03", PeriodOf(PeriodMonth, utc).Key)
	assert.Equal(t, "2026-04", PeriodOf(PeriodMonth, utc.In(loc)).Key)
	assert.Equal(t, "2026-Q2", PeriodOf(PeriodQuarter, utc.In(loc)).Key)
}

func TestPeriod_TTL(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Hour, PeriodOf(PeriodDay, now).TTL(now))
	assert.Equal(t, 24*time.Hour, PeriodOf(PeriodDay, now.AddDate(0, 0, -1)).TTL(now))
	assert.Equal(t, 7*24*time.Hour, PeriodOf(PeriodWeek, now).TTL(now))
	assert.Equal(t, 30*24*time.Hour, PeriodOf(PeriodMonth, now).TTL(now))
	assert.Equal(t, 90*24*time.Hour, PeriodOf(PeriodQuarter, now).TTL(now))
	assert.Equal(t, 365*24*time.Hour, PeriodOf(PeriodYear, now).TTL(now))
}

func TestRangesOfPeriods(t *testing.T) {
	from := time.Date(2026, 2, 27, 15, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

	days := DaysBetween(from, to)
	require.Len(t, days, 4)
	assert.Equal(t, "2026-02-27", days[0].Key)
	assert.Equal(t, "2026-03-02", days[3].Key)

	assert.Empty(t, DaysBetween(to, from))

	custom := CustomPeriod(from, to)
	assert.Equal(t, PeriodCustom, custom.Kind)
	assert.Equal(t, "2026-02-27_2026-03-02", custom.Key)
	assert.True(t, custom.End.Equal(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)))

	months := MonthsOf(2026, time.UTC)
	require.Len(t, months, 12)
	assert.Equal(t, "2026-01", months[0].Key)
	assert.Equal(t, "2026-12", months[11].Key)

	years := YearsBetween(2024, 2026, time.UTC)
	require.Len(t, years, 3)
	assert.Equal(t, "2025", years[1].Key)
}
