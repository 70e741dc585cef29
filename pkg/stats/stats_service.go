package stats

import (
	"time"

	"github.com/taplog/taplog/internal/utils"
	"github.com/taplog/taplog/pkg/entry"
	"github.com/taplog/taplog/pkg/settings"
)

// Service computes time-bucketed aggregates from the entry cache and the
// current settings snapshot. It keeps no state of its own and caches no
// results; every call recomputes from the cache as it is right now. Cost is
// always count times the cost per unit in effect at computation time, not the
// value in effect when an entry was logged.
type Service interface {
	GetDailyStats(date time.Time) DailyStats
	GetWeeklyStats(dateInWeek time.Time) WeeklyStats
	GetMonthlyStats(year int, month time.Month) MonthlyStats
	GetSummaryStats() SummaryStats
	GetStreak() int
}

type ServiceImpl struct {
	cache    *entry.Cache
	settings settings.SnapshotProvider
	clock    utils.Clock
}

func NewService(cache *entry.Cache, settings settings.SnapshotProvider, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{cache: cache, settings: settings, clock: clock}
}

func (s *ServiceImpl) GetDailyStats(date time.Time) DailyStats {
	return s.dailyStats(date, s.settings.Snapshot().CostPerUnit)
}

// GetWeeklyStats returns the stats of the week containing the given date.
// Weeks start on Sunday and always contain exactly 7 daily buckets.
func (s *ServiceImpl) GetWeeklyStats(dateInWeek time.Time) WeeklyStats {
	return s.weeklyStats(weekStart(dateInWeek), s.settings.Snapshot().CostPerUnit)
}

// GetMonthlyStats returns one daily bucket per calendar day of the month plus
// the weekly breakdowns of the weeks whose start date falls inside the month.
func (s *ServiceImpl) GetMonthlyStats(year int, month time.Month) MonthlyStats {
	costPerUnit := s.settings.Snapshot().CostPerUnit

	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	dayCount := daysInMonth(year, month)

	days := make([]DailyStats, 0, dayCount)
	total := 0
	for i := 0; i < dayCount; i++ {
		daily := s.dailyStats(firstDay.AddDate(0, 0, i), costPerUnit)
		total += daily.Total
		days = append(days, daily)
	}

	weeks := make([]WeeklyStats, 0, 5)
	for i := 0; i < dayCount; i++ {
		day := firstDay.AddDate(0, 0, i)
		if day.Weekday() == time.Sunday {
			weeks = append(weeks, s.weeklyStats(day, costPerUnit))
		}
	}

	return MonthlyStats{
		Year:    year,
		Month:   month,
		Total:   total,
		Cost:    cost(total, costPerUnit),
		Average: float64(total) / float64(dayCount),
		Days:    days,
		Weeks:   weeks,
	}
}

// GetSummaryStats aggregates every cached entry. With zero entries it returns
// explicit zeros and nil dates rather than dividing by zero.
func (s *ServiceImpl) GetSummaryStats() SummaryStats {
	firstEntry, lastEntry, ok := s.cache.FirstAndLast()
	if !ok {
		return SummaryStats{}
	}

	total := s.cache.Len()
	costPerUnit := s.settings.Snapshot().CostPerUnit
	first := firstEntry.Timestamp
	last := lastEntry.Timestamp

	// Days from the first log's local date through today, inclusive. Counted
	// on calendar dates, not elapsed hours, so a DST-shortened day still
	// counts as a full day. A first log in the future still counts as one day.
	daySpan := calendarDaysBetween(first, s.clock.Now()) + 1
	if daySpan < 1 {
		daySpan = 1
	}

	return SummaryStats{
		TotalLogs:     total,
		TotalCost:     cost(total, costPerUnit),
		AveragePerDay: float64(total) / float64(daySpan),
		FirstLogDate:  &first,
		LastLogDate:   &last,
	}
}

// GetStreak counts consecutive populated days ending at or before today. An
// empty today does not break a streak counted from yesterday backward.
func (s *ServiceImpl) GetStreak() int {
	day := entry.DayOf(s.clock.Now())
	if s.cache.CountByDate(day) == 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for s.cache.CountByDate(day) > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (s *ServiceImpl) dailyStats(date time.Time, costPerUnit float64) DailyStats {
	total := s.cache.CountByDate(date)
	return DailyStats{
		Date:  entry.DayOf(date),
		Total: total,
		Cost:  cost(total, costPerUnit),
	}
}

func (s *ServiceImpl) weeklyStats(startDate time.Time, costPerUnit float64) WeeklyStats {
	days := make([]DailyStats, 0, 7)
	total := 0
	for i := 0; i < 7; i++ {
		daily := s.dailyStats(startDate.AddDate(0, 0, i), costPerUnit)
		total += daily.Total
		days = append(days, daily)
	}

	return WeeklyStats{
		StartDate: startDate,
		EndDate:   startDate.AddDate(0, 0, 6),
		Total:     total,
		Cost:      cost(total, costPerUnit),
		Average:   float64(total) / 7,
		Days:      days,
	}
}

// weekStart returns the Sunday starting the week containing the given time.
func weekStart(t time.Time) time.Time {
	day := entry.DayOf(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// calendarDaysBetween counts the calendar days separating the local dates of
// from and to. Both dates are re-anchored in UTC so the count is unaffected by
// DST transitions in between.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func cost(total int, costPerUnit float64) float64 {
	return float64(total) * costPerUnit
}
