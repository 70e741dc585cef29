package stats

import "time"

// DailyStats is the aggregate for one local calendar day.
type DailyStats struct {
	Date  time.Time
	Total int
	Cost  float64
}

// WeeklyStats covers seven contiguous days starting on Sunday. Days always
// holds exactly 7 buckets, populated or not.
type WeeklyStats struct {
	StartDate time.Time
	EndDate   time.Time
	Total     int
	Cost      float64
	Average   float64
	Days      []DailyStats
}

// MonthlyStats holds one daily bucket per calendar day of the month and the
// weekly breakdowns for the weeks starting inside the month.
type MonthlyStats struct {
	Year    int
	Month   time.Month
	Total   int
	Cost    float64
	Average float64
	Days    []DailyStats
	Weeks   []WeeklyStats
}

// SummaryStats aggregates the whole log. First/LastLogDate are nil when no
// entries exist.
type SummaryStats struct {
	TotalLogs     int
	TotalCost     float64
	AveragePerDay float64
	FirstLogDate  *time.Time
	LastLogDate   *time.Time
}
