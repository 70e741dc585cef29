package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/taplog/taplog/internal/rest"
	"github.com/taplog/taplog/pkg/settings"
)

type DailyStatsDTO struct {
	Date  string  `json:"date"`
	Total int     `json:"total"`
	Cost  float64 `json:"cost"`
}

type WeeklyStatsDTO struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Total     int             `json:"total"`
	Cost      float64         `json:"cost"`
	Average   float64         `json:"average"`
	Days      []DailyStatsDTO `json:"days"`
}

type MonthlyStatsDTO struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Total   int              `json:"total"`
	Cost    float64          `json:"cost"`
	Average float64          `json:"average"`
	Days    []DailyStatsDTO  `json:"days"`
	Weeks   []WeeklyStatsDTO `json:"weeks"`
}

type SummaryStatsDTO struct {
	TotalLogs     int     `json:"totalLogs"`
	TotalCost     float64 `json:"totalCost"`
	AveragePerDay float64 `json:"averagePerDay"`
	FirstLogDate  *string `json:"firstLogDate"`
	LastLogDate   *string `json:"lastLogDate"`
}

type StreakDTO struct {
	Streak int `json:"streak"`
}

type StatsHandler struct {
	statsService Service
	csvRenderer  StatsRenderer
	settings     settings.SnapshotProvider
}

func NewStatsHandler(statsService Service, csvRenderer StatsRenderer, settings settings.SnapshotProvider) *StatsHandler {
	return &StatsHandler{statsService, csvRenderer, settings}
}

func (h *StatsHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	date, ok := parseDateParam(w, r, "date")
	if !ok {
		return
	}
	daily := h.statsService.GetDailyStats(date)
	if err := json.NewEncoder(w).Encode(dailyToDTO(daily)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *StatsHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	date, ok := parseDateParam(w, r, "date")
	if !ok {
		return
	}
	weekly := h.statsService.GetWeeklyStats(date)
	if err := json.NewEncoder(w).Encode(weeklyToDTO(weekly)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetMonthlyStats godoc
// @Summary Monthly statistics
// @Description Daily and weekly breakdown for one calendar month; format=csv returns an export
// @Tags Stats
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param format query string false "csv for CSV export"
// @Success 200 {object} MonthlyStatsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/stats/monthly [get]
func (h *StatsHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeBadRequest(w, "Invalid year", "year must be an integer")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeBadRequest(w, "Invalid month", "month must be an integer between 1 and 12")
		return
	}

	monthly := h.statsService.GetMonthlyStats(year, time.Month(month))

	if r.URL.Query().Get("format") == "csv" {
		rendered, err := h.csvRenderer.RenderMonthly(monthly, h.settings.Snapshot().CurrencySymbol)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=stats.csv")
		if _, err := w.Write([]byte(rendered)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(monthlyToDTO(monthly)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *StatsHandler) GetSummaryStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary := h.statsService.GetSummaryStats()
	dto := SummaryStatsDTO{
		TotalLogs:     summary.TotalLogs,
		TotalCost:     summary.TotalCost,
		AveragePerDay: summary.AveragePerDay,
	}
	if summary.FirstLogDate != nil {
		first := summary.FirstLogDate.Format(time.RFC3339)
		dto.FirstLogDate = &first
	}
	if summary.LastLogDate != nil {
		last := summary.LastLogDate.Format(time.RFC3339)
		dto.LastLogDate = &last
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *StatsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(StreakDTO{Streak: h.statsService.GetStreak()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get(name), time.Local)
	if err != nil {
		writeBadRequest(w, "Invalid "+name+" format", name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func dailyToDTO(d DailyStats) DailyStatsDTO {
	return DailyStatsDTO{
		Date:  d.Date.Format("2006-01-02"),
		Total: d.Total,
		Cost:  d.Cost,
	}
}

func weeklyToDTO(weekly WeeklyStats) WeeklyStatsDTO {
	days := make([]DailyStatsDTO, 0, len(weekly.Days))
	for _, d := range weekly.Days {
		days = append(days, dailyToDTO(d))
	}
	return WeeklyStatsDTO{
		StartDate: weekly.StartDate.Format("2006-01-02"),
		EndDate:   weekly.EndDate.Format("2006-01-02"),
		Total:     weekly.Total,
		Cost:      weekly.Cost,
		Average:   weekly.Average,
		Days:      days,
	}
}

func monthlyToDTO(monthly MonthlyStats) MonthlyStatsDTO {
	days := make([]DailyStatsDTO, 0, len(monthly.Days))
	for _, d := range monthly.Days {
		days = append(days, dailyToDTO(d))
	}
	weeks := make([]WeeklyStatsDTO, 0, len(monthly.Weeks))
	for _, week := range monthly.Weeks {
		weeks = append(weeks, weeklyToDTO(week))
	}
	return MonthlyStatsDTO{
		Year:    monthly.Year,
		Month:   int(monthly.Month),
		Total:   monthly.Total,
		Cost:    monthly.Cost,
		Average: monthly.Average,
		Days:    days,
		Weeks:   weeks,
	}
}
