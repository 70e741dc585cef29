package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Log entries
	r.HandleFunc("/api/log", deps.EntryHandler.AddEntry).Methods("POST")
	r.HandleFunc("/api/log/quick", deps.EntryHandler.QuickAddEntry).Methods("POST")
	r.HandleFunc("/api/log/reload", deps.EntryHandler.ReloadEntries).Methods("POST")
	r.HandleFunc("/api/log", deps.EntryHandler.GetEntries).Methods("GET")
	r.HandleFunc("/api/log/{entryId}", deps.EntryHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/log/{entryId}", deps.EntryHandler.DeleteEntry).Methods("DELETE")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.UpdateSettings).Methods("PUT")
	r.HandleFunc("/api/settings/reset", deps.SettingsHandler.ResetSettings).Methods("POST")

	// Stats
	r.HandleFunc("/api/stats/daily", deps.StatsHandler.GetDailyStats).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/stats/weekly", deps.StatsHandler.GetWeeklyStats).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/stats/monthly", deps.StatsHandler.GetMonthlyStats).Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/stats/summary", deps.StatsHandler.GetSummaryStats).Methods("GET")
	r.HandleFunc("/api/stats/streak", deps.StatsHandler.GetStreak).Methods("GET")
}
