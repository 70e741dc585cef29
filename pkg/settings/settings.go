package settings

import "time"

// SingletonID is the fixed primary key of the single settings row.
const SingletonID = "app-settings"

// Defaults used when the settings row is lazily materialized.
const (
	DefaultCostPerUnit    = 0.5
	DefaultCurrencySymbol = "$"
)

// Settings is the single mutable configuration record. Exactly one row exists
// after first access; there is no history of prior values.
type Settings struct {
	ID                   string
	CostPerUnit          float64
	CurrencySymbol       string
	DailyGoal            *int
	NotificationsEnabled bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Update carries the fields of a partial settings update; nil pointers are
// left unchanged.
type Update struct {
	CostPerUnit          *float64
	CurrencySymbol       *string
	DailyGoal            *int
	NotificationsEnabled *bool
}

func defaults(now time.Time) Settings {
	return Settings{
		ID:                   SingletonID,
		CostPerUnit:          DefaultCostPerUnit,
		CurrencySymbol:       DefaultCurrencySymbol,
		DailyGoal:            nil,
		NotificationsEnabled: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
