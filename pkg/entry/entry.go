package entry

import "time"

// Entry is a single logged occurrence. Timestamp is the semantic occurrence
// time (it may be backdated by the user) and is the only field used for
// bucketing and ordering; CreatedAt/UpdatedAt are record-management metadata.
type Entry struct {
	ID          string
	Timestamp   time.Time
	Notes       *string
	DisplayTime *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEntry is the caller-facing input for creating an entry. A nil Timestamp
// means "now".
type NewEntry struct {
	Timestamp   *time.Time
	Notes       *string
	DisplayTime *string
}

// EntryUpdate carries the fields of a partial update. Nil pointers are left
// unchanged; UpdatedAt is always stamped by the service.
type EntryUpdate struct {
	Timestamp   *time.Time
	Notes       *string
	DisplayTime *string
	UpdatedAt   time.Time
}

// DayOf returns the local-calendar midnight starting the day t falls in.
// A timestamp of exactly midnight belongs to the starting day.
func DayOf(t time.Time) time.Time {
	year, month, day := t.In(time.Local).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
