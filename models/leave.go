package models

import (
	"time"
)

type Leave struct {
	ID        string    `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"user_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date"   json:"end_date"`
	Reason    string    `db:"reason"     json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the inclusive leave interval contains the calendar date
func (l *Leave) Covers(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}
