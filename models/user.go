package models

import (
	"time"
)

type User struct {
	ID          string `db:"id"           json:"id"`
	ExternalID  string `db:"external_id"  json:"external_id"`
	DisplayName string `db:"display_name" json:"display_name"`
	// WorkDays overrides the organization default when set
	WorkDays  WorkDaySet `db:"-"          json:"work_days,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
