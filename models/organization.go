package models

import (
	"time"
)

type Organization struct {
	ID              string     `db:"id"                json:"id"`
	Name            string     `db:"name"              json:"name"`
	Country         string     `db:"country"           json:"country"`
	DefaultWorkDays WorkDaySet `db:"-"                 json:"default_work_days,omitempty"`
	Active          bool       `db:"active"            json:"active"`
	CreatedAt       time.Time  `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"        json:"updated_at"`
}
