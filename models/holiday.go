package models

import (
	"time"
)

type Holiday struct {
	ID        string    `db:"id"           json:"id"`
	Date      time.Time `db:"holiday_date" json:"date"`
	Country   string    `db:"country"      json:"country"`
	Name      string    `db:"name"         json:"name"`
	CreatedAt time.Time `db:"created_at"   json:"created_at"`
}
