package models

import (
	"time"
)

type StandupResponse struct {
	ID          string    `db:"id"           json:"id"`
	TeamID      string    `db:"team_id"      json:"team_id"`
	UserID      string    `db:"user_id"      json:"user_id"`
	StandupDate time.Time `db:"standup_date" json:"standup_date"`
	Yesterday   string    `db:"yesterday"    json:"yesterday"`
	Today       string    `db:"today"        json:"today"`
	Blockers    string    `db:"blockers"     json:"blockers"`
	IsLate      bool      `db:"is_late"      json:"is_late"`
	SubmittedAt time.Time `db:"submitted_at" json:"submitted_at"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

type ResponsePayload struct {
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

type ResponseSaveStatus string

const (
	ResponseSaveStatusCreated ResponseSaveStatus = "CREATED"
	ResponseSaveStatusUpdated ResponseSaveStatus = "UPDATED"
)

type StoredResponse struct {
	Response *StandupResponse   `json:"response"`
	Status   ResponseSaveStatus `json:"status"`
}
