package models

import (
	"time"
)

type StandupPost struct {
	ID          string    `db:"id"           json:"id"`
	TeamID      string    `db:"team_id"      json:"team_id"`
	StandupDate time.Time `db:"standup_date" json:"standup_date"`
	MessageRef  string    `db:"message_ref"  json:"message_ref"`
	ChannelRef  string    `db:"channel_ref"  json:"channel_ref"`
	PostedAt    time.Time `db:"posted_at"    json:"posted_at"`
}

// TeamDayStatus is derived from row presence for a (team, date); it is never stored
type TeamDayStatus string

const (
	TeamDayStatusPending        TeamDayStatus = "PENDING"
	TeamDayStatusCollecting     TeamDayStatus = "COLLECTING"
	TeamDayStatusPosted         TeamDayStatus = "POSTED"
	TeamDayStatusPostedWithLate TeamDayStatus = "POSTED_WITH_LATE"
)

// DispatchResult aggregates a best-effort fan-out
type DispatchResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (r DispatchResult) Add(other DispatchResult) DispatchResult {
	return DispatchResult{
		Sent:    r.Sent + other.Sent,
		Failed:  r.Failed + other.Failed,
		Skipped: r.Skipped + other.Skipped,
	}
}
