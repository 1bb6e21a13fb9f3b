package models

import (
	"time"

	"dailydose/core"
)

type Team struct {
	ID             string    `db:"id"              json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name"            json:"name"`
	ChannelRef     string    `db:"channel_ref"     json:"channel_ref"`
	Timezone       string    `db:"timezone"        json:"timezone"`
	StandupTime    string    `db:"standup_time"    json:"standup_time"`
	PostingTime    string    `db:"posting_time"    json:"posting_time"`
	Active         bool      `db:"active"          json:"active"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// TeamSchedule is the parsed, validated form of a team's time configuration
type TeamSchedule struct {
	Location *time.Location
	Standup  core.Clock
	Posting  core.Clock
}

// Schedule parses the team's timezone and clock fields.
// Any invalid field yields a *core.ConfigError.
func (t *Team) Schedule() (*TeamSchedule, error) {
	loc, err := core.LoadLocation(t.Timezone)
	if err != nil {
		return nil, &core.ConfigError{TeamID: t.ID, Field: "timezone", Value: t.Timezone, Err: err}
	}
	standup, err := core.ParseClock(t.StandupTime)
	if err != nil {
		return nil, &core.ConfigError{TeamID: t.ID, Field: "standup_time", Value: t.StandupTime, Err: err}
	}
	posting, err := core.ParseClock(t.PostingTime)
	if err != nil {
		return nil, &core.ConfigError{TeamID: t.ID, Field: "posting_time", Value: t.PostingTime, Err: err}
	}
	return &TeamSchedule{Location: loc, Standup: standup, Posting: posting}, nil
}

// PostingInstant is the moment the team's summary is due on the given calendar date
func (s *TeamSchedule) PostingInstant(date time.Time) time.Time {
	return s.Posting.On(date, s.Location)
}

// Today is the current calendar date in the team's timezone
func (s *TeamSchedule) Today(now time.Time) time.Time {
	return core.DateIn(now, s.Location)
}
