package models

import (
	"time"
)

type MembershipRole string

const (
	MembershipRoleAdmin  MembershipRole = "ADMIN"
	MembershipRoleMember MembershipRole = "MEMBER"
)

type Membership struct {
	ID                   string         `db:"id"                      json:"id"`
	TeamID               string         `db:"team_id"                 json:"team_id"`
	UserID               string         `db:"user_id"                 json:"user_id"`
	Role                 MembershipRole `db:"role"                    json:"role"`
	Active               bool           `db:"active"                  json:"active"`
	ReceiveNotifications bool           `db:"receive_notifications"   json:"receive_notifications"`
	HideFromNotResponded bool           `db:"hide_from_not_responded" json:"hide_from_not_responded"`
	JoinedAt             time.Time      `db:"joined_at"               json:"joined_at"`
	UpdatedAt            time.Time      `db:"updated_at"              json:"updated_at"`
}

func (m *Membership) IsAdmin() bool {
	return m.Role == MembershipRoleAdmin
}

// TeamMember pairs an active membership with its user
type TeamMember struct {
	Membership *Membership `json:"membership"`
	User       *User       `json:"user"`
}
