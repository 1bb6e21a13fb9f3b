package services

import (
	"context"
	"time"

	"dailydose/models"
)

// EligibilityService resolves who is expected to take part in a team's standup on a date
type EligibilityService interface {
	GetEligibleMembers(ctx context.Context, team *models.Team, date time.Time) ([]*models.TeamMember, error)
	GetMembersOnLeave(ctx context.Context, team *models.Team, date time.Time) ([]*models.TeamMember, error)
	IsOrgWorkingDay(ctx context.Context, date time.Time, org *models.Organization) (bool, error)
	IsHoliday(ctx context.Context, date time.Time, org *models.Organization) (bool, error)
}

// ResponsesService captures and reads daily standup responses
type ResponsesService interface {
	SaveResponse(
		ctx context.Context,
		team *models.Team,
		user *models.User,
		date time.Time,
		payload models.ResponsePayload,
	) (*models.StoredResponse, error)
	GetResponse(ctx context.Context, teamID, userID string, date time.Time) (*models.StandupResponse, error)
	GetResponses(ctx context.Context, teamID string, date time.Time) ([]*models.StandupResponse, error)
	GetLateResponses(ctx context.Context, teamID string, date time.Time) ([]*models.StandupResponse, error)
}

// MessageBuilder renders the message for one recipient
type MessageBuilder func(recipient *models.TeamMember) *models.Message

// NotificationsService fans direct messages out to team members
type NotificationsService interface {
	SendToMany(ctx context.Context, recipients []*models.TeamMember, build MessageBuilder) models.DispatchResult
	SendToManyAsync(ctx context.Context, recipients []*models.TeamMember, build MessageBuilder)
}

// TeamsService reads the team configuration owned by the admin layer
type TeamsService interface {
	GetTeamByID(ctx context.Context, id string) (*models.Team, error)
	GetActiveTeams(ctx context.Context) ([]*models.Team, error)
	GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetTeamAdmins(ctx context.Context, teamID string) ([]*models.TeamMember, error)
}

// TransactionManager groups repository reads made through the context into one snapshot
type TransactionManager interface {
	WithReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
