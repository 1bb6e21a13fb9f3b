package db

import (
	"context"
	"time"

	"github.com/samber/mo"

	"dailydose/models"
)

// Repository contracts consumed by the services layer. The Postgres implementations in this
// package satisfy them; services depend on these so they can be exercised with mocks.

type OrganizationsRepository interface {
	CreateOrganization(ctx context.Context, org *models.Organization) error
	GetOrganizationByID(ctx context.Context, id string) (mo.Option[*models.Organization], error)
}

type TeamsRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByID(ctx context.Context, id string) (mo.Option[*models.Team], error)
	GetActiveTeams(ctx context.Context) ([]*models.Team, error)
}

type UsersRepository interface {
	GetOrCreateUser(ctx context.Context, id, externalID, displayName string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
	UpdateUserWorkDays(ctx context.Context, id string, workDays models.WorkDaySet) (bool, error)
}

type MembershipsRepository interface {
	UpsertMembership(ctx context.Context, membership *models.Membership) error
	DeactivateMembership(ctx context.Context, teamID, userID string) (bool, error)
	GetActiveTeamMembers(ctx context.Context, teamID string) ([]*models.TeamMember, error)
	GetActiveTeamAdmins(ctx context.Context, teamID string) ([]*models.TeamMember, error)
	GetActiveTeamMember(ctx context.Context, teamID, userID string) (mo.Option[*models.TeamMember], error)
}

type LeavesRepository interface {
	CreateLeave(ctx context.Context, leave *models.Leave) error
	GetTeamLeavesOnDate(ctx context.Context, teamID string, date time.Time) ([]*models.Leave, error)
}

type HolidaysRepository interface {
	UpsertHoliday(ctx context.Context, holiday *models.Holiday) error
	GetHoliday(ctx context.Context, date time.Time, country string) (mo.Option[*models.Holiday], error)
}

type StandupResponsesRepository interface {
	UpsertStandupResponse(ctx context.Context, response *models.StandupResponse) (bool, error)
	GetStandupResponse(
		ctx context.Context,
		teamID, userID string,
		date time.Time,
	) (mo.Option[*models.StandupResponse], error)
	GetStandupResponsesByLateness(
		ctx context.Context,
		teamID string,
		date time.Time,
		isLate bool,
	) ([]*models.StandupResponse, error)
}

type StandupPostsRepository interface {
	InsertStandupPostIfAbsent(ctx context.Context, post *models.StandupPost) (bool, error)
	GetStandupPost(ctx context.Context, teamID string, date time.Time) (mo.Option[*models.StandupPost], error)
}

var (
	_ OrganizationsRepository    = (*PostgresOrganizationsRepository)(nil)
	_ TeamsRepository            = (*PostgresTeamsRepository)(nil)
	_ UsersRepository            = (*PostgresUsersRepository)(nil)
	_ MembershipsRepository      = (*PostgresMembershipsRepository)(nil)
	_ LeavesRepository           = (*PostgresLeavesRepository)(nil)
	_ HolidaysRepository         = (*PostgresHolidaysRepository)(nil)
	_ StandupResponsesRepository = (*PostgresStandupResponsesRepository)(nil)
	_ StandupPostsRepository     = (*PostgresStandupPostsRepository)(nil)
)
