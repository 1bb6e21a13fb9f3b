package db

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"dailydose/models"
)

// MockOrganizationsRepository is a mock implementation of OrganizationsRepository
type MockOrganizationsRepository struct {
	mock.Mock
}

func (m *MockOrganizationsRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationsRepository) GetOrganizationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Organization], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Organization]), args.Error(1)
}

// MockTeamsRepository is a mock implementation of TeamsRepository
type MockTeamsRepository struct {
	mock.Mock
}

func (m *MockTeamsRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamsRepository) GetTeamByID(ctx context.Context, id string) (mo.Option[*models.Team], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Team]), args.Error(1)
}

func (m *MockTeamsRepository) GetActiveTeams(ctx context.Context) ([]*models.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

// MockUsersRepository is a mock implementation of UsersRepository
type MockUsersRepository struct {
	mock.Mock
}

func (m *MockUsersRepository) GetOrCreateUser(
	ctx context.Context,
	id, externalID, displayName string,
) (*models.User, error) {
	args := m.Called(ctx, id, externalID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersRepository) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersRepository) UpdateUserWorkDays(
	ctx context.Context,
	id string,
	workDays models.WorkDaySet,
) (bool, error) {
	args := m.Called(ctx, id, workDays)
	return args.Bool(0), args.Error(1)
}

// MockMembershipsRepository is a mock implementation of MembershipsRepository
type MockMembershipsRepository struct {
	mock.Mock
}

func (m *MockMembershipsRepository) UpsertMembership(ctx context.Context, membership *models.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipsRepository) DeactivateMembership(ctx context.Context, teamID, userID string) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipsRepository) GetActiveTeamMembers(
	ctx context.Context,
	teamID string,
) ([]*models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamMember), args.Error(1)
}

func (m *MockMembershipsRepository) GetActiveTeamAdmins(
	ctx context.Context,
	teamID string,
) ([]*models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamMember), args.Error(1)
}

func (m *MockMembershipsRepository) GetActiveTeamMember(
	ctx context.Context,
	teamID, userID string,
) (mo.Option[*models.TeamMember], error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(mo.Option[*models.TeamMember]), args.Error(1)
}

// MockLeavesRepository is a mock implementation of LeavesRepository
type MockLeavesRepository struct {
	mock.Mock
}

func (m *MockLeavesRepository) CreateLeave(ctx context.Context, leave *models.Leave) error {
	args := m.Called(ctx, leave)
	return args.Error(0)
}

func (m *MockLeavesRepository) GetTeamLeavesOnDate(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.Leave, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Leave), args.Error(1)
}

// MockHolidaysRepository is a mock implementation of HolidaysRepository
type MockHolidaysRepository struct {
	mock.Mock
}

func (m *MockHolidaysRepository) UpsertHoliday(ctx context.Context, holiday *models.Holiday) error {
	args := m.Called(ctx, holiday)
	return args.Error(0)
}

func (m *MockHolidaysRepository) GetHoliday(
	ctx context.Context,
	date time.Time,
	country string,
) (mo.Option[*models.Holiday], error) {
	args := m.Called(ctx, date, country)
	return args.Get(0).(mo.Option[*models.Holiday]), args.Error(1)
}

// MockStandupResponsesRepository is a mock implementation of StandupResponsesRepository
type MockStandupResponsesRepository struct {
	mock.Mock
}

func (m *MockStandupResponsesRepository) UpsertStandupResponse(
	ctx context.Context,
	response *models.StandupResponse,
) (bool, error) {
	args := m.Called(ctx, response)
	return args.Bool(0), args.Error(1)
}

func (m *MockStandupResponsesRepository) GetStandupResponse(
	ctx context.Context,
	teamID, userID string,
	date time.Time,
) (mo.Option[*models.StandupResponse], error) {
	args := m.Called(ctx, teamID, userID, date)
	return args.Get(0).(mo.Option[*models.StandupResponse]), args.Error(1)
}

func (m *MockStandupResponsesRepository) GetStandupResponsesByLateness(
	ctx context.Context,
	teamID string,
	date time.Time,
	isLate bool,
) ([]*models.StandupResponse, error) {
	args := m.Called(ctx, teamID, date, isLate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StandupResponse), args.Error(1)
}

// MockStandupPostsRepository is a mock implementation of StandupPostsRepository
type MockStandupPostsRepository struct {
	mock.Mock
}

func (m *MockStandupPostsRepository) InsertStandupPostIfAbsent(
	ctx context.Context,
	post *models.StandupPost,
) (bool, error) {
	args := m.Called(ctx, post)
	return args.Bool(0), args.Error(1)
}

func (m *MockStandupPostsRepository) GetStandupPost(
	ctx context.Context,
	teamID string,
	date time.Time,
) (mo.Option[*models.StandupPost], error) {
	args := m.Called(ctx, teamID, date)
	return args.Get(0).(mo.Option[*models.StandupPost]), args.Error(1)
}
