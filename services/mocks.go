package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"dailydose/models"
)

// MockEligibilityService is a mock implementation of EligibilityService
type MockEligibilityService struct {
	mock.Mock
}

func (m *MockEligibilityService) GetEligibleMembers(
	ctx context.Context,
	team *models.Team,
	date time.Time,
) ([]*models.TeamMember, error) {
	args := m.Called(ctx, team, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamMember), args.Error(1)
}

func (m *MockEligibilityService) GetMembersOnLeave(
	ctx context.Context,
	team *models.Team,
	date time.Time,
) ([]*models.TeamMember, error) {
	args := m.Called(ctx, team, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamMember), args.Error(1)
}

func (m *MockEligibilityService) IsOrgWorkingDay(
	ctx context.Context,
	date time.Time,
	org *models.Organization,
) (bool, error) {
	args := m.Called(ctx, date, org)
	return args.Bool(0), args.Error(1)
}

func (m *MockEligibilityService) IsHoliday(ctx context.Context, date time.Time, org *models.Organization) (bool, error) {
	args := m.Called(ctx, date, org)
	return args.Bool(0), args.Error(1)
}

// MockResponsesService is a mock implementation of ResponsesService
type MockResponsesService struct {
	mock.Mock
}

func (m *MockResponsesService) SaveResponse(
	ctx context.Context,
	team *models.Team,
	user *models.User,
	date time.Time,
	payload models.ResponsePayload,
) (*models.StoredResponse, error) {
	args := m.Called(ctx, team, user, date, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredResponse), args.Error(1)
}

func (m *MockResponsesService) GetResponse(
	ctx context.Context,
	teamID, userID string,
	date time.Time,
) (*models.StandupResponse, error) {
	args := m.Called(ctx, teamID, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StandupResponse), args.Error(1)
}

func (m *MockResponsesService) GetResponses(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.StandupResponse, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StandupResponse), args.Error(1)
}

func (m *MockResponsesService) GetLateResponses(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.StandupResponse, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StandupResponse), args.Error(1)
}

// MockNotificationsService is a mock implementation of NotificationsService
type MockNotificationsService struct {
	mock.Mock
}

func (m *MockNotificationsService) SendToMany(
	ctx context.Context,
	recipients []*models.TeamMember,
	build MessageBuilder,
) models.DispatchResult {
	args := m.Called(ctx, recipients, build)
	return args.Get(0).(models.DispatchResult)
}

func (m *MockNotificationsService) SendToManyAsync(
	ctx context.Context,
	recipients []*models.TeamMember,
	build MessageBuilder,
) {
	m.Called(ctx, recipients, build)
}

// MockTeamsService is a mock implementation of TeamsService
type MockTeamsService struct {
	mock.Mock
}

func (m *MockTeamsService) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamsService) GetActiveTeams(ctx context.Context) ([]*models.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *MockTeamsService) GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockTeamsService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockTeamsService) GetTeamAdmins(ctx context.Context, teamID string) ([]*models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamMember), args.Error(1)
}
