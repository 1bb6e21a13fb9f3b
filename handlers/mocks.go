package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"dailydose/models"
	"dailydose/scheduler"
	"dailydose/usecases/standups"
)

// MockStandupsUseCase implements StandupsUseCase for testing
type MockStandupsUseCase struct {
	mock.Mock
}

func (m *MockStandupsUseCase) GetEligibleMembers(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.TeamMember, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamMember), args.Error(1)
}

func (m *MockStandupsUseCase) SaveResponse(
	ctx context.Context,
	teamID, userID string,
	date time.Time,
	payload models.ResponsePayload,
) (*models.StoredResponse, error) {
	args := m.Called(ctx, teamID, userID, date, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredResponse), args.Error(1)
}

func (m *MockStandupsUseCase) PostTeamStandup(
	ctx context.Context,
	teamID string,
	date time.Time,
) (*models.StandupPost, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StandupPost), args.Error(1)
}

func (m *MockStandupsUseCase) SendStandupReminders(ctx context.Context, teamID string) (models.DispatchResult, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(models.DispatchResult), args.Error(1)
}

func (m *MockStandupsUseCase) SendFollowupReminders(ctx context.Context, teamID string) (models.DispatchResult, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(models.DispatchResult), args.Error(1)
}

func (m *MockStandupsUseCase) GetTeamDayStatus(
	ctx context.Context,
	teamID string,
	date time.Time,
) (*standups.TeamDayReport, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*standups.TeamDayReport), args.Error(1)
}

// MockTeamScheduler implements TeamScheduler for testing
type MockTeamScheduler struct {
	mock.Mock
}

func (m *MockTeamScheduler) ScheduleAll(ctx context.Context) (*scheduler.ScheduleResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.ScheduleResult), args.Error(1)
}

func (m *MockTeamScheduler) RescheduleTeam(ctx context.Context, teamID string) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}
