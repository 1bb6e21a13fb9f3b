package scheduler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"dailydose/models"
)

// MockStandupJobs is a mock implementation of StandupJobs
type MockStandupJobs struct {
	mock.Mock
}

func (m *MockStandupJobs) SendStandupReminders(ctx context.Context, teamID string) (models.DispatchResult, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(models.DispatchResult), args.Error(1)
}

func (m *MockStandupJobs) SendFollowupReminders(ctx context.Context, teamID string) (models.DispatchResult, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(models.DispatchResult), args.Error(1)
}

func (m *MockStandupJobs) PostTeamStandup(
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
