package teams

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dailydose/core"
	"dailydose/db"
	"dailydose/models"
)

func TestTeamsService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*TeamsService, *db.MockTeamsRepository, *db.MockOrganizationsRepository, *db.MockUsersRepository) {
		teamsRepo := &db.MockTeamsRepository{}
		orgsRepo := &db.MockOrganizationsRepository{}
		usersRepo := &db.MockUsersRepository{}
		return NewTeamsService(teamsRepo, orgsRepo, usersRepo, &db.MockMembershipsRepository{}), teamsRepo, orgsRepo, usersRepo
	}

	t.Run("GetTeamByID", func(t *testing.T) {
		service, teamsRepo, _, _ := newService()
		teamID := core.NewID("tm")
		teamsRepo.On("GetTeamByID", mock.Anything, teamID).Return(mo.Some(&models.Team{ID: teamID, Name: "Platform"}), nil)

		team, err := service.GetTeamByID(ctx, teamID)
		require.NoError(t, err)
		assert.Equal(t, "Platform", team.Name)
	})

	t.Run("GetTeamByIDNotFound", func(t *testing.T) {
		service, teamsRepo, _, _ := newService()
		teamID := core.NewID("tm")
		teamsRepo.On("GetTeamByID", mock.Anything, teamID).Return(mo.None[*models.Team](), nil)

		_, err := service.GetTeamByID(ctx, teamID)
		require.Error(t, err)
		assert.True(t, core.IsNotFoundError(err))
	})

	t.Run("GetTeamByIDRejectsMalformedID", func(t *testing.T) {
		service, teamsRepo, _, _ := newService()

		_, err := service.GetTeamByID(ctx, "not-an-id")
		require.Error(t, err)
		assert.False(t, core.IsNotFoundError(err))
		teamsRepo.AssertNotCalled(t, "GetTeamByID", mock.Anything, mock.Anything)
	})

	t.Run("GetUserByIDNotFound", func(t *testing.T) {
		service, _, _, usersRepo := newService()
		userID := core.NewID("u")
		usersRepo.On("GetUserByID", mock.Anything, userID).Return(mo.None[*models.User](), nil)

		_, err := service.GetUserByID(ctx, userID)
		assert.True(t, core.IsNotFoundError(err))
	})

	t.Run("GetOrganizationByIDError", func(t *testing.T) {
		service, _, orgsRepo, _ := newService()
		orgsRepo.On("GetOrganizationByID", mock.Anything, "org_1").
			Return(mo.None[*models.Organization](), errors.New("connection refused"))

		_, err := service.GetOrganizationByID(ctx, "org_1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get organization")
	})
}
