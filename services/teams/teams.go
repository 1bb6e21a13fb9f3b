package teams

import (
	"context"
	"fmt"
	"log"

	"dailydose/core"
	"dailydose/db"
	"dailydose/models"
)

// TeamsService is a read facade over the team configuration tables
type TeamsService struct {
	teamsRepo         db.TeamsRepository
	organizationsRepo db.OrganizationsRepository
	usersRepo         db.UsersRepository
	membershipsRepo   db.MembershipsRepository
}

func NewTeamsService(
	teamsRepo db.TeamsRepository,
	organizationsRepo db.OrganizationsRepository,
	usersRepo db.UsersRepository,
	membershipsRepo db.MembershipsRepository,
) *TeamsService {
	return &TeamsService{
		teamsRepo:         teamsRepo,
		organizationsRepo: organizationsRepo,
		usersRepo:         usersRepo,
		membershipsRepo:   membershipsRepo,
	}
}

func (s *TeamsService) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("team ID must be a valid ULID")
	}

	maybeTeam, err := s.teamsRepo.GetTeamByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	team, ok := maybeTeam.Get()
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, core.ErrNotFound)
	}
	return team, nil
}

// GetActiveTeams returns active teams of active organizations
func (s *TeamsService) GetActiveTeams(ctx context.Context) ([]*models.Team, error) {
	log.Printf("📋 Starting to get active teams")

	teams, err := s.teamsRepo.GetActiveTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active teams: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d active teams", len(teams))
	return teams, nil
}

func (s *TeamsService) GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error) {
	maybeOrg, err := s.organizationsRepo.GetOrganizationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	org, ok := maybeOrg.Get()
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", id, core.ErrNotFound)
	}
	return org, nil
}

func (s *TeamsService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	maybeUser, err := s.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user, ok := maybeUser.Get()
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return user, nil
}

func (s *TeamsService) GetTeamAdmins(ctx context.Context, teamID string) ([]*models.TeamMember, error) {
	admins, err := s.membershipsRepo.GetActiveTeamAdmins(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team admins: %w", err)
	}
	return admins, nil
}
