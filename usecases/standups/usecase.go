package standups

import (
	"context"
	"fmt"
	"log"
	"time"

	"dailydose/clients"
	"dailydose/core"
	"dailydose/db"
	"dailydose/models"
	"dailydose/services"
)

// StandupsUseCase runs the standup lifecycle for a team-day: reminders, response capture,
// the anchored daily summary and late thread replies.
type StandupsUseCase struct {
	teamsService         services.TeamsService
	eligibilityService   services.EligibilityService
	responsesService     services.ResponsesService
	notificationsService services.NotificationsService
	txManager            services.TransactionManager
	postsRepo            db.StandupPostsRepository
	transport            clients.MessagingTransport
	now                  func() time.Time
}

func NewStandupsUseCase(
	teamsService services.TeamsService,
	eligibilityService services.EligibilityService,
	responsesService services.ResponsesService,
	notificationsService services.NotificationsService,
	txManager services.TransactionManager,
	postsRepo db.StandupPostsRepository,
	transport clients.MessagingTransport,
	now func() time.Time,
) *StandupsUseCase {
	return &StandupsUseCase{
		teamsService:         teamsService,
		eligibilityService:   eligibilityService,
		responsesService:     responsesService,
		notificationsService: notificationsService,
		txManager:            txManager,
		postsRepo:            postsRepo,
		transport:            transport,
		now:                  now,
	}
}

// GetEligibleMembers resolves the team's eligible members for date
func (s *StandupsUseCase) GetEligibleMembers(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.TeamMember, error) {
	team, err := s.teamsService.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.eligibilityService.GetEligibleMembers(ctx, team, date)
}

// SaveResponse stores the user's response. A late response is threaded under the day's summary,
// or creates the summary when none has been posted yet. Threading failures do not fail the save.
func (s *StandupsUseCase) SaveResponse(
	ctx context.Context,
	teamID, userID string,
	date time.Time,
	payload models.ResponsePayload,
) (*models.StoredResponse, error) {
	log.Printf("📋 Starting to save response for user %s in team %s", userID, teamID)

	team, err := s.teamsService.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	user, err := s.teamsService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.responsesService.SaveResponse(ctx, team, user, date, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	if stored.Response.IsLate {
		if err := s.handleLateResponse(ctx, team, stored.Response); err != nil {
			log.Printf("⚠️ Failed to publish late response %s: %v", stored.Response.ID, err)
		}
	}

	log.Printf("📋 Completed successfully - saved response %s for user %s", stored.Response.ID, userID)
	return stored, nil
}

func (s *StandupsUseCase) handleLateResponse(
	ctx context.Context,
	team *models.Team,
	response *models.StandupResponse,
) error {
	org, err := s.teamsService.GetOrganizationByID(ctx, team.OrganizationID)
	if err != nil {
		return err
	}
	working, err := s.eligibilityService.IsOrgWorkingDay(ctx, response.StandupDate, org)
	if err != nil {
		return err
	}
	if !working {
		log.Printf("📋 %s is not a working day for team %s, late response is not posted", core.FormatDate(response.StandupDate), team.ID)
		return nil
	}
	return s.AppendLateReply(ctx, team, response.StandupDate, response)
}

// loadSummary gathers the team-day rows the summary is composed from, all read from one snapshot.
// trigger, when set, is counted as submitted even though it is late.
func (s *StandupsUseCase) loadSummary(
	ctx context.Context,
	team *models.Team,
	date time.Time,
	trigger *models.StandupResponse,
) (*Summary, error) {
	var summary *Summary
	err := s.txManager.WithReadSnapshot(ctx, func(ctx context.Context) error {
		var err error
		summary, err = s.readSummary(ctx, team, date, trigger)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *StandupsUseCase) readSummary(
	ctx context.Context,
	team *models.Team,
	date time.Time,
	trigger *models.StandupResponse,
) (*Summary, error) {
	onTime, err := s.responsesService.GetResponses(ctx, team.ID, date)
	if err != nil {
		return nil, err
	}
	late, err := s.responsesService.GetLateResponses(ctx, team.ID, date)
	if err != nil {
		return nil, err
	}
	eligible, err := s.eligibilityService.GetEligibleMembers(ctx, team, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get eligible members: %w", err)
	}
	onLeave, err := s.eligibilityService.GetMembersOnLeave(ctx, team, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get members on leave: %w", err)
	}

	if trigger != nil {
		onTime = append(onTime, trigger)
		late = withoutResponse(late, trigger.ID)
	}

	responded := make(map[string]bool, len(onTime)+len(late))
	for _, response := range onTime {
		responded[response.UserID] = true
	}
	for _, response := range late {
		responded[response.UserID] = true
	}

	var notSubmitted []*models.TeamMember
	for _, member := range eligible {
		if responded[member.User.ID] || member.Membership.HideFromNotResponded {
			continue
		}
		notSubmitted = append(notSubmitted, member)
	}

	users := make(map[string]*models.User, len(eligible)+len(onLeave))
	for _, member := range append(append([]*models.TeamMember{}, eligible...), onLeave...) {
		users[member.User.ID] = member.User
	}
	for _, response := range append(append([]*models.StandupResponse{}, onTime...), late...) {
		if _, ok := users[response.UserID]; ok {
			continue
		}
		user, err := s.teamsService.GetUserByID(ctx, response.UserID)
		if err != nil {
			log.Printf("⚠️ Failed to resolve author %s of response %s: %v", response.UserID, response.ID, err)
			continue
		}
		users[user.ID] = user
	}

	return &Summary{
		Team:         team,
		Date:         date,
		OnTime:       onTime,
		Late:         late,
		NotSubmitted: notSubmitted,
		OnLeave:      onLeave,
		Users:        users,
	}, nil
}

func withoutResponse(responses []*models.StandupResponse, id string) []*models.StandupResponse {
	out := make([]*models.StandupResponse, 0, len(responses))
	for _, response := range responses {
		if response.ID != id {
			out = append(out, response)
		}
	}
	return out
}
