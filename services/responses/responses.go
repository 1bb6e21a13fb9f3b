package responses

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dailydose/core"
	"dailydose/db"
	"dailydose/models"
	"dailydose/services"
)

type ResponsesService struct {
	responsesRepo   db.StandupResponsesRepository
	membershipsRepo db.MembershipsRepository
	notifications   services.NotificationsService
	now             func() time.Time
}

func NewResponsesService(
	responsesRepo db.StandupResponsesRepository,
	membershipsRepo db.MembershipsRepository,
	notifications services.NotificationsService,
	now func() time.Time,
) *ResponsesService {
	return &ResponsesService{
		responsesRepo:   responsesRepo,
		membershipsRepo: membershipsRepo,
		notifications:   notifications,
		now:             now,
	}
}

// SaveResponse creates or overwrites the user's response for the team-day.
// Only active members of the team may respond; anyone else is core.ErrNotFound.
// A response for today or a future date is late once the team's posting time has passed;
// responses for past dates are never late.
func (s *ResponsesService) SaveResponse(
	ctx context.Context,
	team *models.Team,
	user *models.User,
	date time.Time,
	payload models.ResponsePayload,
) (*models.StoredResponse, error) {
	log.Printf("📋 Starting to save standup response for user %s in team %s", user.ID, team.ID)

	payload = models.ResponsePayload{
		Yesterday: strings.TrimSpace(payload.Yesterday),
		Today:     strings.TrimSpace(payload.Today),
		Blockers:  strings.TrimSpace(payload.Blockers),
	}
	if payload.Yesterday == "" && payload.Today == "" && payload.Blockers == "" {
		return nil, fmt.Errorf("standup response cannot be empty")
	}

	maybeMember, err := s.membershipsRepo.GetActiveTeamMember(ctx, team.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}
	if maybeMember.IsAbsent() {
		return nil, fmt.Errorf("user %s is not an active member of team %s: %w", user.ID, team.ID, core.ErrNotFound)
	}

	schedule, err := team.Schedule()
	if err != nil {
		return nil, err
	}

	date = core.NormalizeDate(date)
	now := s.now()
	isLate := !date.Before(schedule.Today(now)) && now.After(schedule.PostingInstant(date))

	response := &models.StandupResponse{
		ID:          core.NewID("sr"),
		TeamID:      team.ID,
		UserID:      user.ID,
		StandupDate: date,
		Yesterday:   payload.Yesterday,
		Today:       payload.Today,
		Blockers:    payload.Blockers,
		IsLate:      isLate,
		SubmittedAt: now.UTC(),
	}

	inserted, err := s.responsesRepo.UpsertStandupResponse(ctx, response)
	if err != nil {
		return nil, fmt.Errorf("failed to save standup response: %w", err)
	}

	status := models.ResponseSaveStatusUpdated
	if inserted {
		status = models.ResponseSaveStatusCreated
	}
	stored := &models.StoredResponse{Response: response, Status: status}

	s.notifyAdmins(ctx, team, user, stored)

	log.Printf(
		"📋 Completed successfully - %s standup response %s (late: %t) for %s",
		strings.ToLower(string(status)),
		response.ID,
		response.IsLate,
		core.FormatDate(date),
	)
	return stored, nil
}

// GetResponse returns core.ErrNotFound when the user has not responded for the date
func (s *ResponsesService) GetResponse(
	ctx context.Context,
	teamID, userID string,
	date time.Time,
) (*models.StandupResponse, error) {
	maybeResponse, err := s.responsesRepo.GetStandupResponse(ctx, teamID, userID, core.NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get standup response: %w", err)
	}
	response, ok := maybeResponse.Get()
	if !ok {
		return nil, fmt.Errorf("standup response for user %s on %s: %w", userID, core.FormatDate(date), core.ErrNotFound)
	}
	return response, nil
}

// GetResponses returns on-time responses for the team-day, oldest first
func (s *ResponsesService) GetResponses(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.StandupResponse, error) {
	responses, err := s.responsesRepo.GetStandupResponsesByLateness(ctx, teamID, core.NormalizeDate(date), false)
	if err != nil {
		return nil, fmt.Errorf("failed to get on-time responses: %w", err)
	}
	return responses, nil
}

// GetLateResponses returns late responses for the team-day, oldest first
func (s *ResponsesService) GetLateResponses(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.StandupResponse, error) {
	responses, err := s.responsesRepo.GetStandupResponsesByLateness(ctx, teamID, core.NormalizeDate(date), true)
	if err != nil {
		return nil, fmt.Errorf("failed to get late responses: %w", err)
	}
	return responses, nil
}

// notifyAdmins tells the team's admins about the submission in the background.
// Failures are logged only.
func (s *ResponsesService) notifyAdmins(
	ctx context.Context,
	team *models.Team,
	submitter *models.User,
	stored *models.StoredResponse,
) {
	admins, err := s.membershipsRepo.GetActiveTeamAdmins(ctx, team.ID)
	if err != nil {
		log.Printf("⚠️ Failed to load admins of team %s for response notification: %v", team.ID, err)
		return
	}

	recipients := make([]*models.TeamMember, 0, len(admins))
	for _, admin := range admins {
		if admin.User.ID == submitter.ID || !admin.Membership.ReceiveNotifications {
			continue
		}
		recipients = append(recipients, admin)
	}
	if len(recipients) == 0 {
		return
	}

	msg := adminNotificationMessage(team, submitter, stored)
	s.notifications.SendToManyAsync(ctx, recipients, func(*models.TeamMember) *models.Message {
		return msg
	})
}

func adminNotificationMessage(team *models.Team, submitter *models.User, stored *models.StoredResponse) *models.Message {
	verb := "submitted"
	if stored.Status == models.ResponseSaveStatusUpdated {
		verb = "updated"
	}
	date := core.FormatDate(stored.Response.StandupDate)
	summary := fmt.Sprintf("%s %s their standup for *%s* (%s)", submitter.DisplayName, verb, team.Name, date)
	if stored.Response.IsLate {
		summary += " after the posting time"
	}

	return models.NewMessageBuilder().
		Section(summary).
		Fields(responseFields(stored.Response)...).
		Build(fmt.Sprintf("%s %s their standup for %s", submitter.DisplayName, verb, team.Name))
}

func responseFields(response *models.StandupResponse) []models.FieldPair {
	return []models.FieldPair{
		{Label: "Yesterday", Value: orNone(response.Yesterday)},
		{Label: "Today", Value: orNone(response.Today)},
		{Label: "Blockers", Value: orNone(response.Blockers)},
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
