package standups

import (
	"context"
	"fmt"
	"log"
	"time"

	"dailydose/core"
	"dailydose/models"
)

// SendStandupReminders direct-messages every eligible member of the team for today in the team's timezone.
// Holidays of the organization's country send nothing.
func (s *StandupsUseCase) SendStandupReminders(ctx context.Context, teamID string) (models.DispatchResult, error) {
	log.Printf("📋 Starting to send standup reminders for team %s", teamID)

	team, schedule, date, skip, err := s.reminderDay(ctx, teamID)
	if err != nil || skip {
		return models.DispatchResult{}, err
	}

	eligible, err := s.eligibilityService.GetEligibleMembers(ctx, team, date)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to get eligible members: %w", err)
	}

	msg := ComposeReminder(team, schedule)
	result := s.notificationsService.SendToMany(ctx, eligible, func(*models.TeamMember) *models.Message {
		return msg
	})

	log.Printf("📋 Completed successfully - reminded %d members of team %s (%d failed)", result.Sent, team.ID, result.Failed)
	return result, nil
}

// SendFollowupReminders nudges eligible members who have not responded for today
func (s *StandupsUseCase) SendFollowupReminders(ctx context.Context, teamID string) (models.DispatchResult, error) {
	log.Printf("📋 Starting to send follow-up reminders for team %s", teamID)

	team, schedule, date, skip, err := s.reminderDay(ctx, teamID)
	if err != nil || skip {
		return models.DispatchResult{}, err
	}

	eligible, err := s.eligibilityService.GetEligibleMembers(ctx, team, date)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("failed to get eligible members: %w", err)
	}
	onTime, err := s.responsesService.GetResponses(ctx, team.ID, date)
	if err != nil {
		return models.DispatchResult{}, err
	}
	late, err := s.responsesService.GetLateResponses(ctx, team.ID, date)
	if err != nil {
		return models.DispatchResult{}, err
	}

	responded := make(map[string]bool, len(onTime)+len(late))
	for _, response := range append(onTime, late...) {
		responded[response.UserID] = true
	}

	var pending []*models.TeamMember
	for _, member := range eligible {
		if !responded[member.User.ID] {
			pending = append(pending, member)
		}
	}

	msg := ComposeFollowup(team, schedule)
	result := s.notificationsService.SendToMany(ctx, pending, func(*models.TeamMember) *models.Message {
		return msg
	})

	log.Printf("📋 Completed successfully - followed up with %d of %d eligible members of team %s", result.Sent, len(eligible), team.ID)
	return result, nil
}

// reminderDay resolves the team, its schedule and today's date in its timezone.
// skip is true on holidays.
func (s *StandupsUseCase) reminderDay(
	ctx context.Context,
	teamID string,
) (*models.Team, *models.TeamSchedule, time.Time, bool, error) {
	team, err := s.teamsService.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, nil, time.Time{}, false, err
	}
	schedule, err := team.Schedule()
	if err != nil {
		return nil, nil, time.Time{}, false, err
	}
	date := schedule.Today(s.now())

	org, err := s.teamsService.GetOrganizationByID(ctx, team.OrganizationID)
	if err != nil {
		return nil, nil, time.Time{}, false, err
	}
	holiday, err := s.eligibilityService.IsHoliday(ctx, date, org)
	if err != nil {
		return nil, nil, time.Time{}, false, fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday {
		log.Printf("📋 Completed successfully - %s is a holiday for team %s, no reminders sent", core.FormatDate(date), team.ID)
		return team, schedule, date, true, nil
	}
	return team, schedule, date, false, nil
}
