package standups

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/mo"

	"dailydose/core"
	"dailydose/models"
)

// TeamDayReport describes a team-day as derived from its stored rows
type TeamDayReport struct {
	TeamID string               `json:"team_id"`
	Date   string               `json:"date"`
	Status models.TeamDayStatus `json:"status"`
	OnTime int                  `json:"on_time"`
	Late   int                  `json:"late"`
	Post   *models.StandupPost  `json:"post,omitempty"`
}

// GetTeamDayStatus derives the team-day status from StandupPost and StandupResponse presence.
// The rows are read from one snapshot. No status is stored; a new date starts at PENDING.
func (s *StandupsUseCase) GetTeamDayStatus(ctx context.Context, teamID string, date time.Time) (*TeamDayReport, error) {
	date = core.NormalizeDate(date)

	team, err := s.teamsService.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var onTime, late []*models.StandupResponse
	var maybePost mo.Option[*models.StandupPost]
	err = s.txManager.WithReadSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if onTime, err = s.responsesService.GetResponses(ctx, team.ID, date); err != nil {
			return err
		}
		if late, err = s.responsesService.GetLateResponses(ctx, team.ID, date); err != nil {
			return err
		}
		if maybePost, err = s.postsRepo.GetStandupPost(ctx, team.ID, date); err != nil {
			return fmt.Errorf("failed to get standup post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &TeamDayReport{
		TeamID: team.ID,
		Date:   core.FormatDate(date),
		Status: models.TeamDayStatusPending,
		OnTime: len(onTime),
		Late:   len(late),
	}

	post, posted := maybePost.Get()
	switch {
	case posted:
		report.Post = post
		report.Status = models.TeamDayStatusPosted
		for _, response := range late {
			if response.SubmittedAt.After(post.PostedAt) {
				report.Status = models.TeamDayStatusPostedWithLate
				break
			}
		}
	case len(onTime)+len(late) > 0:
		report.Status = models.TeamDayStatusCollecting
	}
	return report, nil
}
