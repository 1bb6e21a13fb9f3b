package standups

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"dailydose/core"
	"dailydose/models"
)

// PostTeamStandup composes and posts the team's summary for date.
// Nothing is posted on weekends or holidays; nil is returned in that case.
// An already anchored summary is returned unchanged.
func (s *StandupsUseCase) PostTeamStandup(
	ctx context.Context,
	teamID string,
	date time.Time,
) (*models.StandupPost, error) {
	date = core.NormalizeDate(date)
	log.Printf("📋 Starting to post standup summary for team %s on %s", teamID, core.FormatDate(date))

	team, err := s.teamsService.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	org, err := s.teamsService.GetOrganizationByID(ctx, team.OrganizationID)
	if err != nil {
		return nil, err
	}

	working, err := s.eligibilityService.IsOrgWorkingDay(ctx, date, org)
	if err != nil {
		return nil, fmt.Errorf("failed to check working day: %w", err)
	}
	if !working {
		log.Printf("📋 Completed successfully - %s is not a working day for team %s, nothing posted", core.FormatDate(date), team.ID)
		return nil, nil
	}

	maybePost, err := s.postsRepo.GetStandupPost(ctx, team.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get standup post: %w", err)
	}
	if maybePost.IsPresent() {
		post := maybePost.MustGet()
		log.Printf("📋 Completed successfully - summary for team %s already posted as %s", team.ID, post.MessageRef)
		return post, nil
	}

	summary, err := s.loadSummary(ctx, team, date, nil)
	if err != nil {
		return nil, err
	}

	post, created, err := s.PostOrCreateParent(ctx, team, date, Compose(summary))
	if err != nil {
		return nil, err
	}

	if created {
		s.threadPendingLate(ctx, post, summary)
	}

	log.Printf("📋 Completed successfully - standup summary for team %s anchored at %s", team.ID, post.MessageRef)
	return post, nil
}

// PostOrCreateParent returns the team-day's parent post, posting msg as the parent when none exists.
// created is false when the post already existed or a concurrent writer won the insert race;
// in the latter case the winner's row is returned and msg may be visible as a duplicate message.
func (s *StandupsUseCase) PostOrCreateParent(
	ctx context.Context,
	team *models.Team,
	date time.Time,
	msg *models.Message,
) (*models.StandupPost, bool, error) {
	date = core.NormalizeDate(date)

	maybePost, err := s.postsRepo.GetStandupPost(ctx, team.ID, date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get standup post: %w", err)
	}
	if post, ok := maybePost.Get(); ok {
		return post, false, nil
	}

	messageRef, err := s.transport.PostChannelMessage(ctx, team.ChannelRef, msg)
	if err != nil {
		return nil, false, fmt.Errorf("failed to post standup summary: %w", err)
	}

	post := &models.StandupPost{
		ID:          core.NewID("sp"),
		TeamID:      team.ID,
		StandupDate: date,
		MessageRef:  messageRef,
		ChannelRef:  team.ChannelRef,
		PostedAt:    s.now().UTC(),
	}
	inserted, err := s.postsRepo.InsertStandupPostIfAbsent(ctx, post)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record standup post: %w", err)
	}
	if inserted {
		return post, true, nil
	}

	log.Printf("⚠️ Lost the parent post race for team %s on %s, message %s is a duplicate", team.ID, core.FormatDate(date), messageRef)
	maybeWinner, err := s.postsRepo.GetStandupPost(ctx, team.ID, date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get winning standup post: %w", err)
	}
	winner, ok := maybeWinner.Get()
	if !ok {
		return nil, false, fmt.Errorf("standup post for team %s on %s: %w", team.ID, core.FormatDate(date), core.ErrPersistenceConflict)
	}
	return winner, false, nil
}

// AppendLateReply threads a late response under the team-day's summary.
// Without a summary, the late response triggers the full summary and is included in it;
// any other late responses of the day are then threaded under the new summary.
func (s *StandupsUseCase) AppendLateReply(
	ctx context.Context,
	team *models.Team,
	date time.Time,
	response *models.StandupResponse,
) error {
	date = core.NormalizeDate(date)
	log.Printf("📋 Starting to append late response %s for team %s", response.ID, team.ID)

	maybePost, err := s.postsRepo.GetStandupPost(ctx, team.ID, date)
	if err != nil {
		return fmt.Errorf("failed to get standup post: %w", err)
	}

	if !maybePost.IsPresent() {
		summary, err := s.loadSummary(ctx, team, date, response)
		if err != nil {
			return err
		}

		post, created, err := s.PostOrCreateParent(ctx, team, date, Compose(summary))
		if err != nil {
			return err
		}
		if created {
			s.threadPendingLate(ctx, post, summary)
			log.Printf("📋 Completed successfully - late response %s created the summary %s", response.ID, post.MessageRef)
			return nil
		}
		maybePost = mo.Some(post)
	}

	post := maybePost.MustGet()
	author, err := s.teamsService.GetUserByID(ctx, response.UserID)
	if err != nil {
		log.Printf("⚠️ Failed to resolve author of late response %s: %v", response.ID, err)
	}
	if err := s.replyLate(ctx, post, response, author); err != nil {
		return err
	}

	log.Printf("📋 Completed successfully - threaded late response %s under %s", response.ID, post.MessageRef)
	return nil
}

// threadPendingLate replies with the late responses saved before the summary existed.
// Each failure is logged and does not stop the others.
func (s *StandupsUseCase) threadPendingLate(ctx context.Context, post *models.StandupPost, summary *Summary) {
	for _, late := range summary.Late {
		if err := s.replyLate(ctx, post, late, summary.Users[late.UserID]); err != nil {
			log.Printf("⚠️ Failed to thread late response %s: %v", late.ID, err)
		}
	}
}

func (s *StandupsUseCase) replyLate(
	ctx context.Context,
	post *models.StandupPost,
	response *models.StandupResponse,
	author *models.User,
) error {
	if err := s.transport.PostThreadReply(ctx, post.ChannelRef, post.MessageRef, ComposeLateReply(response, author), true); err != nil {
		return fmt.Errorf("failed to post late thread reply: %w", err)
	}
	return nil
}
