package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dailydose/core"
	"dailydose/models"
	"dailydose/services"
)

const (
	KindReminder = "reminder"
	KindFollowup = "followup"
	KindPosting  = "posting"

	refreshKey  = "refresh"
	refreshSpec = "0 0 * * *"
)

// StandupJobs are the units of work fired by team triggers
type StandupJobs interface {
	SendStandupReminders(ctx context.Context, teamID string) (models.DispatchResult, error)
	SendFollowupReminders(ctx context.Context, teamID string) (models.DispatchResult, error)
	PostTeamStandup(ctx context.Context, teamID string, date time.Time) (*models.StandupPost, error)
}

// BackgroundTaskWrapper decorates fired jobs with logging and alerting
type BackgroundTaskWrapper interface {
	WrapBackgroundTask(taskName string, task func() error) func() error
}

type ScheduleResult struct {
	Scheduled int `json:"scheduled"`
	Skipped   int `json:"skipped"`
	Removed   int `json:"removed"`
}

// TeamScheduler derives each team's reminder, follow-up and posting triggers and keeps them in a Registry
type TeamScheduler struct {
	registry      *Registry
	teamsService  services.TeamsService
	jobs          StandupJobs
	alerts        BackgroundTaskWrapper
	followupDelay time.Duration
	jobTimeout    time.Duration
	now           func() time.Time
}

func NewTeamScheduler(
	registry *Registry,
	teamsService services.TeamsService,
	jobs StandupJobs,
	alerts BackgroundTaskWrapper,
	followupDelay time.Duration,
	jobTimeout time.Duration,
	now func() time.Time,
) *TeamScheduler {
	return &TeamScheduler{
		registry:      registry,
		teamsService:  teamsService,
		jobs:          jobs,
		alerts:        alerts,
		followupDelay: followupDelay,
		jobTimeout:    jobTimeout,
		now:           now,
	}
}

func TriggerKey(kind, teamID string) string {
	return kind + ":" + teamID
}

// ScheduleAll (re)installs triggers for every active team and drops triggers of teams no longer active.
// A team with invalid configuration is skipped and logged; other teams are unaffected.
func (s *TeamScheduler) ScheduleAll(ctx context.Context) (*ScheduleResult, error) {
	log.Printf("📋 Starting to schedule all active teams")

	teams, err := s.teamsService.GetActiveTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active teams: %w", err)
	}

	result := &ScheduleResult{}
	scheduled := make(map[string]bool, len(teams))
	for _, team := range teams {
		if err := s.ScheduleTeam(team); err != nil {
			if core.IsConfigError(err) {
				log.Printf("⚠️ Skipping team %s: %v", team.ID, err)
			} else {
				log.Printf("❌ Failed to schedule team %s: %v", team.ID, err)
			}
			result.Skipped++
			continue
		}
		scheduled[team.ID] = true
		result.Scheduled++
	}

	for _, key := range s.registry.Keys() {
		kind, teamID, ok := strings.Cut(key, ":")
		if !ok || !isTeamKind(kind) || scheduled[teamID] {
			continue
		}
		if s.registry.Remove(key) {
			result.Removed++
		}
	}

	log.Printf(
		"📋 Completed successfully - scheduled %d teams, skipped %d, removed %d stale triggers",
		result.Scheduled,
		result.Skipped,
		result.Removed,
	)
	return result, nil
}

// ScheduleTeam installs the team's three daily triggers in its timezone.
// Returns a *core.ConfigError for an invalid timezone or clock.
func (s *TeamScheduler) ScheduleTeam(team *models.Team) error {
	schedule, err := team.Schedule()
	if err != nil {
		return err
	}

	teamID := team.ID
	triggers := []struct {
		kind  string
		clock core.Clock
		run   func(ctx context.Context) error
	}{
		{
			kind:  KindReminder,
			clock: schedule.Standup,
			run: func(ctx context.Context) error {
				_, err := s.jobs.SendStandupReminders(ctx, teamID)
				return err
			},
		},
		{
			kind:  KindFollowup,
			clock: schedule.Standup.Add(s.followupDelay),
			run: func(ctx context.Context) error {
				_, err := s.jobs.SendFollowupReminders(ctx, teamID)
				return err
			},
		},
		{
			kind:  KindPosting,
			clock: schedule.Posting,
			run: func(ctx context.Context) error {
				_, err := s.jobs.PostTeamStandup(ctx, teamID, schedule.Today(s.now()))
				return err
			},
		},
	}

	for _, trigger := range triggers {
		key := TriggerKey(trigger.kind, teamID)
		if err := s.registry.Install(key, cronSpec(schedule.Location, trigger.clock), s.job(key, trigger.run)); err != nil {
			return err
		}
	}

	log.Printf(
		"📋 Scheduled team %s: reminder %s, posting %s (%s)",
		teamID,
		schedule.Standup,
		schedule.Posting,
		schedule.Location,
	)
	return nil
}

// RescheduleTeam reloads a team and reinstalls its triggers, or removes them if the team is inactive
func (s *TeamScheduler) RescheduleTeam(ctx context.Context, teamID string) error {
	team, err := s.teamsService.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.Active {
		s.RemoveTeam(teamID)
		return nil
	}
	return s.ScheduleTeam(team)
}

// RemoveTeam stops all of the team's triggers
func (s *TeamScheduler) RemoveTeam(teamID string) {
	for _, kind := range []string{KindReminder, KindFollowup, KindPosting} {
		s.registry.Remove(TriggerKey(kind, teamID))
	}
	log.Printf("📋 Removed triggers for team %s", teamID)
}

// InstallDailyRefresh re-runs ScheduleAll at midnight of the process's local time
func (s *TeamScheduler) InstallDailyRefresh() error {
	return s.registry.Install(refreshKey, refreshSpec, s.job(refreshKey, func(ctx context.Context) error {
		_, err := s.ScheduleAll(ctx)
		return err
	}))
}

// job bounds a fired trigger with a timeout and routes failures through the alert wrapper
func (s *TeamScheduler) job(name string, run func(ctx context.Context) error) func() {
	task := s.alerts.WrapBackgroundTask(name, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		return run(ctx)
	})
	return func() {
		_ = task()
	}
}

func cronSpec(loc *time.Location, clock core.Clock) string {
	return fmt.Sprintf("CRON_TZ=%s %d %d * * *", loc.String(), clock.Minute, clock.Hour)
}

func isTeamKind(kind string) bool {
	return kind == KindReminder || kind == KindFollowup || kind == KindPosting
}
