package eligibility

import (
	"context"
	"fmt"
	"log"
	"time"

	"dailydose/core"
	"dailydose/db"
	"dailydose/models"
)

// EligibilityService computes standup participation from memberships, leaves, workday sets and holidays.
// Nothing it computes is persisted; every call reads current state.
type EligibilityService struct {
	membershipsRepo   db.MembershipsRepository
	leavesRepo        db.LeavesRepository
	holidaysRepo      db.HolidaysRepository
	organizationsRepo db.OrganizationsRepository
}

func NewEligibilityService(
	membershipsRepo db.MembershipsRepository,
	leavesRepo db.LeavesRepository,
	holidaysRepo db.HolidaysRepository,
	organizationsRepo db.OrganizationsRepository,
) *EligibilityService {
	return &EligibilityService{
		membershipsRepo:   membershipsRepo,
		leavesRepo:        leavesRepo,
		holidaysRepo:      holidaysRepo,
		organizationsRepo: organizationsRepo,
	}
}

// teamDay is the raw state eligibility is derived from
type teamDay struct {
	date    time.Time
	org     *models.Organization
	members []*models.TeamMember
	onLeave map[string]bool
}

// GetEligibleMembers returns active members who are neither on leave nor off per their workday set.
// Order follows membership join order.
func (s *EligibilityService) GetEligibleMembers(
	ctx context.Context,
	team *models.Team,
	date time.Time,
) ([]*models.TeamMember, error) {
	log.Printf("📋 Starting to resolve eligible members for team %s on %s", team.ID, core.FormatDate(date))

	day, err := s.loadTeamDay(ctx, team, date)
	if err != nil {
		return nil, err
	}

	weekday := core.ISOWeekday(day.date)
	eligible := make([]*models.TeamMember, 0, len(day.members))
	for _, member := range day.members {
		if day.onLeave[member.User.ID] {
			continue
		}
		workDays := models.ResolveWorkDays(member.User.WorkDays, day.org.DefaultWorkDays)
		if !workDays.Contains(weekday) {
			continue
		}
		eligible = append(eligible, member)
	}

	log.Printf("📋 Completed successfully - %d of %d members eligible for team %s", len(eligible), len(day.members), team.ID)
	return eligible, nil
}

// GetMembersOnLeave returns active members with a leave covering date, in join order
func (s *EligibilityService) GetMembersOnLeave(
	ctx context.Context,
	team *models.Team,
	date time.Time,
) ([]*models.TeamMember, error) {
	log.Printf("📋 Starting to get members on leave for team %s on %s", team.ID, core.FormatDate(date))

	day, err := s.loadTeamDay(ctx, team, date)
	if err != nil {
		return nil, err
	}

	var onLeave []*models.TeamMember
	for _, member := range day.members {
		if day.onLeave[member.User.ID] {
			onLeave = append(onLeave, member)
		}
	}

	log.Printf("📋 Completed successfully - %d members on leave for team %s", len(onLeave), team.ID)
	return onLeave, nil
}

// IsOrgWorkingDay is false on weekends and on holidays of the organization's country
func (s *EligibilityService) IsOrgWorkingDay(
	ctx context.Context,
	date time.Time,
	org *models.Organization,
) (bool, error) {
	date = core.NormalizeDate(date)
	if core.IsWeekend(date) {
		return false, nil
	}

	holiday, err := s.IsHoliday(ctx, date, org)
	if err != nil {
		return false, err
	}
	return !holiday, nil
}

func (s *EligibilityService) IsHoliday(ctx context.Context, date time.Time, org *models.Organization) (bool, error) {
	date = core.NormalizeDate(date)
	maybeHoliday, err := s.holidaysRepo.GetHoliday(ctx, date, org.Country)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday for organization %s: %w", org.ID, err)
	}

	if holiday, ok := maybeHoliday.Get(); ok {
		log.Printf("📋 %s is a holiday (%s) for organization %s", core.FormatDate(date), holiday.Name, org.ID)
		return true, nil
	}
	return false, nil
}

func (s *EligibilityService) loadTeamDay(ctx context.Context, team *models.Team, date time.Time) (*teamDay, error) {
	date = core.NormalizeDate(date)

	maybeOrg, err := s.organizationsRepo.GetOrganizationByID(ctx, team.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	org, ok := maybeOrg.Get()
	if !ok {
		return nil, fmt.Errorf("organization %s for team %s: %w", team.OrganizationID, team.ID, core.ErrNotFound)
	}

	members, err := s.membershipsRepo.GetActiveTeamMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active team members: %w", err)
	}

	leaves, err := s.leavesRepo.GetTeamLeavesOnDate(ctx, team.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get team leaves: %w", err)
	}

	onLeave := make(map[string]bool, len(leaves))
	for _, leave := range leaves {
		if leave.Covers(date) {
			onLeave[leave.UserID] = true
		}
	}

	return &teamDay{date: date, org: org, members: members, onLeave: onLeave}, nil
}
