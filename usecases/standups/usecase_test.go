package standups

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dailydose/clients"
	"dailydose/core"
	"dailydose/db"
	"dailydose/models"
	"dailydose/services"
	"dailydose/services/responses"
	"dailydose/testutils"
)

var today = time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2025, 1, 14, hour, minute, 0, 0, time.UTC)
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type fixture struct {
	useCase       *StandupsUseCase
	clock         *testClock
	teams         *services.MockTeamsService
	eligibility   *services.MockEligibilityService
	responses     *responses.ResponsesService
	responsesRepo *testutils.MemoryResponsesRepository
	notifications *services.MockNotificationsService
	posts         *testutils.MemoryPostsRepository
	txManager     *testutils.MemoryTransactionManager
	transport     *clients.MockMessagingTransport

	org   *models.Organization
	team  *models.Team
	alice *models.TeamMember
	bob   *models.TeamMember
	carol *models.TeamMember
}

func newMember(name string) *models.TeamMember {
	userID := core.NewID("u")
	return &models.TeamMember{
		Membership: &models.Membership{
			ID:                   core.NewID("mb"),
			UserID:               userID,
			Role:                 models.MembershipRoleMember,
			Active:               true,
			ReceiveNotifications: true,
		},
		User: &models.User{ID: userID, ExternalID: "U" + strings.ToUpper(name), DisplayName: name},
	}
}

// newFixture wires a 3-member team: alice and bob are eligible, carol is on leave
func newFixture() *fixture {
	f := &fixture{
		clock:         &testClock{},
		teams:         &services.MockTeamsService{},
		eligibility:   &services.MockEligibilityService{},
		responsesRepo: testutils.NewMemoryResponsesRepository(),
		notifications: &services.MockNotificationsService{},
		posts:         testutils.NewMemoryPostsRepository(),
		txManager:     &testutils.MemoryTransactionManager{},
		transport:     &clients.MockMessagingTransport{},
		org:           &models.Organization{ID: core.NewID("org"), Name: "Acme", Country: "GB", Active: true},
		alice:         newMember("alice"),
		bob:           newMember("bob"),
		carol:         newMember("carol"),
	}
	f.clock.set(9, 0)
	f.team = &models.Team{
		ID:             core.NewID("tm"),
		OrganizationID: f.org.ID,
		Name:           "Platform",
		ChannelRef:     "C123",
		Timezone:       "UTC",
		StandupTime:    "09:30",
		PostingTime:    "10:00",
		Active:         true,
	}

	memberships := &db.MockMembershipsRepository{}
	memberships.On("GetActiveTeamAdmins", mock.Anything, f.team.ID).Return([]*models.TeamMember{}, nil)
	for _, member := range []*models.TeamMember{f.alice, f.bob, f.carol} {
		memberships.On("GetActiveTeamMember", mock.Anything, f.team.ID, member.User.ID).Return(mo.Some(member), nil)
	}
	memberships.On("GetActiveTeamMember", mock.Anything, f.team.ID, mock.Anything).Return(mo.None[*models.TeamMember](), nil)
	f.responses = responses.NewResponsesService(f.responsesRepo, memberships, f.notifications, f.clock.Now)

	f.useCase = NewStandupsUseCase(
		f.teams,
		f.eligibility,
		f.responses,
		f.notifications,
		f.txManager,
		f.posts,
		f.transport,
		f.clock.Now,
	)

	f.teams.On("GetTeamByID", mock.Anything, f.team.ID).Return(f.team, nil)
	f.teams.On("GetOrganizationByID", mock.Anything, f.org.ID).Return(f.org, nil)
	for _, member := range []*models.TeamMember{f.alice, f.bob, f.carol} {
		member.Membership.TeamID = f.team.ID
		f.teams.On("GetUserByID", mock.Anything, member.User.ID).Return(member.User, nil)
	}
	f.eligibility.On("GetEligibleMembers", mock.Anything, f.team, mock.Anything).
		Return([]*models.TeamMember{f.alice, f.bob}, nil)
	f.eligibility.On("GetMembersOnLeave", mock.Anything, f.team, mock.Anything).
		Return([]*models.TeamMember{f.carol}, nil)
	return f
}

func (f *fixture) workingDay(working bool) {
	f.eligibility.On("IsOrgWorkingDay", mock.Anything, mock.Anything, f.org).Return(working, nil)
}

func (f *fixture) save(t *testing.T, member *models.TeamMember, hour, minute int) *models.StoredResponse {
	t.Helper()
	f.clock.set(hour, minute)
	stored, err := f.responses.SaveResponse(context.Background(), f.team, member.User, today, models.ResponsePayload{
		Yesterday: member.User.DisplayName + " yesterday",
		Today:     member.User.DisplayName + " today",
	})
	require.NoError(t, err)
	return stored
}

// blockTexts returns section texts and entry titles in message order
func blockTexts(msg *models.Message) []string {
	var texts []string
	for _, block := range msg.Blocks {
		switch b := block.(type) {
		case models.SectionBlock:
			texts = append(texts, b.Text)
		case models.EntryBlock:
			texts = append(texts, b.Title)
		}
	}
	return texts
}

func capturePost(f *fixture, ref string) *[]*models.Message {
	var posted []*models.Message
	f.transport.On("PostChannelMessage", mock.Anything, "C123", mock.Anything).
		Run(func(args mock.Arguments) {
			posted = append(posted, args.Get(2).(*models.Message))
		}).
		Return(ref, nil)
	return &posted
}

func captureReplies(f *fixture, parentRef string) *[]*models.Message {
	var replies []*models.Message
	f.transport.On("PostThreadReply", mock.Anything, "C123", parentRef, mock.Anything, true).
		Run(func(args mock.Arguments) {
			replies = append(replies, args.Get(3).(*models.Message))
		}).
		Return(nil)
	return &replies
}

func TestStandupsUseCase_PostTeamStandup(t *testing.T) {
	ctx := context.Background()

	t.Run("EndToEndOnTimeLateAndLeave", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		posted := capturePost(f, "ts-1")
		replies := captureReplies(f, "ts-1")

		f.save(t, f.alice, 9, 40)
		late := f.save(t, f.bob, 10, 5)
		require.True(t, late.Response.IsLate)

		f.clock.set(10, 6)
		post, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "ts-1", post.MessageRef)
		assert.Equal(t, 1, f.posts.Count())

		require.Len(t, *posted, 1)
		assert.Equal(t, 1, f.txManager.Calls(), "summary rows are read in one snapshot")
		sections := blockTexts((*posted)[0])
		assert.Contains(t, sections, "**Submitted (1)**")
		assert.Contains(t, sections, "<@UALICE>")
		assert.Contains(t, sections, "**Not submitted (0)**\nNone")
		assert.Contains(t, sections, "**On leave (1)**\n<@UCAROL>")
		assert.NotContains(t, sections, "<@UBOB>")

		require.Len(t, *replies, 1)
		assert.Contains(t, blockTexts((*replies)[0])[0], "<@UBOB> posted a late update")
	})

	t.Run("NotSubmittedHonorsHidePreference", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		f.bob.Membership.HideFromNotResponded = true
		posted := capturePost(f, "ts-1")

		f.clock.set(10, 0)
		_, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)

		require.Len(t, *posted, 1)
		sections := blockTexts((*posted)[0])
		assert.Contains(t, sections, "**Submitted (0)**")
		assert.Contains(t, sections, "**Not submitted (1)**\n<@UALICE>")
	})

	t.Run("HolidayPostsNothing", func(t *testing.T) {
		f := newFixture()
		f.workingDay(false)

		f.save(t, f.alice, 9, 40)
		f.save(t, f.bob, 9, 50)

		post, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)
		assert.Nil(t, post)
		assert.Equal(t, 0, f.posts.Count())
		f.transport.AssertNotCalled(t, "PostChannelMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ExistingParentIsReturnedUnchanged", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		capturePost(f, "ts-1")

		first, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)
		second, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		f.transport.AssertNumberOfCalls(t, "PostChannelMessage", 1)
	})

	t.Run("TransportFailureIsReturned", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		f.transport.On("PostChannelMessage", mock.Anything, "C123", mock.Anything).Return("", fmt.Errorf("rate_limited"))

		_, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.Error(t, err)
		assert.Equal(t, 0, f.posts.Count())
	})
}

func TestStandupsUseCase_LateResponses(t *testing.T) {
	ctx := context.Background()

	t.Run("LateResponseAfterSummaryIsThreaded", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		posted := capturePost(f, "ts-1")
		replies := captureReplies(f, "ts-1")

		f.save(t, f.alice, 9, 40)
		f.clock.set(10, 0)
		_, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)

		f.clock.set(10, 30)
		stored, err := f.useCase.SaveResponse(ctx, f.team.ID, f.bob.User.ID, today, models.ResponsePayload{Today: "catching up"})
		require.NoError(t, err)
		assert.True(t, stored.Response.IsLate)

		assert.Len(t, *posted, 1)
		require.Len(t, *replies, 1)
		assert.Contains(t, blockTexts((*replies)[0])[0], "<@UBOB>")
	})

	t.Run("FirstLateResponseCreatesSummary", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		posted := capturePost(f, "ts-late")

		f.save(t, f.alice, 9, 40)

		f.clock.set(10, 2)
		_, err := f.useCase.SaveResponse(ctx, f.team.ID, f.bob.User.ID, today, models.ResponsePayload{Today: "catching up"})
		require.NoError(t, err)

		require.Len(t, *posted, 1)
		sections := blockTexts((*posted)[0])
		assert.Contains(t, sections, "**Submitted (2)**")
		assert.Contains(t, sections, "<@UBOB>")
		assert.Contains(t, sections, "**Not submitted (0)**\nNone")
		f.transport.AssertNotCalled(t, "PostThreadReply", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		// the scheduled job then finds the parent and does nothing
		f.clock.set(10, 5)
		post, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)
		assert.Equal(t, "ts-late", post.MessageRef)
		assert.Len(t, *posted, 1)
	})

	t.Run("LateSummaryThreadsEarlierUnpublishedLateResponses", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		f.transport.On("PostChannelMessage", mock.Anything, "C123", mock.Anything).
			Return("", fmt.Errorf("rate_limited")).Once()
		posted := capturePost(f, "ts-late")
		replies := captureReplies(f, "ts-late")

		f.clock.set(10, 2)
		_, err := f.useCase.SaveResponse(ctx, f.team.ID, f.alice.User.ID, today, models.ResponsePayload{Today: "alice late"})
		require.NoError(t, err)
		assert.Equal(t, 0, f.posts.Count())

		f.clock.set(10, 5)
		_, err = f.useCase.SaveResponse(ctx, f.team.ID, f.bob.User.ID, today, models.ResponsePayload{Today: "bob late"})
		require.NoError(t, err)

		require.Len(t, *posted, 1)
		texts := blockTexts((*posted)[0])
		assert.Contains(t, texts, "**Submitted (1)**")
		assert.Contains(t, texts, "<@UBOB>")
		assert.NotContains(t, texts, "<@UALICE>")

		require.Len(t, *replies, 1)
		assert.Contains(t, blockTexts((*replies)[0])[0], "<@UALICE> posted a late update")
	})

	t.Run("LateResponseOnHolidayIsNotPosted", func(t *testing.T) {
		f := newFixture()
		f.workingDay(false)

		f.clock.set(11, 0)
		stored, err := f.useCase.SaveResponse(ctx, f.team.ID, f.bob.User.ID, today, models.ResponsePayload{Today: "x"})
		require.NoError(t, err)
		assert.True(t, stored.Response.IsLate)
		f.transport.AssertNotCalled(t, "PostChannelMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NonMemberCannotSubmit", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		posted := capturePost(f, "ts-1")

		mallory := newMember("mallory")
		f.teams.On("GetUserByID", mock.Anything, mallory.User.ID).Return(mallory.User, nil)

		f.clock.set(9, 40)
		_, err := f.useCase.SaveResponse(ctx, f.team.ID, mallory.User.ID, today, models.ResponsePayload{Today: "hello"})
		require.Error(t, err)
		assert.True(t, core.IsNotFoundError(err))
		assert.Equal(t, 0, f.responsesRepo.Count())

		f.clock.set(10, 0)
		_, err = f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)
		require.Len(t, *posted, 1)
		texts := blockTexts((*posted)[0])
		assert.Contains(t, texts, "**Submitted (0)**")
		assert.NotContains(t, texts, "<@UMALLORY>")
	})

	t.Run("ThreadFailureDoesNotFailSave", func(t *testing.T) {
		f := newFixture()
		f.workingDay(true)
		capturePost(f, "ts-1")
		f.transport.On("PostThreadReply", mock.Anything, "C123", "ts-1", mock.Anything, true).Return(fmt.Errorf("thread_not_found"))

		f.clock.set(10, 0)
		_, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
		require.NoError(t, err)

		f.clock.set(10, 30)
		stored, err := f.useCase.SaveResponse(ctx, f.team.ID, f.bob.User.ID, today, models.ResponsePayload{Today: "x"})
		require.NoError(t, err)
		assert.NotNil(t, stored)
	})
}

// racingTransport holds every channel post until all racers have posted
type racingTransport struct {
	clients.MessagingTransport
	arrived sync.WaitGroup
	counter atomic.Int64
}

func (r *racingTransport) PostChannelMessage(context.Context, string, *models.Message) (string, error) {
	n := r.counter.Add(1)
	r.arrived.Done()
	r.arrived.Wait()
	return fmt.Sprintf("ts-%d", n), nil
}

func TestStandupsUseCase_PostOrCreateParent_Race(t *testing.T) {
	f := newFixture()
	transport := &racingTransport{}
	transport.arrived.Add(2)
	f.useCase.transport = transport

	msg := models.NewMessageBuilder().Header("summary").Build("summary")

	type outcome struct {
		post    *models.StandupPost
		created bool
		err     error
	}
	outcomes := make([]outcome, 2)

	var wg sync.WaitGroup
	for i := range outcomes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			post, created, err := f.useCase.PostOrCreateParent(context.Background(), f.team, today, msg)
			outcomes[i] = outcome{post: post, created: created, err: err}
		}()
	}
	wg.Wait()

	require.NoError(t, outcomes[0].err)
	require.NoError(t, outcomes[1].err)
	assert.Equal(t, 1, f.posts.Count())
	assert.Equal(t, outcomes[0].post.MessageRef, outcomes[1].post.MessageRef)
	assert.Equal(t, outcomes[0].post.ID, outcomes[1].post.ID)
	assert.True(t, outcomes[0].created != outcomes[1].created, "exactly one caller creates the parent")
}

func TestStandupsUseCase_Reminders(t *testing.T) {
	ctx := context.Background()

	t.Run("RemindsEligibleMembers", func(t *testing.T) {
		f := newFixture()
		f.clock.set(9, 30)
		f.eligibility.On("IsHoliday", mock.Anything, today, f.org).Return(false, nil)
		f.notifications.On("SendToMany", mock.Anything, []*models.TeamMember{f.alice, f.bob}, mock.Anything).
			Return(models.DispatchResult{Sent: 2})

		result, err := f.useCase.SendStandupReminders(ctx, f.team.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Sent)
		f.notifications.AssertExpectations(t)
	})

	t.Run("FollowupSkipsResponders", func(t *testing.T) {
		f := newFixture()
		f.save(t, f.alice, 9, 35)
		f.clock.set(9, 45)
		f.eligibility.On("IsHoliday", mock.Anything, today, f.org).Return(false, nil)
		f.notifications.On("SendToMany", mock.Anything, []*models.TeamMember{f.bob}, mock.Anything).
			Return(models.DispatchResult{Sent: 1})

		result, err := f.useCase.SendFollowupReminders(ctx, f.team.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		f.notifications.AssertExpectations(t)
	})

	t.Run("HolidaySendsNothing", func(t *testing.T) {
		f := newFixture()
		f.clock.set(9, 30)
		f.eligibility.On("IsHoliday", mock.Anything, today, f.org).Return(true, nil)

		result, err := f.useCase.SendStandupReminders(ctx, f.team.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DispatchResult{}, result)
		f.notifications.AssertNotCalled(t, "SendToMany", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidScheduleIsConfigError", func(t *testing.T) {
		f := newFixture()
		f.team.PostingTime = "25:00"

		_, err := f.useCase.SendStandupReminders(ctx, f.team.ID)
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})
}

func TestStandupsUseCase_GetTeamDayStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.workingDay(true)
	capturePost(f, "ts-1")
	captureReplies(f, "ts-1")

	status := func() models.TeamDayStatus {
		report, err := f.useCase.GetTeamDayStatus(ctx, f.team.ID, today)
		require.NoError(t, err)
		return report.Status
	}

	assert.Equal(t, models.TeamDayStatusPending, status())
	assert.Equal(t, 1, f.txManager.Calls())

	f.save(t, f.alice, 9, 40)
	assert.Equal(t, models.TeamDayStatusCollecting, status())

	f.clock.set(10, 0)
	_, err := f.useCase.PostTeamStandup(ctx, f.team.ID, today)
	require.NoError(t, err)
	assert.Equal(t, models.TeamDayStatusPosted, status())

	f.clock.set(10, 20)
	_, err = f.useCase.SaveResponse(ctx, f.team.ID, f.bob.User.ID, today, models.ResponsePayload{Today: "late"})
	require.NoError(t, err)
	assert.Equal(t, models.TeamDayStatusPostedWithLate, status())
}
