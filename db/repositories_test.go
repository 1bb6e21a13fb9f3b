package db_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailydose/core"
	"dailydose/db"
	dbtx "dailydose/db/tx"
	"dailydose/models"
	"dailydose/testutils"
)

func createTestUser(t *testing.T, conn *sqlx.DB, schema, name string) *models.User {
	t.Helper()

	user, err := db.NewPostgresUsersRepository(conn, schema).
		GetOrCreateUser(context.Background(), core.NewID("u"), core.NewID("ext"), name)
	require.NoError(t, err)

	t.Cleanup(func() {
		for _, table := range []string{"leaves", "standup_responses", "team_members", "users"} {
			column := "user_id"
			if table == "users" {
				column = "id"
			}
			query := fmt.Sprintf("DELETE FROM %s.%s WHERE %s = $1", schema, table, column)
			if _, err := conn.Exec(query, user.ID); err != nil {
				t.Logf("⚠️ Failed to clean up %s for user %s: %v", table, user.ID, err)
			}
		}
	})
	return user
}

func TestPostgresStandupPostsRepository(t *testing.T) {
	conn, cfg := testutils.ConnectTestDB(t)
	_, team := testutils.CreateTestTeam(t, conn, cfg.DatabaseSchema)
	repo := db.NewPostgresStandupPostsRepository(conn, cfg.DatabaseSchema)
	ctx := context.Background()

	t.Run("concurrent inserts leave exactly one row", func(t *testing.T) {
		date := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
		const writers = 8

		var wg sync.WaitGroup
		results := make([]bool, writers)
		errs := make([]error, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = repo.InsertStandupPostIfAbsent(ctx, &models.StandupPost{
					ID:          core.NewID("sp"),
					TeamID:      team.ID,
					StandupDate: date,
					MessageRef:  fmt.Sprintf("ts-%d", i),
					ChannelRef:  team.ChannelRef,
				})
			}()
		}
		wg.Wait()

		winners := 0
		winner := ""
		for i := range writers {
			require.NoError(t, errs[i])
			if results[i] {
				winners++
				winner = fmt.Sprintf("ts-%d", i)
			}
		}
		assert.Equal(t, 1, winners)

		maybePost, err := repo.GetStandupPost(ctx, team.ID, date)
		require.NoError(t, err)
		post, ok := maybePost.Get()
		require.True(t, ok)
		assert.Equal(t, winner, post.MessageRef)
		assert.Equal(t, "2025-01-14", core.FormatDate(post.StandupDate))
	})

	t.Run("missing post", func(t *testing.T) {
		maybePost, err := repo.GetStandupPost(ctx, team.ID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, maybePost.IsPresent())
	})

	t.Run("rolled back transaction leaves no row", func(t *testing.T) {
		date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
		tx, err := conn.BeginTxx(ctx, nil)
		require.NoError(t, err)

		txCtx := dbtx.WithTransaction(ctx, tx)
		inserted, err := repo.InsertStandupPostIfAbsent(txCtx, &models.StandupPost{
			ID:          core.NewID("sp"),
			TeamID:      team.ID,
			StandupDate: date,
			MessageRef:  "ts-tx",
			ChannelRef:  team.ChannelRef,
		})
		require.NoError(t, err)
		assert.True(t, inserted)
		require.NoError(t, tx.Rollback())

		maybePost, err := repo.GetStandupPost(ctx, team.ID, date)
		require.NoError(t, err)
		assert.False(t, maybePost.IsPresent())
	})
}

func TestPostgresStandupResponsesRepository(t *testing.T) {
	conn, cfg := testutils.ConnectTestDB(t)
	_, team := testutils.CreateTestTeam(t, conn, cfg.DatabaseSchema)
	user := createTestUser(t, conn, cfg.DatabaseSchema, "Alice")
	repo := db.NewPostgresStandupResponsesRepository(conn, cfg.DatabaseSchema)
	ctx := context.Background()
	date := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)

	first := &models.StandupResponse{
		ID:          core.NewID("sr"),
		TeamID:      team.ID,
		UserID:      user.ID,
		StandupDate: date,
		Today:       "first",
		SubmittedAt: time.Date(2025, 1, 14, 9, 45, 0, 0, time.UTC),
	}
	inserted, err := repo.UpsertStandupResponse(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := &models.StandupResponse{
		ID:          core.NewID("sr"),
		TeamID:      team.ID,
		UserID:      user.ID,
		StandupDate: date,
		Today:       "second",
		IsLate:      true,
		SubmittedAt: time.Date(2025, 1, 14, 10, 5, 0, 0, time.UTC),
	}
	inserted, err = repo.UpsertStandupResponse(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID, "upsert keeps the original row")

	onTime, err := repo.GetStandupResponsesByLateness(ctx, team.ID, date, false)
	require.NoError(t, err)
	assert.Empty(t, onTime)

	late, err := repo.GetStandupResponsesByLateness(ctx, team.ID, date, true)
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, "second", late[0].Today)

	maybeResponse, err := repo.GetStandupResponse(ctx, team.ID, user.ID, date)
	require.NoError(t, err)
	response, ok := maybeResponse.Get()
	require.True(t, ok)
	assert.True(t, response.SubmittedAt.Equal(second.SubmittedAt))
}

func TestPostgresMembershipsAndLeaves(t *testing.T) {
	conn, cfg := testutils.ConnectTestDB(t)
	_, team := testutils.CreateTestTeam(t, conn, cfg.DatabaseSchema)
	memberships := db.NewPostgresMembershipsRepository(conn, cfg.DatabaseSchema)
	leaves := db.NewPostgresLeavesRepository(conn, cfg.DatabaseSchema)
	ctx := context.Background()

	alice := createTestUser(t, conn, cfg.DatabaseSchema, "Alice")
	bob := createTestUser(t, conn, cfg.DatabaseSchema, "Bob")
	for _, m := range []struct {
		user *models.User
		role models.MembershipRole
	}{
		{alice, models.MembershipRoleAdmin},
		{bob, models.MembershipRoleMember},
	} {
		require.NoError(t, memberships.UpsertMembership(ctx, &models.Membership{
			ID:                   core.NewID("mb"),
			TeamID:               team.ID,
			UserID:               m.user.ID,
			Role:                 m.role,
			ReceiveNotifications: true,
		}))
	}

	members, err := memberships.GetActiveTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, alice.ID, members[0].User.ID)
	assert.Equal(t, bob.ID, members[1].User.ID)

	admins, err := memberships.GetActiveTeamAdmins(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, alice.ID, admins[0].User.ID)

	require.NoError(t, leaves.CreateLeave(ctx, &models.Leave{
		ID:        core.NewID("lv"),
		UserID:    bob.ID,
		StartDate: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}))

	for _, tc := range []struct {
		date  time.Time
		count int
	}{
		{time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), 0},
	} {
		onDate, err := leaves.GetTeamLeavesOnDate(ctx, team.ID, tc.date)
		require.NoError(t, err)
		assert.Len(t, onDate, tc.count, core.FormatDate(tc.date))
	}

	deactivated, err := memberships.DeactivateMembership(ctx, team.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)

	members, err = memberships.GetActiveTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	maybeBob, err := memberships.GetActiveTeamMember(ctx, team.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, maybeBob.IsAbsent(), "deactivated member is not active")

	maybeAlice, err := memberships.GetActiveTeamMember(ctx, team.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, maybeAlice.IsPresent())
	assert.Equal(t, models.MembershipRoleAdmin, maybeAlice.MustGet().Membership.Role)
}

func TestPostgresMembershipsRepository_Rejoin(t *testing.T) {
	conn, cfg := testutils.ConnectTestDB(t)
	_, team := testutils.CreateTestTeam(t, conn, cfg.DatabaseSchema)
	memberships := db.NewPostgresMembershipsRepository(conn, cfg.DatabaseSchema)
	ctx := context.Background()

	join := func(user *models.User) {
		require.NoError(t, memberships.UpsertMembership(ctx, &models.Membership{
			ID:                   core.NewID("mb"),
			TeamID:               team.ID,
			UserID:               user.ID,
			Role:                 models.MembershipRoleMember,
			ReceiveNotifications: true,
		}))
	}

	alice := createTestUser(t, conn, cfg.DatabaseSchema, "Alice")
	bob := createTestUser(t, conn, cfg.DatabaseSchema, "Bob")
	join(alice)
	join(bob)

	members, err := memberships.GetActiveTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, alice.ID, members[0].User.ID)
	firstJoinedAt := members[0].Membership.JoinedAt

	t.Run("upsert of an active member keeps its join time", func(t *testing.T) {
		join(alice)

		members, err := memberships.GetActiveTeamMembers(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, alice.ID, members[0].User.ID)
		assert.True(t, members[0].Membership.JoinedAt.Equal(firstJoinedAt))
	})

	t.Run("rejoining moves the member to the end of the join order", func(t *testing.T) {
		deactivated, err := memberships.DeactivateMembership(ctx, team.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, deactivated)

		join(alice)

		members, err := memberships.GetActiveTeamMembers(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, bob.ID, members[0].User.ID)
		assert.Equal(t, alice.ID, members[1].User.ID)
		assert.True(t, members[1].Membership.JoinedAt.After(firstJoinedAt))
		assert.True(t, members[1].Membership.Active)
	})
}

func TestPostgresHolidaysRepository(t *testing.T) {
	conn, cfg := testutils.ConnectTestDB(t)
	repo := db.NewPostgresHolidaysRepository(conn, cfg.DatabaseSchema)
	ctx := context.Background()

	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	country := "ZZ"
	t.Cleanup(func() {
		query := fmt.Sprintf("DELETE FROM %s.holidays WHERE country = $1", cfg.DatabaseSchema)
		if _, err := conn.Exec(query, country); err != nil {
			t.Logf("⚠️ Failed to clean up holidays: %v", err)
		}
	})

	first := &models.Holiday{ID: core.NewID("hol"), Date: date, Country: country, Name: "Christmas"}
	require.NoError(t, repo.UpsertHoliday(ctx, first))

	second := &models.Holiday{ID: core.NewID("hol"), Date: date, Country: country, Name: "Christmas Day"}
	require.NoError(t, repo.UpsertHoliday(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	found, err := repo.GetHoliday(ctx, date, country)
	require.NoError(t, err)
	holiday, ok := found.Get()
	require.True(t, ok)
	assert.Equal(t, "Christmas Day", holiday.Name)

	t.Run("other country has no holiday", func(t *testing.T) {
		found, err := repo.GetHoliday(ctx, date, "ZY")
		require.NoError(t, err)
		assert.True(t, found.IsAbsent())
	})

	t.Run("other date has no holiday", func(t *testing.T) {
		found, err := repo.GetHoliday(ctx, date.AddDate(0, 0, 1), country)
		require.NoError(t, err)
		assert.True(t, found.IsAbsent())
	})
}

func TestPostgresUsersRepository_UpdateUserWorkDays(t *testing.T) {
	conn, cfg := testutils.ConnectTestDB(t)
	repo := db.NewPostgresUsersRepository(conn, cfg.DatabaseSchema)
	ctx := context.Background()

	user := createTestUser(t, conn, cfg.DatabaseSchema, "Carol")

	updated, err := repo.UpdateUserWorkDays(ctx, user.ID, models.WorkDaySet{2, 4, 6})
	require.NoError(t, err)
	assert.True(t, updated)

	found, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	reloaded, ok := found.Get()
	require.True(t, ok)
	assert.Equal(t, models.WorkDaySet{2, 4, 6}, reloaded.WorkDays)

	updated, err = repo.UpdateUserWorkDays(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.True(t, updated)

	found, err = repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	reloaded, ok = found.Get()
	require.True(t, ok)
	assert.False(t, reloaded.WorkDays.IsSet())

	updated, err = repo.UpdateUserWorkDays(ctx, core.NewID("u"), models.WorkDaySet{1})
	require.NoError(t, err)
	assert.False(t, updated)
}
