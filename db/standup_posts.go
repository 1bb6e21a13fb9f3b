package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"dailydose/core"
	dbtx "dailydose/db/tx"
	"dailydose/models"
)

type PostgresStandupPostsRepository struct {
	db     *sqlx.DB
	schema string
}

var standupPostsColumns = []string{
	"id",
	"team_id",
	"standup_date",
	"message_ref",
	"channel_ref",
	"posted_at",
}

func NewPostgresStandupPostsRepository(db *sqlx.DB, schema string) *PostgresStandupPostsRepository {
	return &PostgresStandupPostsRepository{db: db, schema: schema}
}

// InsertStandupPostIfAbsent records the parent post for (team, date) only if none exists.
// Returns false without error when another writer already holds the row.
func (r *PostgresStandupPostsRepository) InsertStandupPostIfAbsent(
	ctx context.Context,
	post *models.StandupPost,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(standupPostsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.standup_posts (%s)
		VALUES ($1, $2, $3::date, $4, $5, NOW())
		ON CONFLICT (team_id, standup_date) DO NOTHING
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := db.QueryRowxContext(ctx, query,
		post.ID,
		post.TeamID,
		core.FormatDate(post.StandupDate),
		post.MessageRef,
		post.ChannelRef).StructScan(post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert standup post: %w", err)
	}
	return true, nil
}

func (r *PostgresStandupPostsRepository) GetStandupPost(
	ctx context.Context,
	teamID string,
	date time.Time,
) (mo.Option[*models.StandupPost], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(standupPostsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.standup_posts
		WHERE team_id = $1 AND standup_date = $2::date`, columnsStr, r.schema)

	post := &models.StandupPost{}
	if err := db.GetContext(ctx, post, query, teamID, core.FormatDate(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.StandupPost](), nil
		}
		return mo.None[*models.StandupPost](), fmt.Errorf("failed to get standup post: %w", err)
	}
	return mo.Some(post), nil
}
