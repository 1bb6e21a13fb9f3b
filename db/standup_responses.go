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

type PostgresStandupResponsesRepository struct {
	db     *sqlx.DB
	schema string
}

var standupResponsesColumns = []string{
	"id",
	"team_id",
	"user_id",
	"standup_date",
	"yesterday",
	"today",
	"blockers",
	"is_late",
	"submitted_at",
	"created_at",
	"updated_at",
}

func NewPostgresStandupResponsesRepository(db *sqlx.DB, schema string) *PostgresStandupResponsesRepository {
	return &PostgresStandupResponsesRepository{db: db, schema: schema}
}

// UpsertStandupResponse inserts or overwrites the (team, user, date) response.
// Returns true when a new row was inserted.
func (r *PostgresStandupResponsesRepository) UpsertStandupResponse(
	ctx context.Context,
	response *models.StandupResponse,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(standupResponsesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.standup_responses (%s)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (team_id, user_id, standup_date)
		DO UPDATE SET
			yesterday = EXCLUDED.yesterday,
			today = EXCLUDED.today,
			blockers = EXCLUDED.blockers,
			is_late = EXCLUDED.is_late,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = NOW()
		RETURNING %s, (xmax = 0) AS inserted`, r.schema, columnsStr, columnsStr)

	var row struct {
		models.StandupResponse
		Inserted bool `db:"inserted"`
	}
	err := db.QueryRowxContext(ctx, query,
		response.ID,
		response.TeamID,
		response.UserID,
		core.FormatDate(response.StandupDate),
		response.Yesterday,
		response.Today,
		response.Blockers,
		response.IsLate,
		response.SubmittedAt).StructScan(&row)
	if err != nil {
		return false, fmt.Errorf("failed to upsert standup response: %w", err)
	}

	*response = row.StandupResponse
	return row.Inserted, nil
}

func (r *PostgresStandupResponsesRepository) GetStandupResponse(
	ctx context.Context,
	teamID, userID string,
	date time.Time,
) (mo.Option[*models.StandupResponse], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(standupResponsesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.standup_responses
		WHERE team_id = $1 AND user_id = $2 AND standup_date = $3::date`, columnsStr, r.schema)

	response := &models.StandupResponse{}
	if err := db.GetContext(ctx, response, query, teamID, userID, core.FormatDate(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.StandupResponse](), nil
		}
		return mo.None[*models.StandupResponse](), fmt.Errorf("failed to get standup response: %w", err)
	}
	return mo.Some(response), nil
}

// GetStandupResponsesByLateness returns the team-day responses with the given is_late flag,
// oldest submission first
func (r *PostgresStandupResponsesRepository) GetStandupResponsesByLateness(
	ctx context.Context,
	teamID string,
	date time.Time,
	isLate bool,
) ([]*models.StandupResponse, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(standupResponsesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.standup_responses
		WHERE team_id = $1 AND standup_date = $2::date AND is_late = $3
		ORDER BY submitted_at ASC, id ASC`, columnsStr, r.schema)

	var responses []*models.StandupResponse
	if err := db.SelectContext(ctx, &responses, query, teamID, core.FormatDate(date), isLate); err != nil {
		return nil, fmt.Errorf("failed to get standup responses: %w", err)
	}
	return responses, nil
}
