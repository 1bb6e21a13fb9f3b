package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"dailydose/core"
	dbtx "dailydose/db/tx"
	"dailydose/models"
)

type PostgresLeavesRepository struct {
	db     *sqlx.DB
	schema string
}

var leavesColumns = []string{
	"id",
	"user_id",
	"start_date",
	"end_date",
	"reason",
	"created_at",
}

func NewPostgresLeavesRepository(db *sqlx.DB, schema string) *PostgresLeavesRepository {
	return &PostgresLeavesRepository{db: db, schema: schema}
}

func (r *PostgresLeavesRepository) CreateLeave(ctx context.Context, leave *models.Leave) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(leavesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.leaves (%s)
		VALUES ($1, $2, $3::date, $4::date, $5, NOW())
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := db.QueryRowxContext(ctx, query,
		leave.ID,
		leave.UserID,
		core.FormatDate(leave.StartDate),
		core.FormatDate(leave.EndDate),
		leave.Reason).StructScan(leave)
	if err != nil {
		return fmt.Errorf("failed to create leave: %w", err)
	}
	return nil
}

// GetTeamLeavesOnDate returns leaves of the team's active members whose inclusive interval covers date
func (r *PostgresLeavesRepository) GetTeamLeavesOnDate(
	ctx context.Context,
	teamID string,
	date time.Time,
) ([]*models.Leave, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	var aliasedColumns []string
	for _, col := range leavesColumns {
		aliasedColumns = append(aliasedColumns, "l."+col)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.leaves l
		INNER JOIN %s.team_members m ON m.user_id = l.user_id
		WHERE m.team_id = $1
		AND m.active = TRUE
		AND l.start_date <= $2::date
		AND l.end_date >= $2::date
		ORDER BY l.start_date ASC, l.id ASC`,
		strings.Join(aliasedColumns, ", "), r.schema, r.schema)

	var leaves []*models.Leave
	if err := db.SelectContext(ctx, &leaves, query, teamID, core.FormatDate(date)); err != nil {
		return nil, fmt.Errorf("failed to get team leaves: %w", err)
	}
	return leaves, nil
}
