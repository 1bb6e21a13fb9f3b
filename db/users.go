package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	dbtx "dailydose/db/tx"
	"dailydose/models"
)

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// DBUser represents the database schema for users table
type DBUser struct {
	ID          string        `db:"id"`
	ExternalID  string        `db:"external_id"`
	DisplayName string        `db:"display_name"`
	WorkDays    pq.Int64Array `db:"work_days"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

var usersColumns = []string{
	"id",
	"external_id",
	"display_name",
	"work_days",
	"created_at",
	"updated_at",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

func (u *DBUser) toModel() *models.User {
	return &models.User{
		ID:          u.ID,
		ExternalID:  u.ExternalID,
		DisplayName: u.DisplayName,
		WorkDays:    fromInt64Array(u.WorkDays),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// GetOrCreateUser returns the user for an external identity, creating it on first sight
func (r *PostgresUsersRepository) GetOrCreateUser(
	ctx context.Context,
	id, externalID, displayName string,
) (*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, external_id, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr)

	var row DBUser
	if err := db.QueryRowxContext(ctx, query, id, externalID, displayName).StructScan(&row); err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	return row.toModel(), nil
}

func (r *PostgresUsersRepository) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(usersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE id = $1`, columnsStr, r.schema)

	var row DBUser
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user: %w", err)
	}
	return mo.Some(row.toModel()), nil
}

// UpdateUserWorkDays sets or clears (nil) the personal workday override
func (r *PostgresUsersRepository) UpdateUserWorkDays(
	ctx context.Context,
	id string,
	workDays models.WorkDaySet,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.users
		SET work_days = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id, toInt64Array(workDays))
	if err != nil {
		return false, fmt.Errorf("failed to update user work days: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
