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

type PostgresOrganizationsRepository struct {
	db     *sqlx.DB
	schema string
}

// DBOrganization represents the database schema for organizations table
type DBOrganization struct {
	ID              string        `db:"id"`
	Name            string        `db:"name"`
	Country         string        `db:"country"`
	DefaultWorkDays pq.Int64Array `db:"default_work_days"`
	Active          bool          `db:"active"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

var organizationsColumns = []string{
	"id",
	"name",
	"country",
	"default_work_days",
	"active",
	"created_at",
	"updated_at",
}

func NewPostgresOrganizationsRepository(db *sqlx.DB, schema string) *PostgresOrganizationsRepository {
	return &PostgresOrganizationsRepository{db: db, schema: schema}
}

func (o *DBOrganization) toModel() *models.Organization {
	return &models.Organization{
		ID:              o.ID,
		Name:            o.Name,
		Country:         o.Country,
		DefaultWorkDays: fromInt64Array(o.DefaultWorkDays),
		Active:          o.Active,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r *PostgresOrganizationsRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(organizationsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.organizations (id, name, country, default_work_days, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr)

	var row DBOrganization
	err := db.QueryRowxContext(ctx, query,
		org.ID,
		org.Name,
		org.Country,
		toInt64Array(org.DefaultWorkDays),
		org.Active).StructScan(&row)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	*org = *row.toModel()
	return nil
}

func (r *PostgresOrganizationsRepository) GetOrganizationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Organization], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(organizationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organizations
		WHERE id = $1`, columnsStr, r.schema)

	var row DBOrganization
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Organization](), nil
		}
		return mo.None[*models.Organization](), fmt.Errorf("failed to get organization: %w", err)
	}

	return mo.Some(row.toModel()), nil
}

// toInt64Array maps an unset workday set to SQL NULL
func toInt64Array(days models.WorkDaySet) pq.Int64Array {
	if !days.IsSet() {
		return nil
	}
	out := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}

func fromInt64Array(arr pq.Int64Array) models.WorkDaySet {
	if len(arr) == 0 {
		return nil
	}
	out := make(models.WorkDaySet, 0, len(arr))
	for _, d := range arr {
		out = append(out, int(d))
	}
	return out
}
