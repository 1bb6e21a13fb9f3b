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

type PostgresHolidaysRepository struct {
	db     *sqlx.DB
	schema string
}

var holidaysColumns = []string{
	"id",
	"holiday_date",
	"country",
	"name",
	"created_at",
}

func NewPostgresHolidaysRepository(db *sqlx.DB, schema string) *PostgresHolidaysRepository {
	return &PostgresHolidaysRepository{db: db, schema: schema}
}

func (r *PostgresHolidaysRepository) UpsertHoliday(ctx context.Context, holiday *models.Holiday) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(holidaysColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.holidays (%s)
		VALUES ($1, $2::date, $3, $4, NOW())
		ON CONFLICT (holiday_date, country) DO UPDATE SET name = EXCLUDED.name
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := db.QueryRowxContext(ctx, query,
		holiday.ID,
		core.FormatDate(holiday.Date),
		holiday.Country,
		holiday.Name).StructScan(holiday)
	if err != nil {
		return fmt.Errorf("failed to upsert holiday: %w", err)
	}
	return nil
}

func (r *PostgresHolidaysRepository) GetHoliday(
	ctx context.Context,
	date time.Time,
	country string,
) (mo.Option[*models.Holiday], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(holidaysColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.holidays
		WHERE holiday_date = $1::date AND country = $2`, columnsStr, r.schema)

	holiday := &models.Holiday{}
	if err := db.GetContext(ctx, holiday, query, core.FormatDate(date), country); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Holiday](), nil
		}
		return mo.None[*models.Holiday](), fmt.Errorf("failed to get holiday: %w", err)
	}
	return mo.Some(holiday), nil
}
