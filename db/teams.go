package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "dailydose/db/tx"
	"dailydose/models"
)

type PostgresTeamsRepository struct {
	db     *sqlx.DB
	schema string
}

var teamsColumns = []string{
	"id",
	"organization_id",
	"name",
	"channel_ref",
	"timezone",
	"standup_time",
	"posting_time",
	"active",
	"created_at",
	"updated_at",
}

func NewPostgresTeamsRepository(db *sqlx.DB, schema string) *PostgresTeamsRepository {
	return &PostgresTeamsRepository{db: db, schema: schema}
}

func (r *PostgresTeamsRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(teamsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.teams (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := db.QueryRowxContext(ctx, query,
		team.ID,
		team.OrganizationID,
		team.Name,
		team.ChannelRef,
		team.Timezone,
		team.StandupTime,
		team.PostingTime,
		team.Active).StructScan(team)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *PostgresTeamsRepository) GetTeamByID(ctx context.Context, id string) (mo.Option[*models.Team], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(teamsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.teams
		WHERE id = $1`, columnsStr, r.schema)

	team := &models.Team{}
	if err := db.GetContext(ctx, team, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Team](), nil
		}
		return mo.None[*models.Team](), fmt.Errorf("failed to get team: %w", err)
	}
	return mo.Some(team), nil
}

// GetActiveTeams returns active teams that belong to active organizations
func (r *PostgresTeamsRepository) GetActiveTeams(ctx context.Context) ([]*models.Team, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	var aliasedColumns []string
	for _, col := range teamsColumns {
		aliasedColumns = append(aliasedColumns, "t."+col)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.teams t
		INNER JOIN %s.organizations o ON o.id = t.organization_id
		WHERE t.active = TRUE AND o.active = TRUE
		ORDER BY t.created_at ASC, t.id ASC`, strings.Join(aliasedColumns, ", "), r.schema, r.schema)

	var teams []*models.Team
	if err := db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("failed to get active teams: %w", err)
	}
	return teams, nil
}
