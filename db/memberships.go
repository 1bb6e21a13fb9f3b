package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	dbtx "dailydose/db/tx"
	"dailydose/models"
)

type PostgresMembershipsRepository struct {
	db     *sqlx.DB
	schema string
}

// DBTeamMember is a team_members row joined with its user
type DBTeamMember struct {
	ID                   string        `db:"id"`
	TeamID               string        `db:"team_id"`
	UserID               string        `db:"user_id"`
	Role                 string        `db:"role"`
	Active               bool          `db:"active"`
	ReceiveNotifications bool          `db:"receive_notifications"`
	HideFromNotResponded bool          `db:"hide_from_not_responded"`
	JoinedAt             time.Time     `db:"joined_at"`
	UpdatedAt            time.Time     `db:"updated_at"`
	UserExternalID       string        `db:"user_external_id"`
	UserDisplayName      string        `db:"user_display_name"`
	UserWorkDays         pq.Int64Array `db:"user_work_days"`
	UserCreatedAt        time.Time     `db:"user_created_at"`
	UserUpdatedAt        time.Time     `db:"user_updated_at"`
}

var membershipsColumns = []string{
	"id",
	"team_id",
	"user_id",
	"role",
	"active",
	"receive_notifications",
	"hide_from_not_responded",
	"joined_at",
	"updated_at",
}

func NewPostgresMembershipsRepository(db *sqlx.DB, schema string) *PostgresMembershipsRepository {
	return &PostgresMembershipsRepository{db: db, schema: schema}
}

func (m *DBTeamMember) toModel() *models.TeamMember {
	return &models.TeamMember{
		Membership: &models.Membership{
			ID:                   m.ID,
			TeamID:               m.TeamID,
			UserID:               m.UserID,
			Role:                 models.MembershipRole(m.Role),
			Active:               m.Active,
			ReceiveNotifications: m.ReceiveNotifications,
			HideFromNotResponded: m.HideFromNotResponded,
			JoinedAt:             m.JoinedAt,
			UpdatedAt:            m.UpdatedAt,
		},
		User: &models.User{
			ID:          m.UserID,
			ExternalID:  m.UserExternalID,
			DisplayName: m.UserDisplayName,
			WorkDays:    fromInt64Array(m.UserWorkDays),
			CreatedAt:   m.UserCreatedAt,
			UpdatedAt:   m.UserUpdatedAt,
		},
	}
}

// UpsertMembership joins a user to a team. Rejoining reactivates the previous row at the end of the join order.
func (r *PostgresMembershipsRepository) UpsertMembership(ctx context.Context, membership *models.Membership) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(membershipsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.team_members AS tm (%s)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6, NOW(), NOW())
		ON CONFLICT (team_id, user_id)
		DO UPDATE SET
			role = EXCLUDED.role,
			joined_at = CASE WHEN tm.active THEN tm.joined_at ELSE NOW() END,
			active = TRUE,
			receive_notifications = EXCLUDED.receive_notifications,
			hide_from_not_responded = EXCLUDED.hide_from_not_responded,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := db.QueryRowxContext(ctx, query,
		membership.ID,
		membership.TeamID,
		membership.UserID,
		membership.Role,
		membership.ReceiveNotifications,
		membership.HideFromNotResponded).StructScan(membership)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// DeactivateMembership soft-deletes a membership on leave-team
func (r *PostgresMembershipsRepository) DeactivateMembership(ctx context.Context, teamID, userID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.team_members
		SET active = FALSE, updated_at = NOW()
		WHERE team_id = $1 AND user_id = $2 AND active = TRUE`, r.schema)

	result, err := db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate membership: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetActiveTeamMembers returns active members in join order
func (r *PostgresMembershipsRepository) GetActiveTeamMembers(
	ctx context.Context,
	teamID string,
) ([]*models.TeamMember, error) {
	return r.selectTeamMembers(ctx, "", teamID)
}

// GetActiveTeamAdmins returns active ADMIN members in join order
func (r *PostgresMembershipsRepository) GetActiveTeamAdmins(
	ctx context.Context,
	teamID string,
) ([]*models.TeamMember, error) {
	return r.selectTeamMembers(ctx, "AND m.role = $2", teamID, models.MembershipRoleAdmin)
}

// GetActiveTeamMember returns the user's membership in the team if it is active
func (r *PostgresMembershipsRepository) GetActiveTeamMember(
	ctx context.Context,
	teamID, userID string,
) (mo.Option[*models.TeamMember], error) {
	members, err := r.selectTeamMembers(ctx, "AND m.user_id = $2", teamID, userID)
	if err != nil {
		return mo.None[*models.TeamMember](), err
	}
	if len(members) == 0 {
		return mo.None[*models.TeamMember](), nil
	}
	return mo.Some(members[0]), nil
}

func (r *PostgresMembershipsRepository) selectTeamMembers(
	ctx context.Context,
	filter string,
	args ...any,
) ([]*models.TeamMember, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	var aliasedColumns []string
	for _, col := range membershipsColumns {
		aliasedColumns = append(aliasedColumns, "m."+col)
	}
	query := fmt.Sprintf(`
		SELECT %s,
			u.external_id AS user_external_id,
			u.display_name AS user_display_name,
			u.work_days AS user_work_days,
			u.created_at AS user_created_at,
			u.updated_at AS user_updated_at
		FROM %s.team_members m
		INNER JOIN %s.users u ON u.id = m.user_id
		WHERE m.team_id = $1 AND m.active = TRUE %s
		ORDER BY m.joined_at ASC, m.id ASC`,
		strings.Join(aliasedColumns, ", "), r.schema, r.schema, filter)

	var rows []DBTeamMember
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}

	members := make([]*models.TeamMember, 0, len(rows))
	for i := range rows {
		members = append(members, rows[i].toModel())
	}
	return members, nil
}
