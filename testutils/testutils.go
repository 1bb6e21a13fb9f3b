package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"dailydose/config"
	"dailydose/core"
	"dailydose/db"
	"dailydose/db/migrate"
	"dailydose/models"
)

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	_ = godotenv.Load("../.env.test") // From a package directory
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// ConnectTestDB opens a migrated test database, skipping the test when none is configured
func ConnectTestDB(t *testing.T) (*sqlx.DB, *config.AppConfig) {
	t.Helper()

	cfg, err := LoadTestConfig()
	if err != nil {
		t.Skipf("⚠️ Skipping database test: %v", err)
	}

	conn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrate.Up(conn, cfg.DatabaseURL, cfg.DatabaseSchema), "Failed to migrate test database")
	return conn, cfg
}

// CreateTestTeam creates an organization and a team in it, removing both when the test ends
func CreateTestTeam(t *testing.T, conn *sqlx.DB, schema string) (*models.Organization, *models.Team) {
	t.Helper()
	ctx := context.Background()

	org := &models.Organization{
		ID:      core.NewID("org"),
		Name:    "Test Org",
		Country: "GB",
		Active:  true,
	}
	require.NoError(t, db.NewPostgresOrganizationsRepository(conn, schema).CreateOrganization(ctx, org))

	team := &models.Team{
		ID:             core.NewID("tm"),
		OrganizationID: org.ID,
		Name:           "Test Team",
		ChannelRef:     "C_TEST",
		Timezone:       "UTC",
		StandupTime:    "09:30",
		PostingTime:    "10:00",
		Active:         true,
	}
	require.NoError(t, db.NewPostgresTeamsRepository(conn, schema).CreateTeam(ctx, team))

	t.Cleanup(func() {
		for _, table := range []string{"standup_posts", "standup_responses", "team_members", "teams"} {
			column := "team_id"
			if table == "teams" {
				column = "id"
			}
			query := fmt.Sprintf("DELETE FROM %s.%s WHERE %s = $1", schema, table, column)
			if _, err := conn.Exec(query, team.ID); err != nil {
				t.Logf("⚠️ Failed to clean up %s for team %s: %v", table, team.ID, err)
			}
		}
		if _, err := conn.Exec(fmt.Sprintf("DELETE FROM %s.organizations WHERE id = $1", schema), org.ID); err != nil {
			t.Logf("⚠️ Failed to clean up organization %s: %v", org.ID, err)
		}
	})

	return org, team
}
