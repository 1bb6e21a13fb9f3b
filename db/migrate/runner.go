// Package migrate applies the embedded SQL migrations using golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"dailydose/db"
)

// ErrNoChange is returned when there is nothing to apply
var ErrNoChange = migrate.ErrNoChange

// Up creates the schema if needed and applies all pending migrations into it.
// The schema is selected through the search_path runtime parameter on the DSN.
func Up(conn *sqlx.DB, databaseURL, schema string) error {
	log.Printf("📋 Starting to apply migrations to schema %s", schema)

	if _, err := conn.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}

	dsn, err := withSearchPath(databaseURL, schema)
	if err != nil {
		return err
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Printf("📋 Completed successfully - schema %s already up to date", schema)
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Printf("📋 Completed successfully - migrations applied to schema %s", schema)
	return nil
}

func withSearchPath(databaseURL, schema string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
