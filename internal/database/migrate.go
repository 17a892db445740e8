package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/config"
)

// The schema is written in the subset of SQL shared by MySQL and SQLite so
// the same files serve production and the embedded local/test store.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs the embedded migrations for the configured driver.
// direction is "up" or "down".
func Migrate(db *sql.DB, cfg config.DBConfig, direction string) error {
	if cfg.Driver == "mysql" {
		return MigrateMySQL(cfg, direction)
	}
	return MigrateSQLite(db, direction)
}

// MigrateMySQL opens its own multi-statement connection from cfg.
func MigrateMySQL(cfg config.DBConfig, direction string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "mysql://"+MySQLDSN(cfg)+"&multiStatements=true")
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	return run(m, direction)
}

// MigrateSQLite migrates an already open SQLite handle.  The handle stays
// owned by the caller, so the migrate instance is not closed (closing it
// would close db).
func MigrateSQLite(db *sql.DB, direction string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer src.Close()
	return run(m, direction)
}

func run(m *migrate.Migrate, direction string) error {
	var err error
	switch direction {
	case "down":
		err = m.Down()
	case "up":
		err = m.Up()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Debug().Str("direction", direction).Msg("database migration: no changes")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrate %s: %w", direction, err)
	}
	log.Info().Str("direction", direction).Msg("database migration: success")
	return nil
}
