package store

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

func (s *Store) migrator() (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)

	switch s.driver {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(s.db.DB, &sqlite3.Config{})
	case DriverPostgres:
		driver, err = postgres.WithInstance(s.db.DB, &postgres.Config{})
	default:
		err = fmt.Errorf("no migrations for driver %q", s.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create database driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+s.driver)
	if err != nil {
		return nil, fmt.Errorf("could not create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, s.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}

	return m, nil
}

// Migrate applies every pending migration.
func (s *Store) Migrate() error {
	m, err := s.migrator()
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Print("debug: database schema is up to date")
			return nil
		}
		return fmt.Errorf("could not run up migrations: %w", err)
	}

	log.Print("info: database schema migrated")

	return nil
}

// MigrateDown reverts the last n migrations.
func (s *Store) MigrateDown(n int) error {
	m, err := s.migrator()
	if err != nil {
		return err
	}

	if err := m.Steps(-n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run down migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the current migration version, 0 if none applied.
func (s *Store) SchemaVersion() (uint, bool, error) {
	m, err := s.migrator()
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}
