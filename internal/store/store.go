// Package store persists the club data in SQLite or Postgres.
package store

import (
	"context"
	"fmt"
	"log"

	"tennistinder/internal/back"
	"tennistinder/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	// DefaultSQLiteDSN enables foreign keys and takes the write lock when a
	// transaction starts so concurrent recordings are serialized.
	DefaultSQLiteDSN = "file:tennistinder.db?_foreign_keys=on&_txlock=immediate"
)

// Store is a back.Store backed by a SQL database.
type Store struct {
	db      *sqlx.DB
	driver  string
	builder squirrel.StatementBuilderType
}

func Open(driver, dsn string) (*Store, error) {
	builder := squirrel.StatementBuilder
	switch driver {
	case DriverSQLite:
		builder = builder.PlaceholderFormat(squirrel.Question)
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
	case DriverPostgres:
		builder = builder.PlaceholderFormat(squirrel.Dollar)
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	log.Printf("debug: connected to %s database", driver)

	return &Store{
		db:      db,
		driver:  driver,
		builder: builder,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Transaction(ctx context.Context, cb func(back.Tx) error) error {
	return util.Transaction(ctx, s.db, func(tx *sqlx.Tx) error {
		return cb(&sqlTx{tx: tx, sb: s.builder})
	})
}
