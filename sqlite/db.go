// Package sqlite implements weekgo's Database and PlanRepo interfaces
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/benjamonnguyen/weekgo"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	conn *sql.DB
}

var _ weekgo.Database = (*DB)(nil)

func Open(url string) (*DB, error) {
	conn, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", url, err)
	}
	conn.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &DB{
		conn: conn,
	}, nil
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate applies the embedded migrations. An up-to-date schema is not an
// error.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	d, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", d)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}
