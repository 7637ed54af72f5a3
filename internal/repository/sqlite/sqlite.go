// Package sqlite implements the repository interfaces using SQLite as
// the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed
// and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works
// everywhere Go works. Tests open ":memory:" databases for isolation.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under
	// the name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces for users, vehicles, maintenance records, and fuel records.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path or permissions issue
	// surfaces here rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where requests hit the DB concurrently.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every startup.
//
// Note: maintenance_records.vehicle_id and fuel_records.vehicle_id are
// plain TEXT columns, not enforced foreign keys. Deleting a vehicle
// leaves its records orphaned; that matches the documented behavior of
// the API (no cascade delete, and deletion must not be blocked by
// dependent records).
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS vehicles (
			id              TEXT PRIMARY KEY,
			make            TEXT NOT NULL,
			model           TEXT NOT NULL,
			year            INTEGER NOT NULL,
			current_mileage REAL NOT NULL DEFAULT 0,
			owner_id        TEXT NOT NULL REFERENCES users(id),
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_vehicles_owner_id ON vehicles(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating vehicles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS maintenance_records (
			id          TEXT PRIMARY KEY,
			vehicle_id  TEXT NOT NULL,
			date        DATETIME NOT NULL,
			mileage     REAL NOT NULL,
			repair_type TEXT NOT NULL,
			cost        REAL NOT NULL,
			location    TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_maintenance_vehicle_id ON maintenance_records(vehicle_id);
	`)
	if err != nil {
		return fmt.Errorf("creating maintenance_records table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS fuel_records (
			id                   TEXT PRIMARY KEY,
			vehicle_id           TEXT NOT NULL,
			date                 DATETIME NOT NULL,
			mileage              REAL NOT NULL,
			fuel_amount_liters   REAL NOT NULL,
			fuel_price_per_liter REAL NOT NULL,
			total_cost           REAL NOT NULL,
			created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_fuel_vehicle_id ON fuel_records(vehicle_id);
	`)
	if err != nil {
		return fmt.Errorf("creating fuel_records table: %w", err)
	}

	return nil
}
