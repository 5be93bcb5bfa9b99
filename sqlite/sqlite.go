// Package sqlite provides SQLite-based storage implementations for catalog services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// This also serializes product writes across crawl workers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds before failing on lock contention from other processes.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Child rows rely on ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Tables lists the tables of the schema, parents before children.
var Tables = []string{
	"products",
	"categories",
	"product_categories",
	"product_attributes",
	"product_ingredients",
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			sku TEXT UNIQUE,
			barcode TEXT NOT NULL DEFAULT 'N/A',
			name TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			price TEXT NOT NULL DEFAULT '0',
			currency TEXT NOT NULL DEFAULT 'TL',
			description_html TEXT NOT NULL DEFAULT '',
			description_text TEXT NOT NULL DEFAULT '',
			usage_text TEXT NOT NULL DEFAULT '',
			warnings_text TEXT NOT NULL DEFAULT '',
			storage_text TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			parent_id TEXT REFERENCES categories(id) ON DELETE SET NULL
		);

		CREATE TABLE IF NOT EXISTS product_categories (
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (product_id, category_id)
		);

		CREATE TABLE IF NOT EXISTS product_attributes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			attribute_key TEXT NOT NULL,
			attribute_value TEXT NOT NULL,
			UNIQUE (product_id, attribute_key)
		);

		CREATE TABLE IF NOT EXISTS product_ingredients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			raw_text TEXT NOT NULL,
			name TEXT NOT NULL,
			percentage TEXT,
			amount TEXT,
			unit TEXT,
			UNIQUE (product_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_product_categories_category_id ON product_categories(category_id);
		CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
