package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sqlx.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// One connection: sqlite serializes writes anyway, and a single handle
	// keeps :memory: databases from fragmenting across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS hazard_categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			code TEXT NOT NULL UNIQUE,
			color TEXT,
			icon TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			provenance TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS zones (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category_id TEXT NOT NULL,
			severity TEXT NOT NULL,
			geometry_kind TEXT NOT NULL,
			center_lat REAL,
			center_lng REAL,
			radius_km REAL,
			polygon TEXT,
			country TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			external_id TEXT,
			source TEXT NOT NULL,
			description TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (category_id) REFERENCES hazard_categories(id)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_zones_external_identity ON zones(external_id, source);
		CREATE INDEX IF NOT EXISTS idx_zones_source_created ON zones(source, created_at);
		CREATE INDEX IF NOT EXISTS idx_zones_active ON zones(is_active);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
