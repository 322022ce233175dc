// Package locstore keeps the last known location in a small SQLite file so
// the map reopens where it was left.
package locstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"busmap.org/internal/appconf"
	"busmap.org/internal/logging"
	"busmap.org/internal/models"
)

const createLocationTable = `
	CREATE TABLE IF NOT EXISTS last_location (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		updated_at INTEGER NOT NULL
	)`

type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the store at path. Tests must use ":memory:".
func Open(ctx context.Context, path string, env appconf.Environment, logger *slog.Logger) (*Store, error) {
	if env == appconf.Test && path != ":memory:" {
		return nil, fmt.Errorf("location store must be in memory under test, got %q", path)
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// every :memory: connection is a separate database
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		logger: logger.With(slog.String("component", "locstore")),
		now:    time.Now,
	}

	if err := s.migrate(ctx); err != nil {
		logging.SafeCloseWithLogging(db, s.logger, "location_db")
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, s.logger, "create_location_table")

	if _, err := tx.ExecContext(ctx, createLocationTable); err != nil {
		return fmt.Errorf("error creating table last_location: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// Save replaces the stored location.
func (s *Store) Save(ctx context.Context, p models.CoordinatePoint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO last_location (id, lat, lon, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET lat = excluded.lat, lon = excluded.lon, updated_at = excluded.updated_at`,
		p.Lat, p.Lon, s.now().Unix())
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}

// Load returns the stored location, or models.ErrNotFound when nothing has
// been saved yet.
func (s *Store) Load(ctx context.Context) (models.CoordinatePoint, time.Time, error) {
	var (
		p       models.CoordinatePoint
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT lat, lon, updated_at FROM last_location WHERE id = 1`).Scan(&p.Lat, &p.Lon, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CoordinatePoint{}, time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return models.CoordinatePoint{}, time.Time{}, fmt.Errorf("loading location: %w", err)
	}
	return p, time.Unix(updated, 0), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
