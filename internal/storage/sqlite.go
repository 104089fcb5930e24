//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"colonies/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveTournament(ctx context.Context, record model.TournamentRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return err
	}

	payload, err := EncodeTournament(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO tournaments (run_id, format, created_at_utc, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			format = excluded.format,
			created_at_utc = excluded.created_at_utc,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, record.RunID, record.Format, record.CreatedAtUTC, record.SchemaVersion, record.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetTournament(ctx context.Context, runID string) (model.TournamentRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.TournamentRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM tournaments WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TournamentRecord{}, false, nil
		}
		return model.TournamentRecord{}, false, err
	}

	record, err := DecodeTournament(payload)
	if err != nil {
		return model.TournamentRecord{}, false, fmt.Errorf("decode tournament %s: %w", runID, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) ListTournaments(ctx context.Context) ([]model.TournamentRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT run_id, payload FROM tournaments ORDER BY created_at_utc DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.TournamentRecord
	for rows.Next() {
		var (
			runID   string
			payload []byte
		)
		if err := rows.Scan(&runID, &payload); err != nil {
			return nil, err
		}
		record, err := DecodeTournament(payload)
		if err != nil {
			return nil, fmt.Errorf("decode tournament %s: %w", runID, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) SaveTrajectory(ctx context.Context, runID string, points []model.TrajectoryPoint) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeTrajectory(points)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO trajectories (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) GetTrajectory(ctx context.Context, runID string) ([]model.TrajectoryPoint, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM trajectories WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	points, err := DecodeTrajectory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode trajectory %s: %w", runID, err)
	}
	return points, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tournaments (
			run_id TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			created_at_utc TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS trajectories (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}
