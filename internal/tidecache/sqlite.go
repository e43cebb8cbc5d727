package tidecache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/treklab/coasttrek/internal/tide"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists cached prediction series in a local SQLite file,
// encoded with msgpack.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tide cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping tide cache database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tide_curves (
		station TEXT NOT NULL,
		day TEXT NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (station, day)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tide_curves table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the cached series for a key, if present.
func (s *SQLiteStore) Get(ctx context.Context, station, day string) ([]tide.Observation, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM tide_curves WHERE station = ? AND day = ?`, station, day)

	var blob []byte
	err := row.Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var obs []tide.Observation
	if err := msgpack.Unmarshal(blob, &obs); err != nil {
		return nil, false, fmt.Errorf("decoding cached tide curve: %v", err)
	}
	return obs, true, nil
}

// Put stores a series. INSERT OR IGNORE keeps the first write; entries are
// immutable so a lost race changes nothing.
func (s *SQLiteStore) Put(ctx context.Context, station, day string, obs []tide.Observation) error {
	blob, err := msgpack.Marshal(obs)
	if err != nil {
		return fmt.Errorf("encoding tide curve: %v", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tide_curves (station, day, data) VALUES (?, ?, ?)`,
		station, day, blob)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
