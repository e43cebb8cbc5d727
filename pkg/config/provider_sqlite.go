package config

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	server, err := s.getServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	tides, err := s.getTides()
	if err != nil {
		return nil, fmt.Errorf("failed to load tide fetch config: %w", err)
	}
	config.Tides = *tides

	cache, err := s.getCache()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache config: %w", err)
	}
	config.Cache = *cache

	sections, err := s.getSections()
	if err != nil {
		return nil, fmt.Errorf("failed to load section overrides: %w", err)
	}
	config.Sections = sections

	return config, nil
}

func (s *SQLiteProvider) getServer() (*ServerData, error) {
	row := s.db.QueryRow(`SELECT listen_addr, http_port, cors_origins FROM server LIMIT 1`)

	var data ServerData
	var origins string
	err := row.Scan(&data.ListenAddr, &data.HTTPPort, &origins)
	if err == sql.ErrNoRows {
		return &ServerData{}, nil
	}
	if err != nil {
		return nil, err
	}
	if origins != "" {
		data.CORSOrigins = strings.Split(origins, ",")
	}
	return &data, nil
}

func (s *SQLiteProvider) getTides() (*TideFetchData, error) {
	row := s.db.QueryRow(`SELECT base_url, timeout_seconds, max_attempts, base_delay_seconds, max_delay_seconds FROM tides LIMIT 1`)

	var data TideFetchData
	err := row.Scan(&data.BaseURL, &data.TimeoutSeconds, &data.MaxAttempts, &data.BaseDelaySeconds, &data.MaxDelaySeconds)
	if err == sql.ErrNoRows {
		return &TideFetchData{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *SQLiteProvider) getCache() (*CacheData, error) {
	row := s.db.QueryRow(`SELECT backend, path, connection_string FROM cache LIMIT 1`)

	var data CacheData
	err := row.Scan(&data.Backend, &data.Path, &data.ConnectionString)
	if err == sql.ErrNoRows {
		return &CacheData{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *SQLiteProvider) getSections() ([]SectionData, error) {
	rows, err := s.db.Query(`SELECT name, station, latitude, longitude, timezone FROM sections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []SectionData
	for rows.Next() {
		var sec SectionData
		if err := rows.Scan(&sec.Name, &sec.Station, &sec.Latitude, &sec.Longitude, &sec.Timezone); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
