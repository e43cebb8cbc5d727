package tidecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/treklab/coasttrek/internal/database"
	"github.com/treklab/coasttrek/internal/tide"
	"gorm.io/gorm"
)

// TideCurveRecord is one archived prediction series, stored as the raw
// observation list in a JSONB column.
type TideCurveRecord struct {
	gorm.Model

	Station string       `gorm:"uniqueIndex:idx_station_day;not null"`
	Day     string       `gorm:"uniqueIndex:idx_station_day;not null"`
	Data    pgtype.JSONB `gorm:"type:jsonb;not null"`
}

func (TideCurveRecord) TableName() string {
	return "tide_curves"
}

// PostgresStore persists cached prediction series in TimescaleDB/Postgres.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to the archive database and ensures the table
// exists.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := database.CreateConnection(connectionString)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&TideCurveRecord{}); err != nil {
		return nil, fmt.Errorf("migrating tide_curves table: %v", err)
	}
	return &PostgresStore{db: db}, nil
}

// Get returns the cached series for a key, if present.
func (p *PostgresStore) Get(ctx context.Context, station, day string) ([]tide.Observation, bool, error) {
	var record TideCurveRecord
	err := p.db.WithContext(ctx).Where("station = ? AND day = ?", station, day).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var obs []tide.Observation
	if err := json.Unmarshal(record.Data.Bytes, &obs); err != nil {
		return nil, false, fmt.Errorf("decoding archived tide curve: %v", err)
	}
	return obs, true, nil
}

// Put stores a series, keeping an existing record when one already exists.
func (p *PostgresStore) Put(ctx context.Context, station, day string, obs []tide.Observation) error {
	raw, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("encoding tide curve: %v", err)
	}

	var existing TideCurveRecord
	err = p.db.WithContext(ctx).Where("station = ? AND day = ?", station, day).First(&existing).Error
	if err == nil {
		// Entries are immutable once written.
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := TideCurveRecord{Station: station, Day: day}
	if err := record.Data.Set(raw); err != nil {
		return fmt.Errorf("setting tide curve JSONB: %v", err)
	}
	return p.db.WithContext(ctx).Create(&record).Error
}

// Close closes the underlying connection.
func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
