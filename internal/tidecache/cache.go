// Package tidecache is the read-through cache of resolved tide curves,
// keyed by (station, local calendar day). Predicted tides never change, so
// entries are immutable once written and no invalidation logic exists;
// concurrent misses for the same key may race to fill it and last-write-
// wins is acceptable.
package tidecache

import (
	"context"
	"fmt"
	"time"

	"github.com/treklab/coasttrek/internal/tide"
	"go.uber.org/zap"
)

// dayKey is the cache key format for a local calendar day.
const dayKey = "2006-01-02"

// Store persists prediction series. Implementations must tolerate
// duplicate Puts for the same key.
type Store interface {
	Get(ctx context.Context, station, day string) ([]tide.Observation, bool, error)
	Put(ctx context.Context, station, day string, obs []tide.Observation) error
	Close() error
}

// Fetcher retrieves predictions from the upstream tide provider.
type Fetcher interface {
	Predictions(ctx context.Context, station string, day time.Time) ([]tide.Observation, error)
}

// Cache reads tide curves through a store, fetching on miss.
type Cache struct {
	store   Store
	fetcher Fetcher
	logger  *zap.SugaredLogger
}

// New creates a read-through cache over the given store and fetcher.
func New(store Store, fetcher Fetcher, logger *zap.SugaredLogger) *Cache {
	return &Cache{store: store, fetcher: fetcher, logger: logger}
}

// Curve returns the tide curve for a station on the local calendar day of
// day, consulting the store first and fetching on a miss. Implements
// feasibility.CurveSource.
func (c *Cache) Curve(ctx context.Context, station string, day time.Time) (*tide.Curve, error) {
	key := day.Format(dayKey)
	loc := day.Location()

	obs, ok, err := c.store.Get(ctx, station, key)
	if err != nil {
		return nil, fmt.Errorf("reading tide cache for %s/%s: %v", station, key, err)
	}
	if ok {
		return tide.NewCurve(station, localize(obs, loc))
	}

	c.logger.Debugf("tide cache miss for station %s day %s", station, key)
	fetched, err := c.fetcher.Predictions(ctx, station, day)
	if err != nil {
		return nil, err
	}

	curve, err := tide.NewCurve(station, fetched)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, station, key, fetched); err != nil {
		// The curve is still usable; the next request just refetches.
		c.logger.Warnf("failed to cache tide curve for %s/%s: %v", station, key, err)
	}
	return curve, nil
}

// localize restores the local timezone on observations read from a store
// backend that only preserved the instant.
func localize(obs []tide.Observation, loc *time.Location) []tide.Observation {
	out := make([]tide.Observation, len(obs))
	for i, o := range obs {
		o.Time = o.Time.In(loc)
		out[i] = o
	}
	return out
}
