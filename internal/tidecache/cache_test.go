package tidecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/treklab/coasttrek/internal/tide"
	"go.uber.org/zap"
)

// countingFetcher hands out a fixed series and counts upstream calls.
type countingFetcher struct {
	obs   []tide.Observation
	err   error
	calls int
}

func (f *countingFetcher) Predictions(ctx context.Context, station string, day time.Time) ([]tide.Observation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.obs, nil
}

// failingStore breaks on Put to exercise the degraded path.
type failingStore struct {
	*MemoryStore
}

func (s failingStore) Put(ctx context.Context, station, day string, obs []tide.Observation) error {
	return errors.New("disk full")
}

func sampleObservations(day time.Time) []tide.Observation {
	return []tide.Observation{
		{Time: day.Add(6 * time.Hour), HeightFeet: 3.2},
		{Time: day.Add(12 * time.Hour), HeightFeet: 7.8},
		{Time: day.Add(18 * time.Hour), HeightFeet: 2.1},
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	if _, ok, err := store.Get(ctx, "9442396", "2024-06-10"); err != nil || ok {
		t.Fatalf("Get on an empty store = ok %v err %v, want a clean miss", ok, err)
	}

	obs := sampleObservations(day)
	if err := store.Put(ctx, "9442396", "2024-06-10", obs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok, err := store.Get(ctx, "9442396", "2024-06-10")
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok %v err %v, want a hit", ok, err)
	}
	if len(got) != len(obs) || got[0].HeightFeet != obs[0].HeightFeet {
		t.Errorf("got %v, want %v", got, obs)
	}

	// Same station, different day stays a miss.
	if _, ok, _ := store.Get(ctx, "9442396", "2024-06-11"); ok {
		t.Error("unexpected hit for a different day")
	}
	// Different station, same day stays a miss.
	if _, ok, _ := store.Get(ctx, "9442111", "2024-06-10"); ok {
		t.Error("unexpected hit for a different station")
	}

	// Duplicate Put for the same key is tolerated.
	if err := store.Put(ctx, "9442396", "2024-06-10", obs); err != nil {
		t.Errorf("duplicate Put failed: %v", err)
	}
}

func TestCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	fetcher := &countingFetcher{obs: sampleObservations(day)}
	cache := New(NewMemoryStore(), fetcher, zap.NewNop().Sugar())

	first, err := cache.Curve(ctx, "9442396", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times after one miss, want 1", fetcher.calls)
	}

	// The second request is served from the store.
	second, err := cache.Curve(ctx, "9442396", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times after a cached request, want 1", fetcher.calls)
	}
	if !first.Start().Equal(second.Start()) || !first.End().Equal(second.End()) {
		t.Error("cached curve differs from the fetched one")
	}

	// A different day misses again.
	if _, err := cache.Curve(ctx, "9442396", day.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times for two distinct days, want 2", fetcher.calls)
	}
}

func TestCacheRestoresTimezone(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)

	// Simulate a backend that kept the instant but lost the zone.
	store := NewMemoryStore()
	var utcObs []tide.Observation
	for _, o := range sampleObservations(day) {
		o.Time = o.Time.UTC()
		utcObs = append(utcObs, o)
	}
	if err := store.Put(ctx, "9442396", "2024-06-10", utcObs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache := New(store, &countingFetcher{}, zap.NewNop().Sugar())
	curve, err := cache.Curve(ctx, "9442396", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if curve.Start().Location() != loc {
		t.Errorf("curve timezone = %v, want %v", curve.Start().Location(), loc)
	}
	if !curve.Start().Equal(day.Add(6 * time.Hour)) {
		t.Errorf("curve start = %v, want %v", curve.Start(), day.Add(6*time.Hour))
	}
}

func TestCacheFetchError(t *testing.T) {
	ctx := context.Background()
	fetchErr := errors.New("station offline")
	cache := New(NewMemoryStore(), &countingFetcher{err: fetchErr}, zap.NewNop().Sugar())

	_, err := cache.Curve(ctx, "9442396", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, fetchErr) {
		t.Fatalf("error = %v, want the fetch error", err)
	}
}

func TestCachePutFailureStillServes(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	fetcher := &countingFetcher{obs: sampleObservations(day)}
	cache := New(failingStore{NewMemoryStore()}, fetcher, zap.NewNop().Sugar())

	curve, err := cache.Curve(ctx, "9442396", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if curve == nil {
		t.Fatal("expected a curve despite the store failure")
	}

	// Nothing was stored, so the next request refetches.
	if _, err := cache.Curve(ctx, "9442396", day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2", fetcher.calls)
	}
}
