package tidecache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tides.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	obs := sampleObservations(day)

	if _, ok, err := store.Get(ctx, "9442396", "2024-06-10"); err != nil || ok {
		t.Fatalf("Get on an empty store = ok %v err %v, want a clean miss", ok, err)
	}

	if err := store.Put(ctx, "9442396", "2024-06-10", obs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok, err := store.Get(ctx, "9442396", "2024-06-10")
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok %v err %v, want a hit", ok, err)
	}
	if len(got) != len(obs) {
		t.Fatalf("got %d observations, want %d", len(got), len(obs))
	}
	for i := range got {
		if got[i].HeightFeet != obs[i].HeightFeet {
			t.Errorf("observation %d height = %f, want %f", i, got[i].HeightFeet, obs[i].HeightFeet)
		}
		if !got[i].Time.Equal(obs[i].Time) {
			t.Errorf("observation %d time = %v, want the same instant as %v", i, got[i].Time, obs[i].Time)
		}
	}

	// The first write wins; a second Put for the same key is a no-op.
	altered := sampleObservations(day)
	altered[0].HeightFeet = 99
	if err := store.Put(ctx, "9442396", "2024-06-10", altered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _, err = store.Get(ctx, "9442396", "2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].HeightFeet == 99 {
		t.Error("duplicate Put replaced an immutable entry")
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tides.db")
	ctx := context.Background()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if err := store.Put(ctx, "9442396", "2024-06-10", sampleObservations(day)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Get(ctx, "9442396", "2024-06-10"); err != nil || !ok {
		t.Fatalf("Get after reopen = ok %v err %v, want a hit", ok, err)
	}
}
