package tide

import (
	"errors"
	"math"
	"testing"
	"time"
)

func obsAt(t time.Time, heights []float64, step time.Duration) []Observation {
	obs := make([]Observation, len(heights))
	for i, h := range heights {
		obs[i] = Observation{Time: t.Add(time.Duration(i) * step), HeightFeet: h}
	}
	return obs
}

func TestNewCurveValidation(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		obs     []Observation
		wantErr bool
	}{
		{
			name:    "two observations is enough",
			obs:     obsAt(base, []float64{1, 2}, time.Hour),
			wantErr: false,
		},
		{
			name:    "single observation",
			obs:     obsAt(base, []float64{1}, time.Hour),
			wantErr: true,
		},
		{
			name:    "empty series",
			obs:     nil,
			wantErr: true,
		},
		{
			name: "duplicate timestamps",
			obs: []Observation{
				{Time: base, HeightFeet: 1},
				{Time: base, HeightFeet: 2},
			},
			wantErr: true,
		},
		{
			name: "unsorted input is accepted and sorted",
			obs: []Observation{
				{Time: base.Add(time.Hour), HeightFeet: 2},
				{Time: base, HeightFeet: 1},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve, err := NewCurve("9442396", tt.obs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !curve.Start().Equal(base) {
				t.Errorf("curve start = %v, want %v", curve.Start(), base)
			}
		})
	}
}

func TestCurveHeightAt(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	curve, err := NewCurve("9442396", obsAt(base, []float64{2, 6}, time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Midpoint of a linear span interpolates to the mean
	h, err := curve.HeightAt(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(h-4) > 1e-9 {
		t.Errorf("interpolated height = %f, want 4", h)
	}

	// Sample instants return the sample height
	h, err = curve.HeightAt(base.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(h-6) > 1e-9 {
		t.Errorf("height at sample = %f, want 6", h)
	}

	// Outside the curve is an insufficient data error
	_, err = curve.HeightAt(base.Add(-time.Minute))
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Station != "9442396" {
		t.Errorf("error station = %s, want 9442396", insufficient.Station)
	}
}

func TestCurveCoversAndSlice(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	curve, err := NewCurve("9442396", obsAt(base, []float64{1, 2, 3, 4}, time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !curve.Covers(base, base.Add(3*time.Hour)) {
		t.Error("curve should cover its own span")
	}
	if curve.Covers(base, base.Add(4*time.Hour)) {
		t.Error("curve should not cover beyond its last sample")
	}

	within := curve.Slice(base.Add(time.Hour), base.Add(2*time.Hour))
	if len(within) != 2 {
		t.Fatalf("slice returned %d observations, want 2", len(within))
	}
	if within[0].HeightFeet != 2 || within[1].HeightFeet != 3 {
		t.Errorf("slice heights = %v, %v; want 2, 3", within[0].HeightFeet, within[1].HeightFeet)
	}
}

func TestCurveMerge(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	first, err := NewCurve("9442396", obsAt(base, []float64{1, 2, 3}, time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Overlaps the last sample of first
	second, err := NewCurve("9442396", obsAt(base.Add(2*time.Hour), []float64{3, 4, 5}, time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged, err := first.Merge(second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(merged.Observations()); got != 5 {
		t.Errorf("merged curve has %d observations, want 5", got)
	}
	if !merged.Covers(base, base.Add(4*time.Hour)) {
		t.Error("merged curve should cover the combined span")
	}

	other, err := NewCurve("9442391", obsAt(base, []float64{1, 2}, time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := first.Merge(other); err == nil {
		t.Error("expected an error merging curves for different stations")
	}
}
