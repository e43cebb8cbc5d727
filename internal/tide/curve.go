// Package tide models predicted tide curves and extracts safe-crossing
// time windows from them. A curve is a time-ordered sequence of height
// observations for one station, treated as piecewise-linear between
// samples.
package tide

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/interp"
)

// Observation is a single predicted tide height sample.
type Observation struct {
	Time       time.Time `json:"t" msgpack:"t"`
	HeightFeet float64   `json:"v" msgpack:"v"`
}

// Curve is an ordered tide prediction series for one station.
type Curve struct {
	station   string
	obs       []Observation
	predictor interp.PiecewiseLinear
}

// NewCurve builds a curve from a prediction series. Observations are sorted
// by time; at least two are required and times must not repeat.
func NewCurve(station string, obs []Observation) (*Curve, error) {
	if len(obs) < 2 {
		return nil, fmt.Errorf("tide curve for station %s needs at least two observations, got %d", station, len(obs))
	}
	sorted := append([]Observation(nil), obs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, o := range sorted {
		xs[i] = float64(o.Time.UnixMilli())
		ys[i] = o.HeightFeet
		if i > 0 && !sorted[i].Time.After(sorted[i-1].Time) {
			return nil, fmt.Errorf("tide curve for station %s has duplicate observation at %v", station, o.Time)
		}
	}

	c := &Curve{station: station, obs: sorted}
	if err := c.predictor.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting tide curve for station %s: %v", station, err)
	}
	return c, nil
}

// Station returns the tide station this curve was predicted for.
func (c *Curve) Station() string { return c.station }

// Observations returns the underlying samples in time order.
func (c *Curve) Observations() []Observation { return c.obs }

// Start returns the time of the first observation.
func (c *Curve) Start() time.Time { return c.obs[0].Time }

// End returns the time of the last observation.
func (c *Curve) End() time.Time { return c.obs[len(c.obs)-1].Time }

// Covers reports whether the curve spans the whole interval [from, to].
func (c *Curve) Covers(from, to time.Time) bool {
	return !c.Start().After(from) && !c.End().Before(to)
}

// HeightAt returns the interpolated tide height at t. It fails with
// InsufficientDataError when t falls outside the curve.
func (c *Curve) HeightAt(t time.Time) (float64, error) {
	if !c.Covers(t, t) {
		return 0, &InsufficientDataError{Station: c.station, From: t, To: t, Have: Interval{c.Start(), c.End()}}
	}
	return c.predictor.Predict(float64(t.UnixMilli())), nil
}

// Slice returns the observations within [from, to], inclusive.
func (c *Curve) Slice(from, to time.Time) []Observation {
	var out []Observation
	for _, o := range c.obs {
		if o.Time.Before(from) || o.Time.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Merge combines this curve with another for the same station into one
// ordered curve, dropping duplicate sample times.
func (c *Curve) Merge(other *Curve) (*Curve, error) {
	if other.station != c.station {
		return nil, fmt.Errorf("cannot merge curves for stations %s and %s", c.station, other.station)
	}
	seen := make(map[int64]bool, len(c.obs)+len(other.obs))
	merged := make([]Observation, 0, len(c.obs)+len(other.obs))
	for _, o := range append(append([]Observation(nil), c.obs...), other.obs...) {
		key := o.Time.UnixMilli()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, o)
	}
	return NewCurve(c.station, merged)
}

// Interval is a closed time interval.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// InsufficientDataError indicates a tide curve does not cover the time span
// a computation needs. It signals a reference-data or provider problem, not
// a legitimate infeasibility.
type InsufficientDataError struct {
	Station string
	From    time.Time
	To      time.Time
	Have    Interval
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("tide data for station %s covers [%v, %v] but [%v, %v] is required",
		e.Station, e.Have.Start, e.Have.End, e.From, e.To)
}
