package tide

import (
	"time"
)

// SafeWindows returns the ordered, non-overlapping intervals within
// [from, to] during which the interpolated tide height is at or below
// threshold. The boundary is closed: a height exactly equal to the
// threshold counts as safe. Fails with InsufficientDataError when the
// curve does not cover [from, to].
func (c *Curve) SafeWindows(threshold float64, from, to time.Time) ([]Interval, error) {
	if from.After(to) {
		from, to = to, from
	}
	if !c.Covers(from, to) {
		return nil, &InsufficientDataError{Station: c.station, From: from, To: to, Have: Interval{c.Start(), c.End()}}
	}

	// Build the sample walk over [from, to] with interpolated heights at
	// the exact boundary instants, so windows can start and end there.
	type sample struct {
		t time.Time
		h float64
	}
	samples := []sample{{from, c.predictor.Predict(float64(from.UnixMilli()))}}
	for _, o := range c.obs {
		if !o.Time.After(from) || !o.Time.Before(to) {
			continue
		}
		samples = append(samples, sample{o.Time, o.HeightFeet})
	}
	samples = append(samples, sample{to, c.predictor.Predict(float64(to.UnixMilli()))})

	var windows []Interval
	extend := func(start, end time.Time) {
		if n := len(windows); n > 0 && !windows[n-1].End.Before(start) {
			windows[n-1].End = end
			return
		}
		windows = append(windows, Interval{Start: start, End: end})
	}

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		safePrev := prev.h <= threshold
		safeCur := cur.h <= threshold
		switch {
		case safePrev && safeCur:
			extend(prev.t, cur.t)
		case safePrev && !safeCur:
			extend(prev.t, crossing(prev.t, prev.h, cur.t, cur.h, threshold))
		case !safePrev && safeCur:
			extend(crossing(prev.t, prev.h, cur.t, cur.h, threshold), cur.t)
		}
	}
	return windows, nil
}

// crossing linearly interpolates the instant at which the tide passes
// through the threshold between two samples that straddle it.
func crossing(t1 time.Time, h1 float64, t2 time.Time, h2 float64, threshold float64) time.Time {
	span := t2.Sub(t1)
	frac := (threshold - h1) / (h2 - h1)
	return t1.Add(time.Duration(frac * float64(span)))
}
