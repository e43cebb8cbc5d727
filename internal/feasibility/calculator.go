// Package feasibility computes, for one trail leg on one calendar day,
// the departure-time windows for which every tidal restriction and the
// daylight constraint are satisfied. The calculator is a pure function of
// its inputs; tide curves arrive through an injected source.
package feasibility

import (
	"context"
	"time"

	"github.com/treklab/coasttrek/internal/daylight"
	"github.com/treklab/coasttrek/internal/tide"
	"github.com/treklab/coasttrek/internal/trail"
)

// CurveSource supplies the tide curve covering one local calendar day for
// a station. Implementations may read through a cache.
type CurveSource interface {
	Curve(ctx context.Context, station string, day time.Time) (*tide.Curve, error)
}

// Window is the exposed feasibility window for a leg: the outer envelope
// of all feasible departure intervals, with the corresponding arrivals.
// When the feasible set is disjoint the gap between windows is not
// representable here; Result.Departures retains the exact set.
type Window struct {
	FirstStart time.Time
	LastStart  time.Time
	FirstEnd   time.Time
	LastEnd    time.Time
}

// Result is a feasible leg evaluation.
type Result struct {
	Window     Window
	Departures []tide.Interval
	Transit    time.Duration
}

// Request describes one leg evaluation.
type Request struct {
	Leg        trail.Leg
	Day        time.Time // local midnight of the hiking day
	Station    string
	SpeedMPH   float64
	BufferFeet float64
	Daylight   daylight.Window
}

// Calculator evaluates leg feasibility against tide and daylight windows.
type Calculator struct {
	curves CurveSource
}

// NewCalculator creates a calculator reading tide curves from the source.
func NewCalculator(curves CurveSource) *Calculator {
	return &Calculator{curves: curves}
}

// Curves returns the calculator's tide curve source.
func (c *Calculator) Curves() CurveSource {
	return c.curves
}

// Evaluate computes the feasible departure windows for a leg. A nil Result
// with a nil error means the leg is infeasible on that day. Errors are
// reserved for missing tide data and failed fetches.
func (c *Calculator) Evaluate(ctx context.Context, req Request) (*Result, error) {
	transit := travelTime(req.Leg.DistanceMiles, req.SpeedMPH)

	// Daylight bound: depart no earlier than sunrise, arrive no later
	// than sunset.
	lastStart := req.Daylight.Sunset.Add(-transit)
	if lastStart.Before(req.Daylight.Sunrise) {
		return nil, nil
	}
	departures := []tide.Interval{{Start: req.Daylight.Sunrise, End: lastStart}}

	for _, res := range req.Leg.Restrictions {
		if res.HeadlandAlternative {
			// An inland bypass exists, so the tide never blocks this span.
			continue
		}

		curve, err := c.curves.Curve(ctx, req.Station, req.Day)
		if err != nil {
			return nil, err
		}

		threshold := res.ThresholdFeet - req.BufferFeet
		safe, err := curve.SafeWindows(threshold, req.Daylight.Sunrise, req.Daylight.Sunset)
		if err != nil {
			return nil, err
		}

		// The hiker occupies the restricted span during
		// [t + start/speed, t + end/speed]; the transit must sit fully
		// inside one safe window, so shift each window back by those
		// offsets to get the admissible departure times.
		intoSpan := travelTime(res.StartMiles, req.SpeedMPH)
		outOfSpan := travelTime(res.EndMiles, req.SpeedMPH)
		var admissible []tide.Interval
		for _, w := range safe {
			if shifted, ok := shift(w, intoSpan, outOfSpan); ok {
				admissible = append(admissible, shifted)
			}
		}

		departures = intersect(departures, admissible)
		if len(departures) == 0 {
			return nil, nil
		}
	}

	outer := envelope(departures)
	return &Result{
		Window: Window{
			FirstStart: outer.Start,
			LastStart:  outer.End,
			FirstEnd:   outer.Start.Add(transit),
			LastEnd:    outer.End.Add(transit),
		},
		Departures: departures,
		Transit:    transit,
	}, nil
}

// travelTime converts a distance at a hiking speed into a duration.
func travelTime(miles, speedMPH float64) time.Duration {
	return time.Duration(miles / speedMPH * float64(time.Hour))
}
