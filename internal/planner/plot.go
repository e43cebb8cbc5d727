package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/treklab/coasttrek/internal/feasibility"
	"github.com/treklab/coasttrek/internal/tide"
	"github.com/treklab/coasttrek/internal/trail"
)

// PlotPoint is one tide height sample in a plot series.
type PlotPoint struct {
	Time       time.Time `json:"t"`
	HeightFeet float64   `json:"height_ft"`
}

// PlotBand is a tidal restriction rendered over the transit, expressed in
// the time the hiker occupies its span.
type PlotBand struct {
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	ThresholdFeet       float64   `json:"threshold_ft"`
	HeadlandAlternative bool      `json:"headland_alternative"`
}

// PlotResult is the tide-over-transit payload for a single route.
type PlotResult struct {
	Section       string      `json:"section"`
	Direction     string      `json:"direction"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       time.Time   `json:"end_time"`
	DistanceMiles float64     `json:"distance"`
	Series        []PlotPoint `json:"series"`
	Restrictions  []PlotBand  `json:"restrictions"`
	FordHazard    bool        `json:"ford_hazard"`
}

// sampleMargin widens the plotted series past the transit so the curve
// does not cut off exactly at the endpoints. Matches the 6-minute NOAA
// prediction resolution.
const sampleMargin = 6 * time.Minute

// Plot computes the tide series and restriction bands for one transit
// between two locations, starting at a fixed time. The ford-hazard flag
// derives from location metadata, not from the feasibility engine.
func (p *Planner) Plot(ctx context.Context, params PlotParams) (*PlotResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sec, dir, err := trail.SectionForLocations(p.sections, params.StartLocation, params.EndLocation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	loc, err := sec.TimezoneLocation()
	if err != nil {
		return nil, err
	}

	route := sec.Route(dir)
	from, _ := route.LocationIndex(params.StartLocation)
	to, _ := route.LocationIndex(params.EndLocation)
	leg, err := route.Leg(from, to)
	if err != nil {
		return nil, err
	}

	// Re-anchor the requested wall-clock time in the section timezone.
	y, m, d := params.StartTime.Date()
	hh, mm, ss := params.StartTime.Clock()
	start := time.Date(y, m, d, hh, mm, ss, 0, loc)
	end := start.Add(time.Duration(leg.DistanceMiles / params.SpeedMPH * float64(time.Hour)))

	curve, err := p.curveSpanning(ctx, sec.Station, start, end, loc)
	if err != nil {
		return nil, err
	}

	result := &PlotResult{
		Section:       sec.Name,
		Direction:     string(dir),
		StartTime:     start,
		EndTime:       end,
		DistanceMiles: leg.DistanceMiles,
		FordHazard:    leg.FordHazard,
	}
	for _, o := range curve.Slice(start.Add(-sampleMargin), end.Add(sampleMargin)) {
		result.Series = append(result.Series, PlotPoint{Time: o.Time, HeightFeet: o.HeightFeet})
	}
	for _, res := range leg.Restrictions {
		result.Restrictions = append(result.Restrictions, PlotBand{
			Start:               start.Add(time.Duration(res.StartMiles / params.SpeedMPH * float64(time.Hour))),
			End:                 start.Add(time.Duration(res.EndMiles / params.SpeedMPH * float64(time.Hour))),
			ThresholdFeet:       res.ThresholdFeet,
			HeadlandAlternative: res.HeadlandAlternative,
		})
	}
	return result, nil
}

// curveSpanning merges the per-day cached curves covering [start, end].
func (p *Planner) curveSpanning(ctx context.Context, station string, start, end time.Time, loc *time.Location) (*tide.Curve, error) {
	source := p.curveSource()
	var merged *tide.Curve
	for day := atMidnight(start, loc); !day.After(end); day = day.AddDate(0, 0, 1) {
		curve, err := source.Curve(ctx, station, day)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = curve
			continue
		}
		merged, err = merged.Merge(curve)
		if err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// curveSource exposes the calculator's curve source for the plot path.
func (p *Planner) curveSource() feasibility.CurveSource {
	return p.calc.Curves()
}
