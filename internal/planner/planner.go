// Package planner enumerates multi-day campsite partitions of a coast
// route and keeps the combinations for which every daily leg has a
// feasible tide and daylight window.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/treklab/coasttrek/internal/daylight"
	"github.com/treklab/coasttrek/internal/feasibility"
	"github.com/treklab/coasttrek/internal/trail"
	"go.uber.org/zap"
)

// Row is one presentation row of a route search result: one leg of one
// campsite combination on one date.
type Row struct {
	CampsiteCombination int       `json:"campsite_combination"`
	Date                string    `json:"date"`
	StartLocation       string    `json:"start_location"`
	EndLocation         string    `json:"end_location"`
	DistanceMiles       float64   `json:"distance"`
	FirstPossibleStart  time.Time `json:"first_possible_start"`
	LastPossibleStart   time.Time `json:"last_possible_start"`
	FirstPossibleEnd    time.Time `json:"first_possible_end"`
	LastPossibleEnd     time.Time `json:"last_possible_end"`
}

// Planner drives the route search over the static section registry.
type Planner struct {
	sections map[string]*trail.Section
	calc     *feasibility.Calculator
	logger   *zap.SugaredLogger
}

// New creates a planner over the section registry, reading tide curves
// from the given source.
func New(sections map[string]*trail.Section, curves feasibility.CurveSource, logger *zap.SugaredLogger) *Planner {
	return &Planner{
		sections: sections,
		calc:     feasibility.NewCalculator(curves),
		logger:   logger,
	}
}

// Search enumerates every campsite combination for the requested section,
// direction, and date range, and returns one row per feasible leg. An
// empty result is valid and means no feasible combination exists.
func (p *Planner) Search(ctx context.Context, params SearchParams) ([]Row, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	sec, ok := p.sections[params.Section]
	if !ok {
		return nil, fmt.Errorf("%w: unknown section %q", ErrInvalidInput, params.Section)
	}
	loc, err := sec.TimezoneLocation()
	if err != nil {
		return nil, err
	}

	nights := daysBetween(params.StartDate, params.EndDate)
	rows := []Row{}
	if nights == 0 {
		// A zero-length date range offers no full hiking day.
		return rows, nil
	}

	route := sec.Route(params.Direction)
	partitions := enumeratePartitions(route, nights+1, params.MinDailyDistance, params.MaxDailyDistance)
	p.logger.Debugf("%d candidate campsite combinations for section %s over %d days",
		len(partitions), sec.Name, nights+1)

	startDay := atMidnight(params.StartDate, loc)
	eval := newLegEvaluator(p.calc, sec)

	for ordinal, stops := range partitions {
		legRows, feasible, err := p.evaluatePartition(ctx, eval, route, stops, startDay, ordinal, params)
		if err != nil {
			return nil, err
		}
		if feasible {
			rows = append(rows, legRows...)
		}
	}
	return rows, nil
}

// evaluatePartition checks every leg of one candidate partition. The whole
// combination is accepted only when every leg has a non-empty window.
func (p *Planner) evaluatePartition(ctx context.Context, eval *legEvaluator, route *trail.Route,
	stops []int, startDay time.Time, ordinal int, params SearchParams) ([]Row, bool, error) {

	rows := make([]Row, 0, len(stops)-1)
	for i := 0; i < len(stops)-1; i++ {
		day := startDay.AddDate(0, 0, i)
		leg, err := route.Leg(stops[i], stops[i+1])
		if err != nil {
			return nil, false, err
		}

		res, err := eval.evaluate(ctx, leg, stops[i], stops[i+1], day, params)
		if err != nil {
			return nil, false, err
		}
		if res == nil {
			return nil, false, nil
		}

		rows = append(rows, Row{
			CampsiteCombination: ordinal,
			Date:                day.Format("2006-01-02"),
			StartLocation:       leg.Start.Name,
			EndLocation:         leg.End.Name,
			DistanceMiles:       leg.DistanceMiles,
			FirstPossibleStart:  res.Window.FirstStart,
			LastPossibleStart:   res.Window.LastStart,
			FirstPossibleEnd:    res.Window.FirstEnd,
			LastPossibleEnd:     res.Window.LastEnd,
		})
	}
	return rows, true, nil
}

// enumeratePartitions lists every strictly increasing choice of campsite
// stops that splits the route into the required number of legs, each
// within the daily distance bounds. Partitions come out in lexicographic
// stop-index order, which fixes the combination ordinals across identical
// requests.
func enumeratePartitions(route *trail.Route, legs int, minDaily, maxDaily float64) [][]int {
	last := len(route.Locations) - 1
	campsites := route.CampsiteIndexes()
	dist := func(i int) float64 { return route.Locations[i].DistanceMiles }

	var partitions [][]int
	stops := make([]int, 1, legs+1)
	stops[0] = 0

	var walk func(prev, remaining int)
	walk = func(prev, remaining int) {
		if remaining == 1 {
			d := dist(last) - dist(prev)
			if d >= minDaily && d <= maxDaily {
				final := append(append([]int(nil), stops...), last)
				partitions = append(partitions, final)
			}
			return
		}
		for _, ci := range campsites {
			if ci <= prev {
				continue
			}
			d := dist(ci) - dist(prev)
			if d > maxDaily {
				// Campsites only get farther; nothing beyond can fit.
				break
			}
			if d < minDaily {
				continue
			}
			stops = append(stops, ci)
			walk(ci, remaining-1)
			stops = stops[:len(stops)-1]
		}
	}
	walk(0, legs)
	return partitions
}

// legEvaluator memoizes per-request leg evaluations and daylight windows,
// since partitions share legs and days.
type legEvaluator struct {
	calc     *feasibility.Calculator
	section  *trail.Section
	legs     map[string]*feasibility.Result
	daylight map[string]daylight.Window
	dark     map[string]bool
}

func newLegEvaluator(calc *feasibility.Calculator, sec *trail.Section) *legEvaluator {
	return &legEvaluator{
		calc:     calc,
		section:  sec,
		legs:     make(map[string]*feasibility.Result),
		daylight: make(map[string]daylight.Window),
		dark:     make(map[string]bool),
	}
}

func (e *legEvaluator) evaluate(ctx context.Context, leg trail.Leg, from, to int,
	day time.Time, params SearchParams) (*feasibility.Result, error) {

	key := fmt.Sprintf("%d-%d-%s", from, to, day.Format("2006-01-02"))
	if res, ok := e.legs[key]; ok {
		return res, nil
	}

	dw, dark, err := e.daylightFor(day)
	if err != nil {
		return nil, err
	}
	if dark {
		e.legs[key] = nil
		return nil, nil
	}

	res, err := e.calc.Evaluate(ctx, feasibility.Request{
		Leg:        leg,
		Day:        day,
		Station:    e.section.Station,
		SpeedMPH:   params.SpeedMPH,
		BufferFeet: params.BufferFeet,
		Daylight:   dw,
	})
	if err != nil {
		return nil, err
	}
	e.legs[key] = res
	return res, nil
}

func (e *legEvaluator) daylightFor(day time.Time) (daylight.Window, bool, error) {
	key := day.Format("2006-01-02")
	if dw, ok := e.daylight[key]; ok {
		return dw, e.dark[key], nil
	}
	dw, err := daylight.Compute(day, e.section.Latitude, e.section.Longitude)
	if errors.Is(err, daylight.ErrPolarNight) {
		// No daylight means no feasible legs that day, not a failure.
		e.daylight[key] = daylight.Window{}
		e.dark[key] = true
		return daylight.Window{}, true, nil
	}
	if err != nil {
		return daylight.Window{}, false, err
	}
	e.daylight[key] = dw
	e.dark[key] = false
	return dw, false, nil
}

// atMidnight anchors a civil date at local midnight in the given timezone.
func atMidnight(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}
