package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/treklab/coasttrek/internal/constants"
	"github.com/treklab/coasttrek/internal/trail"
)

// ErrInvalidInput marks a user input error; requests failing with it are
// rejected and never retried.
var ErrInvalidInput = errors.New("invalid input")

// SearchParams is the validated request for a route search. Dates carry
// only their calendar components; the planner anchors them in the
// section's timezone.
type SearchParams struct {
	Section          string
	Direction        trail.Direction
	StartDate        time.Time
	EndDate          time.Time
	SpeedMPH         float64
	MinDailyDistance float64
	MaxDailyDistance float64
	BufferFeet       float64
}

// Validate applies the range checks performed once at the request
// boundary.
func (p SearchParams) Validate() error {
	if p.Section == "" {
		return fmt.Errorf("%w: section is required", ErrInvalidInput)
	}
	if _, err := trail.ParseDirection(string(p.Direction)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidInput)
	}
	if nights := daysBetween(p.StartDate, p.EndDate); nights > constants.MaxTripSpanDays {
		return fmt.Errorf("%w: date span of %d days exceeds the maximum of %d",
			ErrInvalidInput, nights, constants.MaxTripSpanDays)
	}
	if p.SpeedMPH <= 0 {
		return fmt.Errorf("%w: the hiking speed must be a positive number", ErrInvalidInput)
	}
	if p.MinDailyDistance <= 0 || p.MaxDailyDistance <= 0 {
		return fmt.Errorf("%w: daily distances must be positive", ErrInvalidInput)
	}
	if p.MaxDailyDistance < p.MinDailyDistance {
		return fmt.Errorf("%w: the maximum daily distance is less than the minimum daily distance", ErrInvalidInput)
	}
	if p.BufferFeet < 0 {
		return fmt.Errorf("%w: min_buffer must not be negative", ErrInvalidInput)
	}
	return nil
}

// PlotParams is the validated request for a single-route tide plot.
type PlotParams struct {
	StartLocation string
	EndLocation   string
	StartTime     time.Time
	SpeedMPH      float64
}

// Validate applies the range checks performed once at the request
// boundary.
func (p PlotParams) Validate() error {
	if p.StartLocation == "" || p.EndLocation == "" {
		return fmt.Errorf("%w: start_location and end_location are required", ErrInvalidInput)
	}
	if p.StartLocation == p.EndLocation {
		return fmt.Errorf("%w: start and end locations must be different", ErrInvalidInput)
	}
	if p.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}
	if p.SpeedMPH <= 0 {
		return fmt.Errorf("%w: the hiking speed must be a positive number", ErrInvalidInput)
	}
	return nil
}

// daysBetween counts whole calendar days from a to b, ignoring clock time.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}
