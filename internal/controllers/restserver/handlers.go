package restserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/treklab/coasttrek/internal/constants"
	"github.com/treklab/coasttrek/internal/planner"
	"github.com/treklab/coasttrek/internal/tide"
	"github.com/treklab/coasttrek/internal/tide/noaa"
	"github.com/treklab/coasttrek/internal/trail"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

// GetRoutes handles the route search operation.
func (h *Handlers) GetRoutes(w http.ResponseWriter, req *http.Request) {
	params, err := parseSearchParams(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.controller.planner.Search(req.Context(), params)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, rows)
}

// GetTidePlot handles the single-route tide plot operation.
func (h *Handlers) GetTidePlot(w http.ResponseWriter, req *http.Request) {
	params, err := parsePlotParams(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.controller.planner.Plot(req.Context(), params)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, result)
}

// GetHealth responds to health checks.
func (h *Handlers) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func (h *Handlers) writeEngineError(w http.ResponseWriter, err error) {
	var insufficient *tide.InsufficientDataError
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &insufficient):
		h.controller.logger.Errorf("tide data did not cover the requested span: %v", err)
		http.Error(w, "tide data does not cover the requested span", http.StatusBadGateway)
	case errors.Is(err, noaa.ErrUnavailable):
		h.controller.logger.Errorf("tide provider unavailable: %v", err)
		http.Error(w, "tide service unavailable", http.StatusServiceUnavailable)
	default:
		h.controller.logger.Errorf("route search failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// parseSearchParams converts the query string into a typed, range-checked
// parameter record. Optional parameters fall back to the recommended
// defaults.
func parseSearchParams(req *http.Request) (planner.SearchParams, error) {
	q := req.URL.Query()
	params := planner.SearchParams{
		Section:          q.Get("section"),
		Direction:        trail.Direction(q.Get("direction")),
		SpeedMPH:         constants.DefaultSpeedMPH,
		MinDailyDistance: constants.DefaultMinDailyDistanceMiles,
		MaxDailyDistance: constants.DefaultMaxDailyDistanceMiles,
		BufferFeet:       constants.DefaultBufferFeet,
	}

	var err error
	if params.StartDate, err = parseDate(q.Get("start_date")); err != nil {
		return params, errors.New("start_date must be a date in YYYY-MM-DD form")
	}
	if params.EndDate, err = parseDate(q.Get("end_date")); err != nil {
		return params, errors.New("end_date must be a date in YYYY-MM-DD form")
	}
	if err := parseFloat(q.Get("speed"), &params.SpeedMPH); err != nil {
		return params, errors.New("speed must be a number")
	}
	if err := parseFloat(q.Get("min_daily_distance"), &params.MinDailyDistance); err != nil {
		return params, errors.New("min_daily_distance must be a number")
	}
	if err := parseFloat(q.Get("max_daily_distance"), &params.MaxDailyDistance); err != nil {
		return params, errors.New("max_daily_distance must be a number")
	}
	if err := parseFloat(q.Get("min_buffer"), &params.BufferFeet); err != nil {
		return params, errors.New("min_buffer must be a number")
	}
	return params, nil
}

func parsePlotParams(req *http.Request) (planner.PlotParams, error) {
	q := req.URL.Query()
	params := planner.PlotParams{
		StartLocation: q.Get("start_location"),
		EndLocation:   q.Get("end_location"),
		SpeedMPH:      constants.DefaultSpeedMPH,
	}

	var err error
	if params.StartTime, err = parseTimestamp(q.Get("start_time")); err != nil {
		return params, errors.New("start_time must be an RFC 3339 or YYYY-MM-DDTHH:MM timestamp")
	}
	if err := parseFloat(q.Get("speed"), &params.SpeedMPH); err != nil {
		return params, errors.New("speed must be a number")
	}
	return params, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	return time.Parse("2006-01-02", s)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", s)
}

func parseFloat(s string, dst *float64) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
