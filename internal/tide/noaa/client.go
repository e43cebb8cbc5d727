// Package noaa fetches tide predictions from the NOAA CO-OPS API.
// Fetching is the only blocking I/O in the route pipeline; transient
// failures are retried with bounded exponential backoff and the request
// fails with ErrUnavailable once attempts are exhausted.
package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/treklab/coasttrek/internal/tide"
	"go.uber.org/zap"
)

// DefaultBaseURL is the NOAA CO-OPS data getter endpoint.
const DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// ErrUnavailable indicates the tide service could not be reached after all
// retry attempts.
var ErrUnavailable = errors.New("tide service unavailable")

// RetryPolicy bounds the retry loop around a prediction fetch.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay computes the backoff before the given zero-based retry attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(1<<attempt) // Exponential backoff
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// DefaultRetryPolicy matches the bounded backoff the service uses unless
// configured otherwise.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 4,
	BaseDelay:   time.Second,
	MaxDelay:    30 * time.Second,
}

// Client fetches tide predictions for a station and date range.
type Client struct {
	baseURL string
	hc      *http.Client
	retry   RetryPolicy
	logger  *zap.SugaredLogger
}

// NewClient creates a NOAA predictions client. An empty baseURL selects the
// production CO-OPS endpoint.
func NewClient(baseURL string, timeout time.Duration, retry RetryPolicy, logger *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		retry:   retry,
		logger:  logger,
	}
}

type predictionsResponse struct {
	Predictions []struct {
		T string `json:"t"`
		V string `json:"v"`
	} `json:"predictions"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Predictions fetches the predicted tide heights for one station on one
// local calendar day. Timestamps are returned in the day's timezone, which
// matches the station-local times NOAA reports for time_zone=lst_ldt.
func (c *Client) Predictions(ctx context.Context, station string, day time.Time) ([]tide.Observation, error) {
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.retry.Delay(attempt - 1)
			c.logger.Warnf("retrying tide fetch for station %s in %v (attempt %d/%d): %v",
				station, delay, attempt+1, c.retry.MaxAttempts, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		obs, retryable, err := c.fetch(ctx, station, day)
		if err == nil {
			return obs, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: station %s: %v", ErrUnavailable, station, lastErr)
}

func (c *Client) fetch(ctx context.Context, station string, day time.Time) ([]tide.Observation, bool, error) {
	strDate := day.Format("20060102")
	params := url.Values{
		"begin_date": {strDate},
		"end_date":   {strDate},
		"product":    {"predictions"},
		"datum":      {"MLLW"},
		"units":      {"english"},
		"time_zone":  {"lst_ldt"},
		"station":    {station},
		"format":     {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("building tide request: %v", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetching tide predictions: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("tide service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("tide service returned status %d", resp.StatusCode)
	}

	var parsed predictionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, true, fmt.Errorf("decoding tide predictions: %v", err)
	}
	if parsed.Error != nil {
		// NOAA reports bad stations and empty date ranges in-band; these
		// will not succeed on retry.
		return nil, false, fmt.Errorf("tide service error: %s", parsed.Error.Message)
	}

	obs := make([]tide.Observation, 0, len(parsed.Predictions))
	for _, p := range parsed.Predictions {
		ts, err := time.ParseInLocation("2006-01-02 15:04", p.T, day.Location())
		if err != nil {
			return nil, false, fmt.Errorf("parsing prediction timestamp %q: %v", p.T, err)
		}
		height, err := strconv.ParseFloat(p.V, 64)
		if err != nil {
			return nil, false, fmt.Errorf("parsing prediction height %q: %v", p.V, err)
		}
		obs = append(obs, tide.Observation{Time: ts, HeightFeet: height})
	}
	return obs, true, nil
}
