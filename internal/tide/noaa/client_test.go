package noaa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const predictionsBody = `{"predictions":[
	{"t":"2024-06-10 00:00","v":"3.214"},
	{"t":"2024-06-10 00:06","v":"3.185"},
	{"t":"2024-06-10 00:12","v":"3.156"}
]}`

func fastRetry(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func testClient(baseURL string, attempts int) *Client {
	return NewClient(baseURL, 2*time.Second, fastRetry(attempts), zap.NewNop().Sugar())
}

func TestPredictions(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"station":    q.Get("station"),
			"begin_date": q.Get("begin_date"),
			"end_date":   q.Get("end_date"),
			"product":    q.Get("product"),
			"datum":      q.Get("datum"),
			"units":      q.Get("units"),
			"time_zone":  q.Get("time_zone"),
		}
		w.Write([]byte(predictionsBody))
	}))
	defer server.Close()

	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)

	obs, err := testClient(server.URL, 1).Predictions(context.Background(), "9442396", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("got %d observations, want 3", len(obs))
	}
	if !obs[0].Time.Equal(day) {
		t.Errorf("first observation at %v, want %v", obs[0].Time, day)
	}
	if obs[0].Time.Location() != loc {
		t.Errorf("observation timezone = %v, want %v", obs[0].Time.Location(), loc)
	}
	if obs[1].HeightFeet != 3.185 {
		t.Errorf("second height = %f, want 3.185", obs[1].HeightFeet)
	}

	want := map[string]string{
		"station":    "9442396",
		"begin_date": "20240610",
		"end_date":   "20240610",
		"product":    "predictions",
		"datum":      "MLLW",
		"units":      "english",
		"time_zone":  "lst_ldt",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestPredictionsRetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(predictionsBody))
	}))
	defer server.Close()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	obs, err := testClient(server.URL, 4).Predictions(context.Background(), "9442396", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs) != 3 {
		t.Errorf("got %d observations, want 3", len(obs))
	}
	if hits != 3 {
		t.Errorf("server hit %d times, want 3", hits)
	}
}

func TestPredictionsExhaustsRetries(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := testClient(server.URL, 3).Predictions(context.Background(), "9442396", day)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if hits != 3 {
		t.Errorf("server hit %d times, want 3", hits)
	}
}

func TestPredictionsInBandErrorIsPermanent(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"error":{"message":"No Predictions data was found."}}`))
	}))
	defer server.Close()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := testClient(server.URL, 4).Predictions(context.Background(), "9442000", day)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Errorf("in-band error should not be reported as unavailability: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 without retries", hits)
	}
}

func TestPredictionsClientErrorIsPermanent(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := testClient(server.URL, 4).Predictions(context.Background(), "9442396", day)
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want a permanent failure", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 without retries", hits)
	}
}

func TestPredictionsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	// A generous backoff keeps the client waiting so cancellation wins.
	client := NewClient(server.URL, 2*time.Second,
		RetryPolicy{MaxAttempts: 3, BaseDelay: time.Minute, MaxDelay: time.Minute}, zap.NewNop().Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := client.Predictions(ctx, "9442396", day)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 6, BaseDelay: time.Second, MaxDelay: 30 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // capped
		{8, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := policy.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
