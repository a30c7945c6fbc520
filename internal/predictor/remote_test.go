// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bullpen/internal/models"
)

func newRemote(t *testing.T, url, name string) *RemotePredictor {
	t.Helper()

	p, err := NewRemotePredictor(RemoteConfig{URL: url, KBatters: 3, BreakerName: name, Timeout: time.Second}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRemotePredictor() error: %v", err)
	}
	return p
}

func TestRemotePredictor_Predict(t *testing.T) {
	t.Parallel()

	var got predictRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expected_runs": 0.42}`))
	}))
	defer server.Close()

	p := newRemote(t, server.URL+"/", "test-remote-ok")
	state := mustState(t, models.GameStateParams{Inning: 9, Bases: models.BasesLoaded, ParkID: "NYY"})

	v, err := p.Predict(context.Background(), state, models.Candidate{ID: "R7", Throws: models.HandLeft, DaysSinceLastOuting: 1})
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if v != 0.42 {
		t.Errorf("Predict() = %v, want 0.42", v)
	}
	if got.RelieverID != "R7" || got.KBatters != 3 || got.Features.RunnersOn != 3 || got.Features.ParkID != "NYY" {
		t.Errorf("request = %+v", got)
	}
}

func TestRemotePredictor_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model crashed", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("error = %v, want StatusError 500", err)
				}
			},
		},
		{
			name: "missing expected_runs",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"runs": 1}`))
			},
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Error("expected error for missing field")
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Error("expected decode error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := newRemote(t, server.URL, "test-remote-"+tt.name)
			_, err := p.Predict(context.Background(), mustState(t, models.GameStateParams{}), models.Candidate{ID: "x", Throws: models.HandRight})
			tt.check(t, err)
		})
	}
}

func TestRemotePredictor_CircuitOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := newRemote(t, server.URL, "test-remote-trip")
	state := mustState(t, models.GameStateParams{})
	c := models.Candidate{ID: "x", Throws: models.HandRight}

	for i := 0; i < 12 && p.State() != gobreaker.StateOpen; i++ {
		_, _ = p.Predict(context.Background(), state, c)
	}
	if p.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", p.State())
	}

	before := calls.Load()
	_, err := p.Predict(context.Background(), state, c)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if calls.Load() != before {
		t.Error("open breaker still reached the server")
	}
}

func TestRemotePredictor_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expected_runs": 1}`))
	}))
	defer server.Close()

	p, err := NewRemotePredictor(RemoteConfig{URL: server.URL, RateLimit: 0.001, Burst: 1, BreakerName: "test-remote-limit"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRemotePredictor() error: %v", err)
	}

	state := mustState(t, models.GameStateParams{})
	c := models.Candidate{ID: "x", Throws: models.HandRight}

	if _, err := p.Predict(context.Background(), state, c); err != nil {
		t.Fatalf("first Predict() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Predict(ctx, state, c); err == nil {
		t.Error("expected rate limiter error once the burst is spent")
	}
}

func TestNewRemotePredictor_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"", "   ", "models:9000", "ftp://models"} {
		if _, err := NewRemotePredictor(RemoteConfig{URL: url}, zerolog.Nop()); err == nil {
			t.Errorf("NewRemotePredictor(%q) expected error", url)
		}
	}
}

func TestStateToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := StateToString(tt.state); got != tt.str {
			t.Errorf("StateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := StateToFloat(tt.state); got != tt.num {
			t.Errorf("StateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
