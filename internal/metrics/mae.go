// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package metrics

import (
	"errors"
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMAEWindow is the number of recent observations averaged by a
// MAETracker when no window is configured.
const DefaultMAEWindow = 500

// ErrNonFiniteObservation is returned when a prediction or outcome is NaN or infinite.
var ErrNonFiniteObservation = errors.New("observation must be finite")

// MAETracker maintains the mean absolute error of predictions over a sliding
// window of observed outcomes and mirrors it into a gauge.
type MAETracker struct {
	mu     sync.Mutex
	errs   []float64
	next   int
	filled bool
	sum    float64
	total  uint64
	gauge  prometheus.Gauge
}

// NewMAETracker creates a tracker over the last window observations. A
// non-positive window uses DefaultMAEWindow. A nil gauge disables export.
func NewMAETracker(window int, gauge prometheus.Gauge) *MAETracker {
	if window <= 0 {
		window = DefaultMAEWindow
	}
	return &MAETracker{
		errs:  make([]float64, window),
		gauge: gauge,
	}
}

// Observe records one predicted/actual pair and returns the window MAE.
func (t *MAETracker) Observe(predicted, actual float64) (float64, error) {
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) || math.IsNaN(actual) || math.IsInf(actual, 0) {
		return 0, ErrNonFiniteObservation
	}

	absErr := math.Abs(predicted - actual)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filled {
		t.sum -= t.errs[t.next]
	}
	t.errs[t.next] = absErr
	t.sum += absErr
	t.next++
	if t.next == len(t.errs) {
		t.next = 0
		t.filled = true
	}
	t.total++

	mae := t.meanLocked()
	if t.gauge != nil {
		t.gauge.Set(mae)
	}
	OutcomesObserved.Inc()
	return mae, nil
}

// MAE returns the current window mean absolute error, 0 when empty.
func (t *MAETracker) MAE() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meanLocked()
}

// Count returns the number of observations currently in the window.
func (t *MAETracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countLocked()
}

// Total returns the number of observations recorded since creation.
func (t *MAETracker) Total() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Window returns the window size.
func (t *MAETracker) Window() int {
	return len(t.errs)
}

func (t *MAETracker) countLocked() int {
	if t.filled {
		return len(t.errs)
	}
	return t.next
}

func (t *MAETracker) meanLocked() float64 {
	n := t.countLocked()
	if n == 0 {
		return 0
	}
	// Clamp accumulated rounding drift from repeated subtraction.
	if t.sum < 0 {
		return 0
	}
	return t.sum / float64(n)
}
