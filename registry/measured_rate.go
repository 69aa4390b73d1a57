package registry

import (
	"context"
	"sync/atomic"
	"time"
)

// MeasuredRate counts events per fixed window and reports the count of the last complete
// window.
type MeasuredRate struct {
	window  time.Duration
	current atomic.Int64
	last    atomic.Int64
}

// NewMeasuredRate creates a rate measured over window (one minute for renewals).
func NewMeasuredRate(window time.Duration) *MeasuredRate {
	return &MeasuredRate{window: window}
}

// Increment counts one event in the current window.
func (r *MeasuredRate) Increment() {
	r.current.Add(1)
}

// Count returns the number of events in the previous window.
func (r *MeasuredRate) Count() int {
	return int(r.last.Load())
}

// rotate closes the current window.
func (r *MeasuredRate) rotate() {
	r.last.Store(r.current.Swap(0))
}

// Run rotates the window until ctx is done.
func (r *MeasuredRate) Run(ctx context.Context) {
	ticker := time.NewTicker(r.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.rotate()
		}
	}
}
