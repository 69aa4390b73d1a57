package service

import (
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
)

// timeProvider implements interfaces.TimeProvider by calling the injected now func.
type timeProvider struct {
	now func() time.Time
}

// NewTimeProvider creates a TimeProvider that returns time via the given now func. Panics on nil now.
//
// Built in cmd with time.Now().UTC and shared by the registry, eviction task, replication
// batchers and client caches.
func NewTimeProvider(now func() time.Time) interfaces.TimeProvider {
	return &timeProvider{now: helpers.NilPanic(now, "service.time_provider.go: now is required")}
}

// Now returns the time from the injected function.
func (t *timeProvider) Now() time.Time {
	return t.now()
}
