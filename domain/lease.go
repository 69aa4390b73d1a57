package domain

import "time"

// Lease is a time-bounded claim of liveness for one holder, renewed by heartbeat.
//
// A lease is expired iff now - LastRenewalTimestamp > Duration, or once it has been cancelled.
// The server-side slack is passed to IsExpired by the eviction sweep only.
type Lease[T any] struct {
	Holder                T
	RegistrationTimestamp time.Time
	LastRenewalTimestamp  time.Time
	EvictionTimestamp     time.Time
	ServiceUpTimestamp    time.Time
	Duration              time.Duration
	// Source is the origin of the last write to this lease.
	Source Source
}

// NewLease creates a lease registered and renewed at now. A non-positive duration falls back to 90s.
func NewLease[T any](holder T, duration time.Duration, source Source, now time.Time) *Lease[T] {
	if duration <= 0 {
		duration = DefaultDurationInSecs * time.Second
	}
	return &Lease[T]{
		Holder:                holder,
		RegistrationTimestamp: now,
		LastRenewalTimestamp:  now,
		Duration:              duration,
		Source:                source,
	}
}

// Renew records a heartbeat at now.
func (l *Lease[T]) Renew(now time.Time) {
	l.LastRenewalTimestamp = now
}

// Cancel stamps the eviction time. Only the first call has an effect.
func (l *Lease[T]) Cancel(now time.Time) {
	if l.EvictionTimestamp.IsZero() {
		l.EvictionTimestamp = now
	}
}

// ServiceUp stamps the first time the holder was seen UP.
func (l *Lease[T]) ServiceUp(now time.Time) {
	if l.ServiceUpTimestamp.IsZero() {
		l.ServiceUpTimestamp = now
	}
}

// IsExpired reports whether the lease is cancelled or has not been renewed within
// Duration+additional.
func (l *Lease[T]) IsExpired(now time.Time, additional time.Duration) bool {
	if !l.EvictionTimestamp.IsZero() {
		return true
	}
	return now.Sub(l.LastRenewalTimestamp) > l.Duration+additional
}

// ExpiredAt returns the time at which the lease ran out: its eviction time when cancelled,
// otherwise last renewal plus duration.
func (l *Lease[T]) ExpiredAt() time.Time {
	if !l.EvictionTimestamp.IsZero() {
		return l.EvictionTimestamp
	}
	return l.LastRenewalTimestamp.Add(l.Duration)
}

// Info renders the lease as the client-facing LeaseInfo. renewalInterval is the holder's declared period.
func (l *Lease[T]) Info(renewalInterval time.Duration) *LeaseInfo {
	return &LeaseInfo{
		RenewalIntervalInSecs: int(renewalInterval / time.Second),
		DurationInSecs:        int(l.Duration / time.Second),
		RegistrationTimestamp: unixMilli(l.RegistrationTimestamp),
		LastRenewalTimestamp:  unixMilli(l.LastRenewalTimestamp),
		EvictionTimestamp:     unixMilli(l.EvictionTimestamp),
		ServiceUpTimestamp:    unixMilli(l.ServiceUpTimestamp),
	}
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
