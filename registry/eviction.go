package registry

import (
	"context"
	"sort"
	"time"

	"myregistry/domain"

	"github.com/go-kit/log/level"
)

type expiredLease struct {
	appName   string
	id        string
	expiredAt time.Time
}

// Threshold returns the number of renewals per minute required to keep eviction enabled.
func (s *LeaseStore) Threshold() int {
	s.thresholdMu.Lock()
	defer s.thresholdMu.Unlock()
	return s.renewsThreshold
}

// ExpectedClients returns the number of clients expected to send renewals.
func (s *LeaseStore) ExpectedClients() int {
	s.thresholdMu.Lock()
	defer s.thresholdMu.Unlock()
	return s.expectedClients
}

// RenewsLastMinute returns the renewals counted over the previous minute.
func (s *LeaseStore) RenewsLastMinute() int {
	return s.renews.Count()
}

func (s *LeaseStore) adjustExpectedClients(delta int) {
	s.thresholdMu.Lock()
	defer s.thresholdMu.Unlock()
	s.expectedClients += delta
	if s.expectedClients < 0 {
		s.expectedClients = 0
	}
	s.updateThresholdLocked()
}

// updateThresholdLocked recomputes expected * (60 / renewal interval) * percent. Caller must
// hold thresholdMu.
func (s *LeaseStore) updateThresholdLocked() {
	perMinute := float64(time.Minute) / float64(s.cfg.ExpectedClientRenewalInterval)
	s.renewsThreshold = int(float64(s.expectedClients) * perMinute * s.cfg.RenewalPercentThreshold)
}

// IsLeaseExpirationEnabled reports whether the eviction sweep may remove leases: always when
// self-preservation is off, otherwise only while the renewals of the previous minute reach the
// threshold.
func (s *LeaseStore) IsLeaseExpirationEnabled() bool {
	if !s.cfg.SelfPreservation {
		return true
	}
	return s.renews.Count() >= s.Threshold()
}

// Evict runs one eviction sweep and returns the number of leases removed.
//
// While self-preservation suspends eviction nothing is removed. Otherwise leases expired by
// more than their duration plus the configured slack (plus the delay of a late sweep) are
// removed oldest-expired first, at most size - int(size * RenewalPercentThreshold) of them.
// Evictions publish MutationEvict with this node as the source.
//
// Called from Run on every EvictionInterval tick, and from tests.
func (s *LeaseStore) Evict(ctx context.Context) int {
	now := s.clock.Now()
	compensation := s.sweepCompensation(now)

	renews, threshold := s.renews.Count(), s.Threshold()
	enabled := s.IsLeaseExpirationEnabled()
	s.metrics.SelfPreservation(renews, threshold, !enabled)
	if !enabled {
		level.Warn(s.logger).Log("msg", "self-preservation active, eviction suspended", "renews_last_min", renews,
			"threshold", threshold)
		return 0
	}

	additional := s.cfg.EvictionSlack + compensation
	var expired []expiredLease
	size := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		size += len(sh.leases)
		for _, lease := range sh.leases {
			if lease.IsExpired(now, additional) {
				expired = append(expired, expiredLease{
					appName:   lease.Holder.AppName,
					id:        lease.Holder.InstanceID,
					expiredAt: lease.ExpiredAt(),
				})
			}
		}
		sh.mu.RUnlock()
	}
	if len(expired) == 0 {
		return 0
	}
	sort.Slice(expired, func(i, j int) bool {
		if !expired[i].expiredAt.Equal(expired[j].expiredAt) {
			return expired[i].expiredAt.Before(expired[j].expiredAt)
		}
		return expired[i].id < expired[j].id
	})

	limit := size - int(float64(size)*s.cfg.RenewalPercentThreshold)
	if limit < len(expired) {
		level.Warn(s.logger).Log("msg", "eviction capped", "expired", len(expired), "limit", limit, "size", size)
		expired = expired[:limit]
	}

	evicted := 0
	for _, e := range expired {
		if ctx.Err() != nil {
			break
		}
		ok := s.remove(e.appName, e.id, s.self, domain.MutationEvict, func(l *InstanceLease) bool {
			return l.IsExpired(now, additional)
		})
		if ok {
			evicted++
		}
	}
	s.metrics.Evicted(evicted)
	s.metrics.RegistrySize(size - evicted)
	if evicted > 0 {
		level.Info(s.logger).Log("msg", "evicted expired leases", "count", evicted, "compensation", compensation)
	}
	return evicted
}

// sweepCompensation returns how much later than scheduled this sweep runs.
func (s *LeaseStore) sweepCompensation(now time.Time) time.Duration {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	last := s.lastSweep
	s.lastSweep = now
	if last.IsZero() {
		return 0
	}
	late := now.Sub(last) - s.cfg.EvictionInterval
	if late < 0 {
		return 0
	}
	return late
}

// UpdateRenewalThreshold sets the expected number of renewing clients to the registry size
// when the registry did not shrink below the threshold fraction, or when self-preservation is
// off. A sharp drop (a partition) keeps the previous expectation.
//
// Called from Run every RenewalThresholdUpdateInterval.
func (s *LeaseStore) UpdateRenewalThreshold() {
	count := s.Size()
	s.thresholdMu.Lock()
	defer s.thresholdMu.Unlock()
	if float64(count) > s.cfg.RenewalPercentThreshold*float64(s.expectedClients) || !s.cfg.SelfPreservation {
		s.expectedClients = count
		s.updateThresholdLocked()
		level.Info(s.logger).Log("msg", "renewal threshold updated", "expected_clients", count, "threshold", s.renewsThreshold)
	}
}
