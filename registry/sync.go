package registry

import (
	"context"
	"time"

	"myregistry/domain"
	"myregistry/interfaces"

	"github.com/go-kit/log/level"
)

// SyncUp copies the registry of a peer into this node as replicated records. It retries up to
// SyncRetries times, waiting SyncRetryWait between attempts, while the peer returns an empty
// registry or fails. Returns the number of records admitted.
//
// Called from cmd/myregistry at startup, before OpenForTraffic.
func (s *LeaseStore) SyncUp(ctx context.Context, peer interfaces.RegistryClient) (int, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.SyncRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(s.cfg.SyncRetryWait):
			}
		}
		apps, err := peer.Applications(ctx)
		if err != nil {
			lastErr = err
			level.Warn(s.logger).Log("msg", "registry sync attempt failed", "attempt", attempt+1, "err", err)
			continue
		}
		count := 0
		for _, in := range apps.AllInstances() {
			if err := s.Register(ctx, in, domain.ReplicatedSource("sync")); err != nil {
				level.Debug(s.logger).Log("msg", "skipped synced record", "app", in.AppName, "id", in.InstanceID, "err", err)
				continue
			}
			count++
		}
		if count > 0 {
			level.Info(s.logger).Log("msg", "registry synced from peer", "count", count)
			return count, nil
		}
		lastErr = nil
	}
	return 0, lastErr
}

// OpenForTraffic seeds the expected number of renewing clients with count (usually the result
// of SyncUp) so self-preservation has a baseline before the first threshold update.
func (s *LeaseStore) OpenForTraffic(count int) {
	s.thresholdMu.Lock()
	s.expectedClients = count
	s.updateThresholdLocked()
	threshold := s.renewsThreshold
	s.thresholdMu.Unlock()
	s.metrics.RegistrySize(s.Size())
	level.Info(s.logger).Log("msg", "open for traffic", "expected_clients", count, "threshold", threshold)
}

// EvictBySource removes every lease last written by a source matching match whose instance id
// is not kept. Used after a BufferEnd to drop records a replica no longer holds. The removal
// is published as an eviction. Returns the number of leases removed.
func (s *LeaseStore) EvictBySource(ctx context.Context, match domain.SourceMatcher, keep func(id string) bool) int {
	type candidate struct{ appName, id string }
	var stale []candidate
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, lease := range sh.leases {
			if match(lease.Source) && !keep(lease.Holder.InstanceID) {
				stale = append(stale, candidate{lease.Holder.AppName, lease.Holder.InstanceID})
			}
		}
		sh.mu.RUnlock()
	}
	removed := 0
	for _, c := range stale {
		ok := s.remove(c.appName, c.id, s.self, domain.MutationEvict, func(l *InstanceLease) bool {
			return match(l.Source) && !keep(l.Holder.InstanceID)
		})
		if ok {
			removed++
		}
	}
	if removed > 0 {
		level.Info(s.logger).Log("msg", "evicted records not refreshed by source", "count", removed)
	}
	return removed
}
