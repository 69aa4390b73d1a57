package registry

import (
	"sync"
	"time"

	"myregistry/domain"
)

type change struct {
	at       time.Time
	instance *domain.InstanceInfo
}

// changeLog is the recently-changed queue served by delta fetches, together with per-status
// counters of the whole registry. Both are updated under the shard lock of the changed lease
// (lock order: shard, then changeLog), so a delta read sees a hash consistent with its entries.
type changeLog struct {
	mu      sync.Mutex
	entries []change
	counts  map[domain.InstanceStatus]int
	version int64
}

func newChangeLog() *changeLog {
	return &changeLog{counts: make(map[domain.InstanceStatus]int)}
}

// record appends next to the queue and moves the status counters from prev to next. prev is
// nil for a new lease; next.ActionType DELETED removes prev from the counters.
func (l *changeLog) record(prev, next *domain.InstanceInfo, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev != nil {
		l.counts[prev.Status]--
		if l.counts[prev.Status] <= 0 {
			delete(l.counts, prev.Status)
		}
	}
	if next.ActionType != domain.ActionDeleted {
		l.counts[next.Status]++
	}
	l.entries = append(l.entries, change{at: now, instance: next})
	l.version++
}

// delta renders the retained changes in order. Later changes of one id replace earlier ones.
func (l *changeLog) delta() *domain.Applications {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := domain.NewApplications()
	for _, c := range l.entries {
		out.Add(c.instance)
	}
	out.Version = l.version
	out.HashCode = domain.HashCodeFromCounts(l.counts)
	return out
}

// currentVersion returns the number of changes recorded so far.
func (l *changeLog) currentVersion() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// expire drops changes older than retention and returns how many were dropped.
func (l *changeLog) expire(now time.Time, retention time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-retention)
	n := 0
	for n < len(l.entries) && l.entries[n].at.Before(cutoff) {
		n++
	}
	if n > 0 {
		l.entries = append(l.entries[:0:0], l.entries[n:]...)
	}
	return n
}

func (l *changeLog) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
