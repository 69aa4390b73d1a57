package replication

import (
	"time"

	"myregistry/domain"
)

// task is one pending batch entry for one peer.
type task struct {
	entry domain.ReplicationInstance
	// instance is the record the entry was built from. A heartbeat entry carries no record on
	// the wire but needs it to re-register when the peer does not know the instance.
	instance  *domain.InstanceInfo
	submitted time.Time
	expires   time.Time
}

// key identifies the pending task a newer task of the same action replaces.
func (t *task) key() string {
	return string(t.entry.Action) + "#" + t.entry.AppName + "/" + t.entry.ID
}

func (t *task) expired(now time.Time) bool {
	return !now.Before(t.expires)
}

// entryFor maps a registry mutation to a batch entry. Evictions are not replicated: every node
// evicts on its own.
func entryFor(m domain.Mutation) (domain.ReplicationInstance, bool) {
	e := domain.ReplicationInstance{AppName: m.AppName, ID: m.ID}
	if m.Instance != nil {
		e.LastDirtyTimestamp = m.Instance.LastDirtyTimestamp
	}
	switch m.Kind {
	case domain.MutationRegister:
		e.Action = domain.ActionRegister
		e.Instance = m.Instance
	case domain.MutationRenew:
		e.Action = domain.ActionHeartbeat
		e.OverriddenStatus = m.OverriddenStatus
		if m.Instance != nil {
			e.Status = m.Instance.Status
		}
	case domain.MutationCancel:
		e.Action = domain.ActionCancel
	case domain.MutationStatusUpdate:
		e.Action = domain.ActionStatusUpdate
		e.Status = m.Status
	case domain.MutationDeleteStatusOverride:
		e.Action = domain.ActionDeleteStatusOverride
		e.Status = m.Status
	default:
		return domain.ReplicationInstance{}, false
	}
	return e, true
}

// newTask builds the task for m submitted at now.
func newTask(m domain.Mutation, now time.Time, maxAge time.Duration) (*task, bool) {
	entry, ok := entryFor(m)
	if !ok {
		return nil, false
	}
	ttl := maxAge
	if entry.Action == domain.ActionHeartbeat && m.Instance != nil {
		if interval := m.Instance.LeaseInfo.RenewalInterval(); interval < ttl {
			ttl = interval
		}
	}
	return &task{entry: entry, instance: m.Instance, submitted: now, expires: now.Add(ttl)}, true
}

// registerTask builds a register task for in, used when a peer answers a heartbeat with 404.
func registerTask(in *domain.InstanceInfo, now time.Time, maxAge time.Duration) *task {
	return &task{
		entry: domain.ReplicationInstance{
			Action:             domain.ActionRegister,
			AppName:            in.AppName,
			ID:                 in.InstanceID,
			LastDirtyTimestamp: in.LastDirtyTimestamp,
			Instance:           in,
		},
		instance:  in,
		submitted: now,
		expires:   now.Add(maxAge),
	}
}
