package interfaces

import (
	"context"

	"myregistry/domain"
)

// InstanceRegistry is the server-side registry as seen by the REST and replication handlers.
// Implemented by registry.LeaseStore.
//
//go:generate moq -stub -out mock/instance_registry.go -pkg mock . InstanceRegistry
type InstanceRegistry interface {
	// Register admits or replaces an instance record.
	// Returns:
	// 1) nil on success;
	// 2) bad_parameter when id, appName or hostName is missing;
	// 3) conflict (wrapping *registry.ConflictError with the stored copy) when a replicated
	//    record is older than the stored one.
	Register(ctx context.Context, in *domain.InstanceInfo, source domain.Source) error

	// Renew records a heartbeat. False means the caller must register first.
	Renew(ctx context.Context, appName, id string, source domain.Source) bool

	// Cancel removes the lease. False when there was none.
	Cancel(ctx context.Context, appName, id string, source domain.Source) bool

	// StatusUpdate stores an operator override. False when the lease is unknown.
	StatusUpdate(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64, source domain.Source) bool

	// DeleteStatusOverride removes an override and sets status on the record. False when the lease is unknown.
	DeleteStatusOverride(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64, source domain.Source) bool

	// ValidateDirtyTimestamp compares a heartbeat's lastDirtyTimestamp with the stored record.
	// Returns:
	// 1) nil when the heartbeat is consistent with the stored record;
	// 2) entity_not_found when the record is unknown or the heartbeat is newer (re-register);
	// 3) conflict (wrapping *registry.ConflictError) when a replicated heartbeat is older.
	ValidateDirtyTimestamp(appName, id string, lastDirtyTimestamp int64, isReplication bool) error

	// Instance returns one instance with its current lease info.
	Instance(appName, id string) (*domain.InstanceInfo, bool)

	// Applications returns the full registry. The result must be treated as read-only.
	Applications() *domain.Applications

	// Delta returns the recently changed instances plus the full-registry hash.
	Delta() *domain.Applications
}

// MutationListener receives every successful registry state change, after the change is
// visible to readers. Implementations must not block.
//
//go:generate moq -stub -out mock/mutation_listener.go -pkg mock . MutationListener
type MutationListener interface {
	OnMutation(m domain.Mutation)
}

// ReplicaRegistry is the registry as seen by the replication receiver: records of a peer that
// the peer no longer holds are dropped after its snapshot ends. Implemented by
// registry.LeaseStore.
type ReplicaRegistry interface {
	InstanceRegistry

	// EvictBySource removes the leases last written by a source matching match whose id is not
	// kept. Returns the number removed.
	EvictBySource(ctx context.Context, match domain.SourceMatcher, keep func(id string) bool) int
}
