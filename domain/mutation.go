package domain

// MutationKind tags a registry state change.
type MutationKind string

const (
	MutationRegister             MutationKind = "register"
	MutationRenew                MutationKind = "renew"
	MutationCancel               MutationKind = "cancel"
	MutationEvict                MutationKind = "evict"
	MutationStatusUpdate         MutationKind = "status_update"
	MutationDeleteStatusOverride MutationKind = "delete_status_override"
)

// Mutation is published by the registry after each successful state change.
//
// Instance is the record after the change (for cancel and evict, the record that was removed);
// Previous is the record before it, nil for a new registration.
type Mutation struct {
	Kind     MutationKind
	AppName  string
	ID       string
	Instance *InstanceInfo
	Previous *InstanceInfo
	Source   Source
	// Status is the requested status for status updates and override removals.
	Status InstanceStatus
	// OverriddenStatus is the override in effect when a heartbeat is replicated.
	OverriddenStatus InstanceStatus
}
