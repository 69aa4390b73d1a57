package domain

// ReplicationAction is the operation carried by one batch entry.
type ReplicationAction string

const (
	ActionRegister             ReplicationAction = "Register"
	ActionCancel               ReplicationAction = "Cancel"
	ActionHeartbeat            ReplicationAction = "Heartbeat"
	ActionStatusUpdate         ReplicationAction = "StatusUpdate"
	ActionDeleteStatusOverride ReplicationAction = "DeleteStatusOverride"
)

// ReplicationInstance is one entry of a peer replication batch.
type ReplicationInstance struct {
	Action             ReplicationAction
	AppName            string
	ID                 string
	LastDirtyTimestamp int64
	OverriddenStatus   InstanceStatus
	Status             InstanceStatus
	Instance           *InstanceInfo
}

// ReplicationResult is the per-entry outcome of a batch. Instance is set on conflict and
// carries the receiver's current copy.
type ReplicationResult struct {
	StatusCode int
	Instance   *InstanceInfo
}
