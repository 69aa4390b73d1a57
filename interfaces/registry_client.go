package interfaces

import (
	"context"

	"myregistry/domain"
)

// RegistryClient is the typed client of the registry REST surface. It is used by clients
// (registration, heartbeat, fetch) and by peers (replication batches, startup sync).
// Implemented by transport.RegistryClient on top of the transport pipeline.
//
//go:generate moq -stub -out mock/registry_client.go -pkg mock . RegistryClient
type RegistryClient interface {
	// Register sends POST /apps/{app}.
	Register(ctx context.Context, in *domain.InstanceInfo) error

	// Cancel sends DELETE /apps/{app}/{id}.
	Cancel(ctx context.Context, appName, id string) error

	// SendHeartbeat sends PUT /apps/{app}/{id}. Returns the HTTP status; for 409 the body with
	// the server's copy is returned as well. A 404 is not an error: the caller re-registers.
	SendHeartbeat(ctx context.Context, in *domain.InstanceInfo, overriddenStatus domain.InstanceStatus) (int, *domain.InstanceInfo, error)

	// StatusUpdate sends PUT /apps/{app}/{id}/status.
	StatusUpdate(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64) error

	// DeleteStatusOverride sends DELETE /apps/{app}/{id}/status.
	DeleteStatusOverride(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64) error

	// Applications fetches the full registry.
	Applications(ctx context.Context) (*domain.Applications, error)

	// Delta fetches the recently changed instances.
	Delta(ctx context.Context) (*domain.Applications, error)

	// SubmitBatch sends one replication batch. Results are parallel to entries.
	SubmitBatch(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error)
}
