package interfaces

import (
	"context"

	"myregistry/domain"
)

// HealthCheckHandler reports the status the local instance should publish. Errors and panics
// are treated as DOWN by the caller.
//
//go:generate moq -stub -out mock/health_check_handler.go -pkg mock . HealthCheckHandler
type HealthCheckHandler interface {
	Status(ctx context.Context, current domain.InstanceStatus) (domain.InstanceStatus, error)
}
