package registry

import (
	"errors"
	"fmt"

	"myregistry/domain"
	"myregistry/service"
)

// Resolution is the outcome of comparing a stored record with a replicated one.
type Resolution int

const (
	// AcceptIncoming replaces the stored record.
	AcceptIncoming Resolution = iota
	// KeepLocal drops the incoming record; the sender should adopt the stored copy.
	KeepLocal
)

func (r Resolution) String() string {
	if r == KeepLocal {
		return "keep_local"
	}
	return "accept_incoming"
}

// Resolve decides between a stored record and an incoming replicated record of the same id by
// lastDirtyTimestamp. Strictly newer and equal timestamps accept the incoming record, strictly
// older keeps the stored one. A missing stored record always accepts.
func Resolve(local, incoming *domain.InstanceInfo) Resolution {
	if local == nil || incoming.LastDirtyTimestamp >= local.LastDirtyTimestamp {
		return AcceptIncoming
	}
	return KeepLocal
}

// ConflictError carries the stored copy that won against an older replicated record.
type ConflictError struct {
	Local *domain.InstanceInfo
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("instance %s/%s has a newer local copy (lastDirtyTimestamp=%d)",
		e.Local.AppName, e.Local.InstanceID, e.Local.LastDirtyTimestamp)
}

func newConflictError(local *domain.InstanceInfo) error {
	return service.NewConflictError("Replicated record is older than the local copy", &ConflictError{Local: local})
}

// ConflictingInstance extracts the stored copy from a conflict error.
func ConflictingInstance(err error) (*domain.InstanceInfo, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Local, true
	}
	return nil, false
}
