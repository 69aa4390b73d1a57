package interfaces

import (
	"context"

	"myregistry/domain"
)

// BackupRegistry stores the last successfully fetched full registry so a client can start
// with a usable view when no registry server answers at startup.
//
//go:generate moq -stub -out mock/backup_registry.go -pkg mock . BackupRegistry
type BackupRegistry interface {
	// Save replaces the stored snapshot.
	// Returns:
	// 1) nil on success;
	// 2) internal_server_error when marshalling fails or when the storage write fails.
	Save(ctx context.Context, apps *domain.Applications) error

	// Load returns the stored snapshot.
	// Returns:
	// 1) (apps, nil) when a snapshot exists;
	// 2) (nil, entity_not_found) when nothing was saved yet or the stored value cannot be decoded;
	// 3) (nil, internal_server_error) when the storage read fails.
	Load(ctx context.Context) (*domain.Applications, error)
}
