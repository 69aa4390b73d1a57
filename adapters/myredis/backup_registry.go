package myredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/service"

	"github.com/go-redis/redis/v8"
)

const snapshotKey = "snapshot"

type valueStore[T any] struct {
	client    redis.UniversalClient
	prefix    string
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
	zero      T
}

func newValueStore[T any](client redis.UniversalClient, prefix string, marshal func(T) ([]byte, error), unmarshal func([]byte) (T, error)) *valueStore[T] {
	var zero T
	return &valueStore[T]{
		client:    client,
		prefix:    prefix,
		zero:      zero,
		marshal:   marshal,
		unmarshal: unmarshal,
	}
}

func (r *valueStore[T]) write(ctx context.Context, key string, item T, ttl time.Duration) error {
	bytes, err := r.marshal(item)
	if err != nil {
		return service.NewInternalServerError("Redis marshal item error", fmt.Errorf("can't marshal item of type %T, err: %w", item, err))
	}

	err = r.client.Set(ctx, r.generateKey(key), bytes, ttl).Err()
	if err != nil {
		return service.NewInternalServerError("Redis write key error", fmt.Errorf("can't write item of type %T to redis (key='%s'), err: %w", item, key, err))
	}
	return nil
}

func (r *valueStore[T]) read(ctx context.Context, key string) (T, error) {
	bytes, err := r.client.Get(ctx, r.generateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return r.zero, service.NewEntityNotFoundError("Entity not found", nil)
	}
	if err != nil {
		return r.zero, service.NewInternalServerError("Redis read key error", fmt.Errorf("can't read item of type %T from redis (key='%s'), err: %w", r.zero, key, err))
	}

	item, err := r.unmarshal(bytes)
	if err != nil {
		return r.zero, service.NewEntityNotFoundError("Stored value cannot be decoded", err)
	}
	return item, nil
}

func (r *valueStore[T]) delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.generateKey(key)).Err()
	if err != nil {
		return service.NewInternalServerError("Redis delete key error", fmt.Errorf("can't delete item of type %T from redis (key='%s'), err: %w", r.zero, key, err))
	}
	return nil
}

func (r *valueStore[T]) generateKey(key string) string {
	return r.prefix + ":" + key
}

// BackupRegistry keeps the last full registry fetched by a client under <prefix>:snapshot, in
// the same JSON shape the REST API serves.
type BackupRegistry struct {
	store *valueStore[api.Applications]
	ttl   time.Duration
}

// NewBackupRegistry creates the Redis backup. A zero ttl keeps the snapshot forever.
func NewBackupRegistry(client redis.UniversalClient, prefix string, ttl time.Duration) *BackupRegistry {
	helpers.NilPanic(client, "myredis.backup_registry.go: client is required")
	helpers.StrPanic(prefix, "myredis.backup_registry.go: prefix is required")
	return &BackupRegistry{
		store: newValueStore(client, prefix, marshalApplications, unmarshalApplications),
		ttl:   ttl,
	}
}

// Save replaces the stored snapshot with apps.
func (b *BackupRegistry) Save(ctx context.Context, apps *domain.Applications) error {
	if apps == nil {
		return service.NewBadParameterError("Nothing to save", nil)
	}
	return b.store.write(ctx, snapshotKey, api.FromApplications(apps), b.ttl)
}

// Load returns the stored snapshot.
func (b *BackupRegistry) Load(ctx context.Context) (*domain.Applications, error) {
	stored, err := b.store.read(ctx, snapshotKey)
	if err != nil {
		return nil, err
	}
	return api.ToApplications(stored), nil
}

// Clear removes the stored snapshot.
func (b *BackupRegistry) Clear(ctx context.Context) error {
	return b.store.delete(ctx, snapshotKey)
}

func marshalApplications(apps api.Applications) ([]byte, error) { return json.Marshal(apps) }

func unmarshalApplications(b []byte) (api.Applications, error) {
	var apps api.Applications
	err := json.Unmarshal(b, &apps)
	return apps, err
}
