// Package registry holds the server-side instance registry: leases, status overrides, the
// recently-changed queue served to delta fetches, self-preservation and eviction.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"
	"myregistry/telemetry"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const shardCount = 32

// InstanceLease is the lease type held by the registry.
type InstanceLease = domain.Lease[*domain.InstanceInfo]

type shard struct {
	mu        sync.RWMutex
	leases    map[string]*InstanceLease
	overrides map[string]domain.InstanceStatus
}

// LeaseStore implements interfaces.InstanceRegistry. Leases are spread over shards keyed by
// xxhash of "APP/id"; every state change of one lease happens under its shard lock, so
// operations on one id are serialized while different ids proceed in parallel. Full-registry
// reads lock one shard at a time.
//
// Stored records are immutable: status changes replace the holder with a clone. After each
// successful change the store publishes a domain.Mutation to its listeners outside of any lock.
//
// Fields: cfg, logger, clock, metrics; shards; changes (recently-changed queue and status
// counters); renews (renewals of the previous minute); under thresholdMu: expectedClients,
// renewsThreshold; under cacheMu: the cached full snapshot and its generation; under
// listenersMu: listeners; lastSweep (time of the previous eviction sweep).
type LeaseStore struct {
	cfg     Config
	logger  log.Logger
	clock   interfaces.TimeProvider
	metrics *telemetry.Metrics
	self    domain.Source

	shards  [shardCount]*shard
	changes *changeLog
	renews  *MeasuredRate

	thresholdMu     sync.Mutex
	expectedClients int
	renewsThreshold int

	cacheMu  sync.Mutex
	cacheGen uint64
	cached   *domain.Applications

	listenersMu sync.RWMutex
	listeners   []interfaces.MutationListener

	sweepMu   sync.Mutex
	lastSweep time.Time
}

var _ interfaces.InstanceRegistry = (*LeaseStore)(nil)

// NewLeaseStore creates an empty registry. Panics on an invalid config or nil clock or logger;
// metrics may be nil.
//
// Parameters: cfg holds the registry settings (see DefaultConfig); clock stamps leases and the
// change queue; metrics are optional collectors.
//
// Called from cmd/myregistry when starting a server node.
func NewLeaseStore(cfg Config, clock interfaces.TimeProvider, metrics *telemetry.Metrics, logger log.Logger) *LeaseStore {
	if err := cfg.Validate(); err != nil {
		panic("registry.lease_store.go: " + err.Error())
	}
	s := &LeaseStore{
		cfg:     cfg,
		logger:  log.With(helpers.NilPanic(logger, "registry.lease_store.go: logger is required"), "component", "LeaseStore"),
		clock:   helpers.NilPanic(clock, "registry.lease_store.go: clock is required"),
		metrics: metrics,
		self:    domain.LocalSource(cfg.NodeName),
		changes: newChangeLog(),
		renews:  NewMeasuredRate(time.Minute),
	}
	for i := range s.shards {
		s.shards[i] = &shard{
			leases:    make(map[string]*InstanceLease),
			overrides: make(map[string]domain.InstanceStatus),
		}
	}
	return s
}

// AddListener subscribes l to mutations. Listeners are registered during wiring, before
// traffic is served.
func (s *LeaseStore) AddListener(l interfaces.MutationListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, helpers.NilPanic(l, "registry.lease_store.go: listener is required"))
}

func leaseKey(appName, id string) string {
	return strings.ToUpper(appName) + "/" + id
}

func (s *LeaseStore) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%shardCount]
}

func validateInstance(in *domain.InstanceInfo) error {
	switch {
	case in == nil:
		return service.NewBadParameterError("Instance is required", nil)
	case in.InstanceID == "":
		return service.NewBadParameterError("Missing instanceId", nil)
	case in.AppName == "":
		return service.NewBadParameterError("Missing appName", nil)
	case in.HostName == "":
		return service.NewBadParameterError("Missing hostName", nil)
	case !in.Status.Valid():
		return service.NewBadParameterError(fmt.Sprintf("Invalid status %q", in.Status), nil)
	}
	return nil
}

// Register admits or replaces the record of one instance.
//
// A replicated record whose lastDirtyTimestamp is older than the stored one is rejected with a
// conflict carrying the stored copy (see Resolve); direct client traffic always replaces the
// stored record. An override sent with the record is kept unless one is already stored, and
// the stored status is computed by the override rules. A new id raises the expected number of
// renewing clients by one.
//
// Returns: nil on success; bad_parameter when id, appName, hostName or status is invalid;
// conflict (wrapping *ConflictError) when a replicated record loses.
//
// Called from the REST register handler, the replication batch handler, Replicator conflict
// handling, SyncUp and the replication Receiver.
func (s *LeaseStore) Register(ctx context.Context, in *domain.InstanceInfo, source domain.Source) error {
	if err := validateInstance(in); err != nil {
		return err
	}
	now := s.clock.Now()
	record := in.Clone()
	record.AppName = strings.ToUpper(record.AppName)
	key := leaseKey(record.AppName, record.InstanceID)
	sh := s.shardFor(key)

	sh.mu.Lock()
	existing := sh.leases[key]
	var prev *domain.InstanceInfo
	if existing != nil {
		prev = existing.Holder
		if source.IsReplication() && Resolve(prev, record) == KeepLocal {
			local := s.view(existing)
			sh.mu.Unlock()
			level.Debug(s.logger).Log("msg", "replicated register is older than local copy", "app", record.AppName,
				"id", record.InstanceID, "incoming", record.LastDirtyTimestamp, "local", prev.LastDirtyTimestamp, "source", source)
			return newConflictError(local)
		}
	}

	renewal := record.LeaseInfo.RenewalInterval()
	lease := domain.NewLease(record, record.LeaseInfo.Duration(), source, now)
	if existing != nil {
		lease.ServiceUpTimestamp = existing.ServiceUpTimestamp
	}
	if record.HasOverride() {
		if _, ok := sh.overrides[key]; !ok {
			sh.overrides[key] = record.OverriddenStatus
		}
	}
	override := sh.overrides[key]
	if override != "" {
		record.OverriddenStatus = override
	}
	record.Status = effectiveStatus(record, existing, override, source.IsReplication())
	if record.Status == domain.StatusUp {
		lease.ServiceUp(now)
	}
	record.ActionType = domain.ActionAdded
	record.LastUpdatedTimestamp = now.UnixMilli()
	record.LeaseInfo = lease.Info(renewal)
	sh.leases[key] = lease
	s.changes.record(prev, record, now)
	sh.mu.Unlock()

	if existing == nil {
		s.adjustExpectedClients(1)
	}
	s.invalidate()
	s.metrics.RegistryOp(string(domain.MutationRegister), string(source.Origin))
	level.Debug(s.logger).Log("msg", "registered", "app", record.AppName, "id", record.InstanceID,
		"status", record.Status, "source", source, "replaced", existing != nil)
	s.publish(domain.Mutation{
		Kind:     domain.MutationRegister,
		AppName:  record.AppName,
		ID:       record.InstanceID,
		Instance: record,
		Previous: prev,
		Source:   source,
	})
	return nil
}

// Renew records a heartbeat for one lease and re-applies the override rules; when they yield a
// different status the stored record is replaced with one carrying it.
//
// Returns false when there is no lease or when the rules resolve to UNKNOWN; in both cases the
// caller must register again.
//
// Called from the REST heartbeat handler and the replication batch handler.
func (s *LeaseStore) Renew(ctx context.Context, appName, id string, source domain.Source) bool {
	now := s.clock.Now()
	key := leaseKey(appName, id)
	sh := s.shardFor(key)

	sh.mu.Lock()
	lease := sh.leases[key]
	if lease == nil {
		sh.mu.Unlock()
		level.Debug(s.logger).Log("msg", "renew of unknown lease", "app", appName, "id", id, "source", source)
		return false
	}
	holder := lease.Holder
	override := sh.overrides[key]
	status := effectiveStatus(holder, lease, override, source.IsReplication())
	if status == domain.StatusUnknown {
		sh.mu.Unlock()
		level.Info(s.logger).Log("msg", "renew resolved to UNKNOWN status, re-registration required", "app", appName, "id", id,
			"override", override)
		return false
	}
	var prev *domain.InstanceInfo
	if holder.Status != status {
		next := holder.Clone()
		next.Status = status
		next.ActionType = domain.ActionModified
		next.LastUpdatedTimestamp = now.UnixMilli()
		lease.Holder = next
		s.changes.record(holder, next, now)
		prev = holder
	}
	lease.Renew(now)
	lease.Source = source
	current := lease.Holder
	sh.mu.Unlock()

	s.renews.Increment()
	if prev != nil {
		s.invalidate()
		level.Info(s.logger).Log("msg", "status changed on renew", "app", appName, "id", id, "from", prev.Status, "to", status)
	}
	s.metrics.RegistryOp(string(domain.MutationRenew), string(source.Origin))
	s.publish(domain.Mutation{
		Kind:             domain.MutationRenew,
		AppName:          current.AppName,
		ID:               id,
		Instance:         current,
		Previous:         prev,
		Source:           source,
		OverriddenStatus: override,
	})
	return true
}

// Cancel removes one lease, stamps its eviction time and drops its override.
//
// Returns false when there was no lease.
//
// Called from the REST cancel handler and the replication batch handler.
func (s *LeaseStore) Cancel(ctx context.Context, appName, id string, source domain.Source) bool {
	return s.remove(appName, id, source, domain.MutationCancel, nil)
}

// remove deletes the lease of appName/id. When stillExpired is set the lease is only removed if
// it still reports expired under the shard lock (eviction racing a renewal).
func (s *LeaseStore) remove(appName, id string, source domain.Source, kind domain.MutationKind, stillExpired func(*InstanceLease) bool) bool {
	now := s.clock.Now()
	key := leaseKey(appName, id)
	sh := s.shardFor(key)

	sh.mu.Lock()
	lease := sh.leases[key]
	if lease == nil || (stillExpired != nil && !stillExpired(lease)) {
		sh.mu.Unlock()
		return false
	}
	delete(sh.leases, key)
	delete(sh.overrides, key)
	lease.Cancel(now)
	removed := lease.Holder.Clone()
	removed.ActionType = domain.ActionDeleted
	removed.LastUpdatedTimestamp = now.UnixMilli()
	removed.LeaseInfo = lease.Info(lease.Holder.LeaseInfo.RenewalInterval())
	s.changes.record(lease.Holder, removed, now)
	sh.mu.Unlock()

	s.adjustExpectedClients(-1)
	s.invalidate()
	s.metrics.RegistryOp(string(kind), string(source.Origin))
	level.Info(s.logger).Log("msg", "lease removed", "kind", kind, "app", removed.AppName, "id", id, "source", source)
	s.publish(domain.Mutation{
		Kind:     kind,
		AppName:  removed.AppName,
		ID:       id,
		Instance: removed,
		Previous: lease.Holder,
		Source:   source,
	})
	return true
}

// StatusUpdate stores an operator override and applies it to the record. A newer
// lastDirtyTimestamp from the request is carried over to the record.
//
// Returns false when there is no lease.
//
// Called from the REST status handler and the replication batch handler.
func (s *LeaseStore) StatusUpdate(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64, source domain.Source) bool {
	return s.updateOverride(appName, id, status, status, lastDirtyTimestamp, source, domain.MutationStatusUpdate)
}

// DeleteStatusOverride removes the override of a record and sets its status to status (UNKNOWN
// when empty, which makes the next renewal fail and the client register its own status again).
//
// Returns false when there is no lease.
//
// Called from the REST status handler and the replication batch handler.
func (s *LeaseStore) DeleteStatusOverride(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64, source domain.Source) bool {
	if status == "" {
		status = domain.StatusUnknown
	}
	return s.updateOverride(appName, id, domain.StatusUnknown, status, lastDirtyTimestamp, source, domain.MutationDeleteStatusOverride)
}

func (s *LeaseStore) updateOverride(appName, id string, override, status domain.InstanceStatus, lastDirtyTimestamp int64, source domain.Source, kind domain.MutationKind) bool {
	now := s.clock.Now()
	key := leaseKey(appName, id)
	sh := s.shardFor(key)

	sh.mu.Lock()
	lease := sh.leases[key]
	if lease == nil {
		sh.mu.Unlock()
		return false
	}
	if kind == domain.MutationDeleteStatusOverride {
		delete(sh.overrides, key)
	} else {
		sh.overrides[key] = override
	}
	holder := lease.Holder
	next := holder.Clone()
	next.OverriddenStatus = override
	next.Status = status
	if lastDirtyTimestamp > next.LastDirtyTimestamp {
		next.LastDirtyTimestamp = lastDirtyTimestamp
	}
	next.ActionType = domain.ActionModified
	next.LastUpdatedTimestamp = now.UnixMilli()
	if status == domain.StatusUp {
		lease.ServiceUp(now)
	}
	lease.Holder = next
	lease.Source = source
	s.changes.record(holder, next, now)
	sh.mu.Unlock()

	s.invalidate()
	s.metrics.RegistryOp(string(kind), string(source.Origin))
	level.Info(s.logger).Log("msg", "status override changed", "kind", kind, "app", next.AppName, "id", id,
		"status", status, "source", source)
	s.publish(domain.Mutation{
		Kind:             kind,
		AppName:          next.AppName,
		ID:               id,
		Instance:         next,
		Previous:         holder,
		Source:           source,
		Status:           status,
		OverriddenStatus: override,
	})
	return true
}

// ValidateDirtyTimestamp compares the lastDirtyTimestamp of a heartbeat with the stored record.
//
// Returns: nil when the timestamp is absent or equal, or older on direct client traffic;
// entity_not_found when the record is unknown or the heartbeat is newer (the sender must
// register its newer record); conflict with the stored copy when a replicated heartbeat is older.
//
// Called from the REST heartbeat handler and the replication batch handler before Renew.
func (s *LeaseStore) ValidateDirtyTimestamp(appName, id string, lastDirtyTimestamp int64, isReplication bool) error {
	in, ok := s.Instance(appName, id)
	if !ok {
		return service.NewEntityNotFoundError("Instance not found", nil)
	}
	switch {
	case lastDirtyTimestamp == 0 || lastDirtyTimestamp == in.LastDirtyTimestamp:
		return nil
	case lastDirtyTimestamp > in.LastDirtyTimestamp:
		level.Debug(s.logger).Log("msg", "heartbeat is newer than local copy", "app", appName, "id", id,
			"incoming", lastDirtyTimestamp, "local", in.LastDirtyTimestamp)
		return service.NewEntityNotFoundError("Instance record is older than the heartbeat", nil)
	case isReplication:
		return newConflictError(in)
	default:
		return nil
	}
}

// view renders a stored lease as a client-facing record. Caller must hold the shard lock.
func (s *LeaseStore) view(lease *InstanceLease) *domain.InstanceInfo {
	out := lease.Holder.Clone()
	out.LeaseInfo = lease.Info(lease.Holder.LeaseInfo.RenewalInterval())
	return out
}

// Instance returns one record with its current lease timestamps.
func (s *LeaseStore) Instance(appName, id string) (*domain.InstanceInfo, bool) {
	key := leaseKey(appName, id)
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	lease := sh.leases[key]
	if lease == nil {
		return nil, false
	}
	return s.view(lease), true
}

// GetLease returns a copy of one lease.
func (s *LeaseStore) GetLease(appName, id string) (InstanceLease, bool) {
	key := leaseKey(appName, id)
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	lease := sh.leases[key]
	if lease == nil {
		return InstanceLease{}, false
	}
	return *lease, true
}

// Snapshot returns copies of all leases, read one shard at a time and ordered by app then id.
func (s *LeaseStore) Snapshot() []InstanceLease {
	var out []InstanceLease
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, lease := range sh.leases {
			out = append(out, *lease)
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Holder.AppName != out[j].Holder.AppName {
			return out[i].Holder.AppName < out[j].Holder.AppName
		}
		return out[i].Holder.InstanceID < out[j].Holder.InstanceID
	})
	return out
}

// ForEach calls fn for every lease of Snapshot until fn returns false. No lock is held while
// fn runs.
func (s *LeaseStore) ForEach(fn func(InstanceLease) bool) {
	for _, lease := range s.Snapshot() {
		if !fn(lease) {
			return
		}
	}
}

// Size returns the number of leases.
func (s *LeaseStore) Size() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.leases)
		sh.mu.RUnlock()
	}
	return n
}

// Applications returns the full registry. The snapshot is cached until the next mutation and
// shared between callers.
func (s *LeaseStore) Applications() *domain.Applications {
	s.cacheMu.Lock()
	if s.cached != nil {
		apps := s.cached
		s.cacheMu.Unlock()
		return apps
	}
	gen := s.cacheGen
	s.cacheMu.Unlock()

	apps := domain.NewApplications()
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, lease := range sh.leases {
			apps.Add(s.view(lease))
		}
		sh.mu.RUnlock()
	}
	apps.Version = s.changes.currentVersion()
	apps.HashCode = apps.ComputeHashCode()

	s.cacheMu.Lock()
	if s.cacheGen == gen {
		s.cached = apps
	}
	s.cacheMu.Unlock()
	return apps
}

// Delta returns the changes of the retention window and the hash of the full registry.
func (s *LeaseStore) Delta() *domain.Applications {
	return s.changes.delta()
}

func (s *LeaseStore) invalidate() {
	s.cacheMu.Lock()
	s.cacheGen++
	s.cached = nil
	s.cacheMu.Unlock()
}

func (s *LeaseStore) publish(m domain.Mutation) {
	s.listenersMu.RLock()
	listeners := s.listeners
	s.listenersMu.RUnlock()
	for _, l := range listeners {
		l.OnMutation(m)
	}
}

// Run starts the background tasks (renewal rate window, eviction sweep, renewal threshold
// update, change queue cleanup) and blocks until ctx is done.
//
// Called from cmd/myregistry in its own goroutine.
func (s *LeaseStore) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		s.renews.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.every(ctx, s.cfg.EvictionInterval, "eviction", func() { s.Evict(ctx) })
	}()
	go func() {
		defer wg.Done()
		s.every(ctx, s.cfg.RenewalThresholdUpdateInterval, "renewal threshold update", s.UpdateRenewalThreshold)
	}()
	go func() {
		defer wg.Done()
		s.every(ctx, s.cfg.DeltaCleanupInterval, "delta cleanup", func() {
			if n := s.changes.expire(s.clock.Now(), s.cfg.DeltaRetention); n > 0 {
				level.Debug(s.logger).Log("msg", "expired recent changes", "count", n)
			}
		})
	}()
	wg.Wait()
}

// every runs task on each tick until ctx is done. A panic in task is logged and the next tick
// still runs.
func (s *LeaseStore) every(ctx context.Context, interval time.Duration, name string, task func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTask(name, task)
		}
	}
}

func (s *LeaseStore) runTask(name string, task func()) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(s.logger).Log("msg", "background task failed", "task", name, "err", fmt.Errorf("panic: %v", r))
		}
	}()
	task()
}
