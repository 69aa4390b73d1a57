package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	fetchFull   = "full"
	fetchDelta  = "delta"
	fetchBackup = "backup"
)

// RefreshListener is called after the cache content changed. apps must be treated as read-only.
type RefreshListener func(apps *domain.Applications)

// RegistryCache is the client's polled copy of the registry. It starts from a full fetch and
// then applies deltas; after every delta the hash of the merged content is compared with the
// hash the server reported, and on a mismatch the merged view is discarded and the next cycle
// fetches the full registry again. Fields: cfg, client, backup (optional), clock, metrics,
// logger; under mu: apps, forceFull (next cycle must be a full fetch), lastFetch, listeners.
type RegistryCache struct {
	cfg     Config
	client  interfaces.RegistryClient
	backup  interfaces.BackupRegistry
	clock   interfaces.TimeProvider
	metrics *telemetry.Metrics
	logger  log.Logger

	mu        sync.RWMutex
	apps      *domain.Applications
	fetched   bool
	forceFull bool
	lastFetch time.Time
	listeners []RefreshListener
}

// NewRegistryCache creates an empty cache. Panics on an invalid config or nil client, clock or
// logger.
//
// Parameters: backup is an optional snapshot store used when no server answers at Init and saved to
// after each full fetch; metrics may be nil.
//
// Called from cmd/myregistry (agent) before Init and Run.
func NewRegistryCache(
	cfg Config,
	client interfaces.RegistryClient,
	backup interfaces.BackupRegistry,
	clock interfaces.TimeProvider,
	metrics *telemetry.Metrics,
	logger log.Logger,
) *RegistryCache {
	if err := cfg.Validate(); err != nil {
		panic("client.cache.go: " + err.Error())
	}
	return &RegistryCache{
		cfg:     cfg,
		client:  helpers.NilPanic(client, "client.cache.go: client is required"),
		backup:  backup,
		clock:   helpers.NilPanic(clock, "client.cache.go: clock is required"),
		metrics: metrics,
		logger:  log.With(helpers.NilPanic(logger, "client.cache.go: logger is required"), "component", "RegistryCache"),
		apps:    domain.NewApplications(),
	}
}

// AddListener registers fn for every content change. Not safe to call concurrently with Run.
func (c *RegistryCache) AddListener(fn RefreshListener) {
	c.listeners = append(c.listeners, fn)
}

// Init performs the first full fetch. When it fails the backup registry is loaded instead and
// the next cycle is forced to be a full fetch.
//
// Returns: nil when a server or the backup provided a snapshot, or when neither did and
// EnforceFetchAtInit is off; otherwise the fetch error.
//
// Called from cmd/myregistry (agent) once before Run.
func (c *RegistryCache) Init(ctx context.Context) error {
	err := c.fetchFull(ctx)
	if err == nil {
		return nil
	}
	level.Warn(c.logger).Log("msg", "initial registry fetch failed", "err", err)
	if c.loadBackup(ctx) {
		return nil
	}
	if c.cfg.EnforceFetchAtInit {
		return err
	}
	level.Warn(c.logger).Log("msg", "starting with an empty registry")
	return nil
}

func (c *RegistryCache) loadBackup(ctx context.Context) bool {
	if c.backup == nil {
		return false
	}
	apps, err := c.backup.Load(ctx)
	if err != nil {
		c.metrics.CacheFetch(fetchBackup, "failure")
		level.Warn(c.logger).Log("msg", "backup registry unavailable", "err", err)
		return false
	}
	c.metrics.CacheFetch(fetchBackup, "success")
	c.mu.Lock()
	c.apps = apps
	c.forceFull = true
	c.mu.Unlock()
	level.Info(c.logger).Log("msg", "registry loaded from backup", "instances", apps.Size())
	c.notify(apps)
	return true
}

// Refresh runs one poll: a full fetch when deltas are disabled, nothing was fetched yet, the
// cache is empty or the previous delta left it inconsistent; a delta fetch otherwise.
//
// Returns: nil on success (a hash mismatch is not an error); the fetch error otherwise.
//
// Called from Run on every tick.
func (c *RegistryCache) Refresh(ctx context.Context) error {
	c.mu.RLock()
	full := c.cfg.DisableDelta || !c.fetched || c.forceFull || c.apps.Size() == 0
	c.mu.RUnlock()
	if full {
		return c.fetchFull(ctx)
	}
	return c.fetchDelta(ctx)
}

func (c *RegistryCache) fetchFull(ctx context.Context) error {
	apps, err := c.client.Applications(ctx)
	if err != nil {
		c.metrics.CacheFetch(fetchFull, "failure")
		return err
	}
	c.mu.Lock()
	c.apps = apps
	c.fetched = true
	c.forceFull = false
	c.lastFetch = c.clock.Now()
	c.mu.Unlock()
	c.metrics.CacheFetch(fetchFull, "success")
	level.Debug(c.logger).Log("msg", "full registry fetched", "instances", apps.Size(), "hash", apps.HashCode)

	if c.backup != nil {
		if err := c.backup.Save(ctx, apps); err != nil {
			level.Warn(c.logger).Log("msg", "failed to save backup registry", "err", err)
		}
	}
	c.notify(apps)
	return nil
}

func (c *RegistryCache) fetchDelta(ctx context.Context) error {
	delta, err := c.client.Delta(ctx)
	if err != nil {
		c.metrics.CacheFetch(fetchDelta, "failure")
		return err
	}
	if delta == nil {
		return c.fetchFull(ctx)
	}

	c.mu.Lock()
	merged := c.apps.Clone()
	merged.ApplyDelta(delta)
	hash := merged.ComputeHashCode()
	if hash != delta.HashCode {
		c.forceFull = true
		c.mu.Unlock()
		c.metrics.CacheHashMismatch()
		c.metrics.CacheFetch(fetchDelta, "hash_mismatch")
		level.Warn(c.logger).Log("msg", "registry hash mismatch after delta, next fetch is full",
			"local", hash, "server", delta.HashCode)
		return nil
	}
	merged.HashCode = hash
	c.apps = merged
	c.lastFetch = c.clock.Now()
	c.mu.Unlock()

	c.metrics.CacheFetch(fetchDelta, "success")
	level.Debug(c.logger).Log("msg", "delta applied", "changes", delta.Size(), "instances", merged.Size())
	if delta.Size() > 0 {
		c.notify(merged)
	}
	return nil
}

func (c *RegistryCache) notify(apps *domain.Applications) {
	for _, fn := range c.listeners {
		fn(apps)
	}
}

// Run polls until ctx is done. After a failed poll the delay doubles, up to
// MaxBackoffMultiplier × FetchInterval; a successful poll restores FetchInterval.
//
// Called from cmd/myregistry (agent) in its own goroutine.
func (c *RegistryCache) Run(ctx context.Context) {
	delay := c.cfg.FetchInterval
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
		err := c.Refresh(fetchCtx)
		cancel()
		if err != nil && ctx.Err() == nil {
			level.Warn(c.logger).Log("msg", "registry fetch failed", "err", err)
		}
		delay = c.nextDelay(delay, err)
		timer.Reset(delay)
	}
}

func (c *RegistryCache) nextDelay(current time.Duration, err error) time.Duration {
	if err == nil {
		return c.cfg.FetchInterval
	}
	return min(2*current, time.Duration(c.cfg.MaxBackoffMultiplier)*c.cfg.FetchInterval)
}

// Applications returns the current content. The result must be treated as read-only.
func (c *RegistryCache) Applications() *domain.Applications {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apps
}

// LastSuccessfulFetch returns the time of the last applied fetch; zero before the first.
func (c *RegistryCache) LastSuccessfulFetch() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastFetch
}

// Instances returns the instances of one application, only the UP ones when upOnly is set.
func (c *RegistryCache) Instances(appName string, upOnly bool) []*domain.InstanceInfo {
	app, ok := c.Applications().Application(appName)
	if !ok {
		return nil
	}
	var out []*domain.InstanceInfo
	for _, in := range app.Instances() {
		if upOnly && in.Status != domain.StatusUp {
			continue
		}
		out = append(out, in)
	}
	return out
}

// InstancesByVIP returns the instances exposing vip as their (secure, when secure is set) VIP
// address. An address may list several VIPs separated by commas.
func (c *RegistryCache) InstancesByVIP(vip string, secure bool) []*domain.InstanceInfo {
	var out []*domain.InstanceInfo
	for _, in := range c.Applications().AllInstances() {
		addr := in.VIPAddress
		if secure {
			addr = in.SecureVIPAddress
		}
		if hasVIP(addr, vip) {
			out = append(out, in)
		}
	}
	return out
}

func hasVIP(addresses, vip string) bool {
	for _, a := range strings.Split(addresses, ",") {
		if a = strings.TrimSpace(a); a != "" && strings.EqualFold(a, vip) {
			return true
		}
	}
	return false
}
