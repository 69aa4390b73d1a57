package replication

import (
	"context"
	"net/http"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/registry"
	"myregistry/service"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// PeerNode replicates to one peer. Tasks are queued by Enqueue and sent in batches by Run; a
// batch that fails on the transport level is put back and retried after a growing delay, a
// batch the peer rejects is dropped.
//
// Per-entry results are handled the way the peer asks: a heartbeat answered with 404 is
// followed by a register of the instance, and a 409 carrying the peer's copy is resolved
// against the local registry, which adopts the copy when it is newer.
//
// Fields: url, client, local, cfg, clock, metrics, logger, queue, wake; under mu: backoff,
// retryAt.
type PeerNode struct {
	url     string
	client  interfaces.RegistryClient
	local   interfaces.InstanceRegistry
	cfg     Config
	clock   interfaces.TimeProvider
	metrics *telemetry.Metrics
	logger  log.Logger
	queue   *batcher
	wake    chan struct{}

	mu      sync.Mutex
	backoff time.Duration
	retryAt time.Time
}

// NewPeerNode creates the node for the peer at url. Panics on an empty url or a nil client,
// local registry, clock or logger; metrics may be nil.
//
// Called from Replicator.refreshPeers for every peer the resolver lists.
func NewPeerNode(url string, client interfaces.RegistryClient, local interfaces.InstanceRegistry, cfg Config, clock interfaces.TimeProvider, metrics *telemetry.Metrics, logger log.Logger) *PeerNode {
	url = helpers.StrPanic(url, "replication.peer_node.go: url is required")
	return &PeerNode{
		url:     url,
		client:  helpers.NilPanic(client, "replication.peer_node.go: client is required"),
		local:   helpers.NilPanic(local, "replication.peer_node.go: local registry is required"),
		cfg:     cfg,
		clock:   helpers.NilPanic(clock, "replication.peer_node.go: clock is required"),
		metrics: metrics,
		logger:  log.With(helpers.NilPanic(logger, "replication.peer_node.go: logger is required"), "component", "PeerNode", "peer", url),
		queue:   newBatcher(cfg.MaxBufferSize, cfg.MaxBatchSize, cfg.MaxBatchDelay),
		wake:    make(chan struct{}, 1),
	}
}

// URL returns the base URL of the peer.
func (n *PeerNode) URL() string {
	return n.url
}

// Pending returns the number of queued tasks.
func (n *PeerNode) Pending() int {
	return n.queue.size()
}

// Enqueue queues the replication of m. Returns false when m is not replicated.
func (n *PeerNode) Enqueue(m domain.Mutation) bool {
	t, ok := newTask(m, n.clock.Now(), n.cfg.MaxTaskAge)
	if !ok {
		return false
	}
	n.offer(t)
	return true
}

func (n *PeerNode) offer(t *task) {
	if dropped := n.queue.offer(t); dropped > 0 {
		n.metrics.ReplicationDropped(n.url, "overflow")
		level.Warn(n.logger).Log("msg", "replication queue full, dropped oldest task")
	}
	if n.queue.size() >= n.cfg.MaxBatchSize {
		select {
		case n.wake <- struct{}{}:
		default:
		}
	}
}

// Run sends batches until ctx is done.
func (n *PeerNode) Run(ctx context.Context) {
	tick := n.cfg.MaxBatchDelay / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	level.Debug(n.logger).Log("msg", "peer replication started")
	for {
		select {
		case <-ctx.Done():
			level.Debug(n.logger).Log("msg", "peer replication stopped", "pending", n.queue.size())
			return
		case <-ticker.C:
		case <-n.wake:
		}
		for n.flush(ctx) {
		}
	}
}

// flush sends one batch when one is ready and no back-off is in effect. Returns true when a
// batch was sent successfully, so the caller can send the next one right away.
func (n *PeerNode) flush(ctx context.Context) bool {
	now := n.clock.Now()
	n.mu.Lock()
	waiting := now.Before(n.retryAt)
	n.mu.Unlock()
	if waiting {
		return false
	}
	batch, expired := n.queue.take(now)
	if expired > 0 {
		for i := 0; i < expired; i++ {
			n.metrics.ReplicationDropped(n.url, "expired")
		}
		level.Debug(n.logger).Log("msg", "dropped expired replication tasks", "count", expired)
	}
	if len(batch) == 0 {
		return false
	}

	entries := make([]domain.ReplicationInstance, 0, len(batch))
	for _, t := range batch {
		entries = append(entries, t.entry)
	}
	results, err := n.client.SubmitBatch(ctx, entries)
	if err != nil {
		n.failed(ctx, batch, err)
		return false
	}
	n.succeeded()
	for i, t := range batch {
		n.handleResult(ctx, t, results[i])
	}
	return true
}

func (n *PeerNode) succeeded() {
	n.metrics.ReplicationBatch(n.url, "success")
	n.mu.Lock()
	n.backoff = 0
	n.retryAt = time.Time{}
	n.mu.Unlock()
}

// failed requeues a batch after a transport failure and drops it otherwise.
func (n *PeerNode) failed(ctx context.Context, batch []*task, err error) {
	if ctx.Err() != nil || !service.IsNoAvailableServerError(err) {
		n.metrics.ReplicationBatch(n.url, "dropped")
		level.Error(n.logger).Log("msg", "replication batch rejected, discarding tasks", "count", len(batch), "err", err)
		return
	}
	n.metrics.ReplicationBatch(n.url, "retry")
	n.queue.requeue(batch)
	n.mu.Lock()
	if n.backoff == 0 {
		n.backoff = n.cfg.RetryDelay
	} else {
		n.backoff = min(2*n.backoff, n.cfg.MaxRetryDelay)
	}
	n.retryAt = n.clock.Now().Add(n.backoff)
	delay := n.backoff
	n.mu.Unlock()
	level.Warn(n.logger).Log("msg", "peer unreachable, retrying batch after delay", "count", len(batch), "delay", delay, "err", err)
}

func (n *PeerNode) handleResult(ctx context.Context, t *task, r domain.ReplicationResult) {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return
	}
	action := t.entry.Action
	switch {
	case action == domain.ActionHeartbeat && r.StatusCode == http.StatusNotFound:
		if t.instance == nil {
			return
		}
		level.Warn(n.logger).Log("msg", "peer does not know the instance, replicating its registration",
			"app", t.entry.AppName, "id", t.entry.ID, "status", t.instance.Status)
		n.offer(registerTask(t.instance, n.clock.Now(), n.cfg.MaxTaskAge))
	case r.StatusCode == http.StatusConflict && r.Instance != nil &&
		(action == domain.ActionHeartbeat || action == domain.ActionRegister):
		n.adopt(ctx, r.Instance)
	case action == domain.ActionCancel && r.StatusCode == http.StatusNotFound:
		level.Debug(n.logger).Log("msg", "cancel of an entry the peer does not hold", "app", t.entry.AppName, "id", t.entry.ID)
	default:
		level.Warn(n.logger).Log("msg", "replication entry failed", "action", action, "app", t.entry.AppName,
			"id", t.entry.ID, "status_code", r.StatusCode)
	}
}

// adopt registers the peer's copy of an instance locally when it wins against the local one.
func (n *PeerNode) adopt(ctx context.Context, peerCopy *domain.InstanceInfo) {
	local, ok := n.local.Instance(peerCopy.AppName, peerCopy.InstanceID)
	if ok && registry.Resolve(local, peerCopy) == registry.KeepLocal {
		level.Debug(n.logger).Log("msg", "peer copy is older than local, keeping local", "app", peerCopy.AppName,
			"id", peerCopy.InstanceID, "local", local.LastDirtyTimestamp, "peer", peerCopy.LastDirtyTimestamp)
		return
	}
	level.Warn(n.logger).Log("msg", "adopting newer instance copy from peer", "app", peerCopy.AppName, "id", peerCopy.InstanceID,
		"peer", peerCopy.LastDirtyTimestamp, "override", peerCopy.OverriddenStatus)
	source := domain.ReplicatedSource(n.url)
	if err := n.local.Register(ctx, peerCopy, source); err != nil {
		level.Error(n.logger).Log("msg", "failed to adopt peer copy", "app", peerCopy.AppName, "id", peerCopy.InstanceID, "err", err)
		return
	}
	if peerCopy.HasOverride() && local != nil && local.OverriddenStatus != peerCopy.OverriddenStatus {
		n.local.StatusUpdate(ctx, peerCopy.AppName, peerCopy.InstanceID, peerCopy.OverriddenStatus, peerCopy.LastDirtyTimestamp, source)
	}
}
