package replication

import (
	"context"
	"slices"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ClientFactory creates the replication client of the peer at url.
type ClientFactory func(url string) interfaces.RegistryClient

// Replicator fans local registry mutations out to every peer. It implements
// interfaces.MutationListener: OnMutation only queues, it never waits on the network.
// Mutations that came from a peer and evictions are not replicated.
//
// The peer set is read from the resolver when Run starts and every PeerRefreshInterval; peers
// that disappear are stopped with their pending tasks.
type Replicator struct {
	cfg       Config
	resolver  interfaces.EndpointResolver
	local     interfaces.InstanceRegistry
	newClient ClientFactory
	clock     interfaces.TimeProvider
	metrics   *telemetry.Metrics
	base      log.Logger
	logger    log.Logger

	mu    sync.RWMutex
	peers map[string]*peerRun
	wg    sync.WaitGroup
}

type peerRun struct {
	node   *PeerNode
	cancel context.CancelFunc
}

var _ interfaces.MutationListener = (*Replicator)(nil)

// NewReplicator creates a replicator. resolver must not list this node (see
// transport.Excluding). Panics on an invalid config or nil dependency; metrics may be nil.
func NewReplicator(cfg Config, resolver interfaces.EndpointResolver, local interfaces.InstanceRegistry, newClient ClientFactory, clock interfaces.TimeProvider, metrics *telemetry.Metrics, logger log.Logger) *Replicator {
	if err := cfg.Validate(); err != nil {
		panic("replication.replicator.go: " + err.Error())
	}
	logger = helpers.NilPanic(logger, "replication.replicator.go: logger is required")
	return &Replicator{
		cfg:       cfg,
		resolver:  helpers.NilPanic(resolver, "replication.replicator.go: resolver is required"),
		local:     helpers.NilPanic(local, "replication.replicator.go: local registry is required"),
		newClient: helpers.NilPanic(newClient, "replication.replicator.go: client factory is required"),
		clock:     helpers.NilPanic(clock, "replication.replicator.go: clock is required"),
		metrics:   metrics,
		base:      logger,
		logger:    log.With(logger, "component", "Replicator"),
		peers:     make(map[string]*peerRun),
	}
}

// OnMutation implements interfaces.MutationListener.
func (r *Replicator) OnMutation(m domain.Mutation) {
	if m.Source.IsReplication() || m.Kind == domain.MutationEvict {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.peers {
		p.node.Enqueue(m)
	}
}

// Peers returns the URLs of the current peers, sorted.
func (r *Replicator) Peers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.peers))
	for url := range r.peers {
		out = append(out, url)
	}
	slices.Sort(out)
	return out
}

// Run starts replication and blocks until ctx is done, then stops every peer.
//
// Called from cmd/myregistry in its own goroutine.
func (r *Replicator) Run(ctx context.Context) {
	r.refreshPeers(ctx)
	ticker := time.NewTicker(r.cfg.PeerRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.stopAll()
			return
		case <-ticker.C:
			r.refreshPeers(ctx)
		}
	}
}

// refreshPeers starts a PeerNode for every new endpoint and stops the ones no longer listed.
func (r *Replicator) refreshPeers(ctx context.Context) {
	endpoints := r.resolver.Endpoints()
	r.mu.Lock()
	defer r.mu.Unlock()
	for url, p := range r.peers {
		if !slices.Contains(endpoints, url) {
			p.cancel()
			delete(r.peers, url)
			level.Info(r.logger).Log("msg", "peer removed", "peer", url, "dropped", p.node.Pending())
		}
	}
	for _, url := range endpoints {
		if _, ok := r.peers[url]; ok {
			continue
		}
		node := NewPeerNode(url, r.newClient(url), r.local, r.cfg, r.clock, r.metrics, r.base)
		peerCtx, cancel := context.WithCancel(ctx)
		r.peers[url] = &peerRun{node: node, cancel: cancel}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			node.Run(peerCtx)
		}()
		level.Info(r.logger).Log("msg", "peer added", "peer", url)
	}
}

func (r *Replicator) stopAll() {
	r.mu.Lock()
	for url, p := range r.peers {
		p.cancel()
		delete(r.peers, url)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
