package etcdpeers

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"
	"myregistry/transport"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Resolver is an interfaces.EndpointResolver over the keys under the peer prefix. It loads the
// prefix once and then follows it with a watch; a broken watch is restarted with a fresh load.
type Resolver struct {
	client *clientv3.Client
	prefix string
	logger log.Logger

	mu    sync.RWMutex
	peers map[string]string
}

var _ interfaces.EndpointResolver = (*Resolver)(nil)

// NewResolver creates the resolver. Panics on an invalid config or a nil client or logger.
func NewResolver(cfg Config, client *clientv3.Client, logger log.Logger) *Resolver {
	if err := cfg.Validate(); err != nil {
		panic("etcdpeers.resolver.go: " + err.Error())
	}
	return &Resolver{
		client: helpers.NilPanic(client, "etcdpeers.resolver.go: client is required"),
		prefix: cfg.Prefix + "/",
		logger: log.With(helpers.NilPanic(logger, "etcdpeers.resolver.go: logger is required"), "component", "PeerResolver"),
		peers:  make(map[string]string),
	}
}

// Endpoints implements interfaces.EndpointResolver. The result is sorted.
func (r *Resolver) Endpoints() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.peers))
	for _, u := range r.peers {
		if !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Load replaces the peer set with the current content of the prefix.
//
// Returns the revision to watch from.
func (r *Resolver) Load(ctx context.Context) (int64, error) {
	resp, err := r.client.Get(ctx, r.prefix, clientv3.WithPrefix())
	if err != nil {
		return 0, service.NewInternalServerError("Etcd get prefix error", fmt.Errorf("can't get prefix '%s', err: %w", r.prefix, err))
	}
	peers := make(map[string]string, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		if u := transport.NormalizeEndpoint(string(kv.Value)); u != "" {
			peers[strings.TrimPrefix(string(kv.Key), r.prefix)] = u
		}
	}
	r.mu.Lock()
	r.peers = peers
	r.mu.Unlock()
	return resp.Header.Revision, nil
}

// Run follows the prefix until ctx is done. Call Load first.
func (r *Resolver) Run(ctx context.Context, revision int64) {
	for {
		r.watch(ctx, revision)
		if ctx.Err() != nil {
			return
		}
		level.Warn(r.logger).Log("msg", "peer watch closed, reloading")
		for {
			var err error
			if revision, err = r.Load(ctx); err == nil {
				break
			}
			level.Warn(r.logger).Log("msg", "peer reload failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

func (r *Resolver) watch(ctx context.Context, revision int64) {
	for resp := range r.client.Watch(ctx, r.prefix, clientv3.WithPrefix(), clientv3.WithRev(revision+1)) {
		if err := resp.Err(); err != nil {
			level.Warn(r.logger).Log("msg", "peer watch error", "err", err)
			return
		}
		for _, ev := range resp.Events {
			name := strings.TrimPrefix(string(ev.Kv.Key), r.prefix)
			switch ev.Type {
			case clientv3.EventTypePut:
				r.set(name, string(ev.Kv.Value))
			case clientv3.EventTypeDelete:
				r.remove(name)
			}
		}
	}
}

func (r *Resolver) set(name, url string) {
	url = transport.NormalizeEndpoint(url)
	if url == "" {
		r.remove(name)
		return
	}
	r.mu.Lock()
	r.peers[name] = url
	r.mu.Unlock()
	level.Info(r.logger).Log("msg", "peer up", "node", name, "url", url)
}

func (r *Resolver) remove(name string) {
	r.mu.Lock()
	_, ok := r.peers[name]
	delete(r.peers, name)
	r.mu.Unlock()
	if ok {
		level.Info(r.logger).Log("msg", "peer gone", "node", name)
	}
}
