package etcdpeers

import (
	"context"
	"fmt"
	"sync"

	"myregistry/helpers"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Announcer publishes the server's base URL under <prefix>/<node> bound to a lease. When the
// server dies the lease expires and the key disappears from every peer's view.
type Announcer struct {
	client *clientv3.Client
	key    string
	url    string
	ttl    int64
	logger log.Logger

	mu      sync.Mutex
	leaseID clientv3.LeaseID
}

// NewAnnouncer creates the announcer of url. Panics on an invalid config, a nil client or logger,
// or an empty node name or url.
func NewAnnouncer(cfg Config, client *clientv3.Client, nodeName, url string, logger log.Logger) *Announcer {
	if err := cfg.Validate(); err != nil {
		panic("etcdpeers.announcer.go: " + err.Error())
	}
	return &Announcer{
		client: helpers.NilPanic(client, "etcdpeers.announcer.go: client is required"),
		key:    peerKey(cfg.Prefix, helpers.StrPanic(nodeName, "etcdpeers.announcer.go: node name is required")),
		url:    helpers.StrPanic(url, "etcdpeers.announcer.go: url is required"),
		ttl:    int64(cfg.LeaseTTL.Seconds()),
		logger: log.With(helpers.NilPanic(logger, "etcdpeers.announcer.go: logger is required"), "component", "Announcer"),
	}
}

// Announce grants the lease, writes the key and keeps the lease alive until ctx is done.
func (a *Announcer) Announce(ctx context.Context) error {
	lease, err := a.client.Grant(ctx, a.ttl)
	if err != nil {
		return service.NewInternalServerError("Etcd grant lease error", fmt.Errorf("can't grant lease for key '%s', err: %w", a.key, err))
	}
	if _, err = a.client.Put(ctx, a.key, a.url, clientv3.WithLease(lease.ID)); err != nil {
		return service.NewInternalServerError("Etcd put key error", fmt.Errorf("can't put key '%s', err: %w", a.key, err))
	}
	ch, err := a.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return service.NewInternalServerError("Etcd keep alive error", fmt.Errorf("can't keep lease of key '%s' alive, err: %w", a.key, err))
	}

	a.mu.Lock()
	a.leaseID = lease.ID
	a.mu.Unlock()

	go func() {
		for range ch {
		}
		if ctx.Err() == nil {
			level.Warn(a.logger).Log("msg", "lease keep-alive stopped", "key", a.key)
		}
	}()
	level.Info(a.logger).Log("msg", "server announced", "key", a.key, "url", a.url)
	return nil
}

// Withdraw revokes the lease, which removes the key right away. Called on shutdown.
func (a *Announcer) Withdraw(ctx context.Context) error {
	a.mu.Lock()
	id := a.leaseID
	a.leaseID = 0
	a.mu.Unlock()
	if id == 0 {
		return nil
	}
	if _, err := a.client.Revoke(ctx, id); err != nil {
		return service.NewInternalServerError("Etcd revoke lease error", fmt.Errorf("can't revoke lease of key '%s', err: %w", a.key, err))
	}
	level.Info(a.logger).Log("msg", "server withdrawn", "key", a.key)
	return nil
}
