package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Heartbeater renews the lease of the local instance every renewal interval. A 404 answer means
// the server lost the lease: the record is marked dirty and registered again right away.
type Heartbeater struct {
	cfg    Config
	holder *InstanceHolder
	client interfaces.RegistryClient
	clock  interfaces.TimeProvider
	logger log.Logger

	mu   sync.Mutex
	last time.Time
}

// NewHeartbeater creates the heartbeat loop of holder's record. Panics on an invalid config or a
// nil holder, client, clock or logger.
func NewHeartbeater(cfg Config, holder *InstanceHolder, client interfaces.RegistryClient, clock interfaces.TimeProvider, logger log.Logger) *Heartbeater {
	if err := cfg.Validate(); err != nil {
		panic("client.heartbeater.go: " + err.Error())
	}
	return &Heartbeater{
		cfg:    cfg,
		holder: helpers.NilPanic(holder, "client.heartbeater.go: holder is required"),
		client: helpers.NilPanic(client, "client.heartbeater.go: client is required"),
		clock:  helpers.NilPanic(clock, "client.heartbeater.go: clock is required"),
		logger: log.With(helpers.NilPanic(logger, "client.heartbeater.go: logger is required"), "component", "Heartbeater"),
	}
}

// Renew sends one heartbeat.
//
// Returns: nil when the lease was renewed or re-registered; the transport error, or
// entity_not_found when the re-registration after a 404 failed.
func (h *Heartbeater) Renew(ctx context.Context) error {
	in := h.holder.Instance()
	status, _, err := h.client.SendHeartbeat(ctx, in, in.OverriddenStatus)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		level.Info(h.logger).Log("msg", "lease unknown to the server, registering again", "app", in.AppName, "id", in.InstanceID)
		h.holder.MarkDirty()
		timestamp, _ := h.holder.DirtyTimestamp()
		if err := h.client.Register(ctx, h.holder.Instance()); err != nil {
			return service.NewEntityNotFoundError("Re-registration of "+in.InstanceID+" failed", err)
		}
		h.holder.UnsetDirty(timestamp)
	}
	h.mu.Lock()
	h.last = h.clock.Now()
	h.mu.Unlock()
	return nil
}

// LastSuccessfulHeartbeat returns the time of the last renewal; zero before the first.
func (h *Heartbeater) LastSuccessfulHeartbeat() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Run renews until ctx is done. After a failure the delay doubles, up to
// MaxBackoffMultiplier renewal intervals.
func (h *Heartbeater) Run(ctx context.Context) {
	interval := h.holder.Instance().LeaseInfo.RenewalInterval()
	delay := interval
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		err := h.Renew(ctx)
		switch {
		case err == nil:
			delay = interval
		case ctx.Err() != nil:
			return
		default:
			delay = min(2*delay, time.Duration(h.cfg.MaxBackoffMultiplier)*interval)
			level.Warn(h.logger).Log("msg", "heartbeat failed", "next", delay, "err", err)
		}
		timer.Reset(delay)
	}
}
