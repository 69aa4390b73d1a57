package replication

import (
	"context"
	"errors"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/notification"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Receiver keeps the local registry in step with the instances registered directly on one
// peer. It subscribes to the peer's local-only interest stream and applies every notification
// in arrival order on a serial task queue.
//
// Between BufferStart and BufferEnd the receiver records the ids it was sent. On BufferEnd the
// leases last written by the peer that were not among them are evicted; nothing is evicted
// while a snapshot is still streaming. Records older than the local copy are left alone.
//
// The stream is reopened with a growing delay when it ends or fails, and right away (after
// the queue drains) when the queue overflows.
type Receiver struct {
	peer     string
	streamer interfaces.InterestStreamer
	local    interfaces.ReplicaRegistry
	cfg      Config
	logger   log.Logger

	mu         sync.Mutex
	generation int64
	buffering  bool
	seen       map[string]struct{}
}

// NewReceiver creates the receiver of the peer at url (the name the peer replicates under).
// Panics on an empty url or nil streamer, registry or logger.
func NewReceiver(url string, streamer interfaces.InterestStreamer, local interfaces.ReplicaRegistry, cfg Config, logger log.Logger) *Receiver {
	url = helpers.StrPanic(url, "replication.receiver.go: url is required")
	return &Receiver{
		peer:     url,
		streamer: helpers.NilPanic(streamer, "replication.receiver.go: streamer is required"),
		local:    helpers.NilPanic(local, "replication.receiver.go: local registry is required"),
		cfg:      cfg,
		logger:   log.With(helpers.NilPanic(logger, "replication.receiver.go: logger is required"), "component", "Receiver", "peer", url),
	}
}

// Run follows the peer stream until ctx is done.
//
// Called from cmd/myregistry, one goroutine per peer, when stream replication is enabled.
func (r *Receiver) Run(ctx context.Context) {
	delay := time.Duration(0)
	for ctx.Err() == nil {
		err := r.session(ctx)
		if ctx.Err() != nil {
			return
		}
		delay = r.nextDelay(delay, err)
		if err != nil {
			level.Warn(r.logger).Log("msg", "peer stream failed, reconnecting", "delay", delay, "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// nextDelay is the wait before the next subscription. A clean end or a queue overflow reopens
// right away; other failures back off from RetryDelay up to MaxRetryDelay.
func (r *Receiver) nextDelay(delay time.Duration, err error) time.Duration {
	switch {
	case err == nil, errors.Is(err, notification.ErrQueueFull):
		return 0
	case delay == 0:
		return r.cfg.RetryDelay
	default:
		return min(2*delay, r.cfg.MaxRetryDelay)
	}
}

// session runs one subscription. Returns nil when the peer closed the stream after delivering
// at least one notification.
func (r *Receiver) session(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := r.streamer.Subscribe(subCtx, domain.Interests{domain.FullRegistryInterest()}, true)
	if err != nil {
		return err
	}
	source := r.nextSource()
	queue := notification.NewTaskQueue("replication "+r.peer, r.cfg.ReceiverQueueSize, r.logger)
	defer queue.Close()
	level.Info(r.logger).Log("msg", "peer stream opened", "source", source)

	received := 0
	for n := range ch {
		received++
		if err := queue.Submit(func() { r.apply(ctx, source, n) }); err != nil {
			return err
		}
	}
	if received == 0 {
		return service.NewNoAvailableServerError("Peer stream closed before any notification", nil)
	}
	return nil
}

func (r *Receiver) nextSource() domain.Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	return domain.Source{Origin: domain.OriginReplicated, Name: r.peer, ID: r.generation}
}

// Buffering reports whether a snapshot is being received.
func (r *Receiver) Buffering() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffering
}

func (r *Receiver) apply(ctx context.Context, source domain.Source, n domain.ChangeNotification) {
	switch n.Kind {
	case domain.KindBufferStart:
		r.mu.Lock()
		r.buffering = true
		r.seen = make(map[string]struct{})
		r.mu.Unlock()
	case domain.KindBufferEnd:
		r.endBuffer(ctx)
	case domain.KindAdd, domain.KindModify:
		if n.Instance == nil {
			return
		}
		r.markSeen(n.Instance.InstanceID)
		err := r.local.Register(ctx, n.Instance, source)
		switch {
		case service.IsConflictError(err):
			level.Debug(r.logger).Log("msg", "local copy is newer, keeping it", "app", n.Instance.AppName, "id", n.Instance.InstanceID)
		case err != nil:
			level.Warn(r.logger).Log("msg", "failed to apply peer record", "app", n.Instance.AppName, "id", n.Instance.InstanceID, "err", err)
		}
	case domain.KindDelete:
		if n.Instance == nil {
			return
		}
		r.local.Cancel(ctx, n.Instance.AppName, n.Instance.InstanceID, source)
	}
}

func (r *Receiver) markSeen(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buffering {
		r.seen[id] = struct{}{}
	}
}

func (r *Receiver) endBuffer(ctx context.Context) {
	r.mu.Lock()
	if !r.buffering {
		r.mu.Unlock()
		return
	}
	seen := r.seen
	r.buffering = false
	r.seen = nil
	r.mu.Unlock()

	removed := r.local.EvictBySource(ctx, domain.MatchOriginAndName(domain.OriginReplicated, r.peer), func(id string) bool {
		_, ok := seen[id]
		return ok
	})
	level.Info(r.logger).Log("msg", "peer snapshot applied", "records", len(seen), "evicted", removed)
}
