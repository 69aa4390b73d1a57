package notification

import (
	"context"
	"fmt"
	"sync"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

const subscriberBufferCap = 512

// MaxInterests bounds the interests of one subscription.
const MaxInterests = 64

// SnapshotSource lists the current leases of the registry. Implemented by registry.LeaseStore.
type SnapshotSource interface {
	ForEach(fn func(domain.Lease[*domain.InstanceInfo]) bool)
}

// Broker serves interest subscriptions on a server node. It implements
// interfaces.InterestStreamer for the gRPC interest service and interfaces.MutationListener
// for the registry.
//
// A new subscriber first receives the matching instances of the registry wrapped in
// BufferStart/BufferEnd, then every matching change. The snapshot is taken under the broker
// lock, so no mutation published after it is lost. Each subscriber has a bounded queue; a
// subscriber that lets it fill up is disconnected (its channel is closed) and must subscribe
// again.
//
// Fields: registry, self (source of the buffer markers), metrics, logger; under mu: subs, closed.
type Broker struct {
	registry SnapshotSource
	self     domain.Source
	metrics  *telemetry.Metrics
	logger   log.Logger

	mu     sync.Mutex
	subs   map[string]*subscriber
	closed bool
}

type subscriber struct {
	id        string
	interests domain.Interests
	localOnly bool
	ch        chan domain.ChangeNotification
	done      chan struct{}
}

var (
	_ interfaces.InterestStreamer = (*Broker)(nil)
	_ interfaces.MutationListener = (*Broker)(nil)
)

// NewBroker creates a broker over registry. Panics on nil registry or logger; metrics may be nil.
//
// Called from cmd/myregistry; the broker is then added as a listener of the same registry.
func NewBroker(registry SnapshotSource, nodeName string, metrics *telemetry.Metrics, logger log.Logger) *Broker {
	return &Broker{
		registry: helpers.NilPanic(registry, "notification.broker.go: registry is required"),
		self:     domain.LocalSource(helpers.StrPanic(nodeName, "notification.broker.go: nodeName is required")),
		metrics:  metrics,
		logger:   log.With(helpers.NilPanic(logger, "notification.broker.go: logger is required"), "component", "Broker"),
		subs:     make(map[string]*subscriber),
	}
}

// Subscribe implements interfaces.InterestStreamer. The snapshot opens with one BufferStart per
// interest and closes with one BufferEnd per interest; merge them with InterestKey.
//
// Returns bad_parameter when interests is empty, longer than MaxInterests or one of them is
// malformed.
func (b *Broker) Subscribe(ctx context.Context, interests domain.Interests, localOnly bool) (<-chan domain.ChangeNotification, error) {
	if len(interests) == 0 {
		return nil, service.NewBadParameterError("At least one interest is required", nil)
	}
	if len(interests) > MaxInterests {
		return nil, service.NewBadParameterError(fmt.Sprintf("At most %d interests are allowed, got %d", MaxInterests, len(interests)), nil)
	}
	for _, i := range interests {
		if err := i.Validate(); err != nil {
			return nil, service.NewBadParameterError(err.Error(), err)
		}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, service.NewNoAvailableServerError("Broker is shut down", nil)
	}
	var snapshot []*domain.InstanceInfo
	b.registry.ForEach(func(lease domain.Lease[*domain.InstanceInfo]) bool {
		if localOnly && lease.Source.IsReplication() {
			return true
		}
		if interests.Matches(lease.Holder) {
			snapshot = append(snapshot, lease.Holder)
		}
		return true
	})
	// The snapshot and its markers are queued before anyone reads the channel.
	sub := &subscriber{
		id:        uuid.NewString(),
		interests: interests,
		localOnly: localOnly,
		ch:        make(chan domain.ChangeNotification, len(snapshot)+2*len(interests)+subscriberBufferCap),
		done:      make(chan struct{}),
	}
	for _, i := range interests {
		sub.ch <- domain.BufferStart(i, b.self)
	}
	for _, in := range snapshot {
		sub.ch <- domain.AddNotification(in, b.self)
	}
	for _, i := range interests {
		sub.ch <- domain.BufferEnd(i, b.self)
	}
	b.subs[sub.id] = sub
	b.mu.Unlock()

	b.metrics.SubscriberAdded()
	level.Info(b.logger).Log("msg", "subscriber added", "subscription", sub.id, "interests", len(interests),
		"local_only", localOnly, "snapshot", len(snapshot))

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(sub.id, "closed")
		case <-sub.done:
		}
	}()
	return sub.ch, nil
}

// OnMutation implements interfaces.MutationListener. Plain heartbeats produce nothing; a status
// change on renew is a Modify.
func (b *Broker) OnMutation(m domain.Mutation) {
	if m.Kind == domain.MutationRenew && m.Previous == nil {
		return
	}

	b.mu.Lock()
	var slow []string
	for id, sub := range b.subs {
		if sub.localOnly && m.Source.IsReplication() {
			continue
		}
		n, ok := notificationFor(m, sub.interests)
		if !ok {
			continue
		}
		select {
		case sub.ch <- n:
		default:
			slow = append(slow, id)
		}
	}
	b.mu.Unlock()

	for _, id := range slow {
		b.unsubscribe(id, "slow")
	}
}

// notificationFor maps a mutation to what a subscriber with interests sees: an instance moving
// into the interest is an Add, one moving out is a Delete.
func notificationFor(m domain.Mutation, interests domain.Interests) (domain.ChangeNotification, bool) {
	switch m.Kind {
	case domain.MutationCancel, domain.MutationEvict:
		if !interests.Matches(m.Instance) {
			return domain.ChangeNotification{}, false
		}
		return domain.DeleteNotification(m.Instance, m.Source), true
	}
	matchesNext := interests.Matches(m.Instance)
	matchesPrev := m.Previous != nil && interests.Matches(m.Previous)
	switch {
	case matchesNext && matchesPrev:
		return domain.ModifyNotification(m.Previous, m.Instance, m.Source), true
	case matchesNext:
		return domain.AddNotification(m.Instance, m.Source), true
	case matchesPrev:
		return domain.DeleteNotification(m.Previous, m.Source), true
	default:
		return domain.ChangeNotification{}, false
	}
}

func (b *Broker) unsubscribe(id, reason string) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
		close(sub.ch)
		close(sub.done)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	b.metrics.SubscriberRemoved()
	if reason == "slow" {
		level.Warn(b.logger).Log("msg", "subscriber disconnected, queue full", "subscription", id)
		return
	}
	level.Debug(b.logger).Log("msg", "subscriber removed", "subscription", id, "reason", reason)
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription and rejects new ones.
//
// Called from cmd/myregistry on shutdown, before the gRPC server stops.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	ids := make([]string, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	b.mu.Unlock()
	for _, id := range ids {
		b.unsubscribe(id, "shutdown")
	}
}
