package client

import (
	"context"
	"sort"
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

// ChangeListener is called for every data notification applied to an InterestRegistry.
type ChangeListener func(n domain.ChangeNotification)

// InterestRegistry is the stream-fed client registry. It subscribes to each interest
// separately, merges the subscriptions into one ordered stream whose buffer markers show a
// single refresh window, and keeps one snapshot per interest.
//
// Ids of an interest that are not sent again between the unified BufferStart and BufferEnd of
// a refresh are removed from its snapshot when the BufferEnd arrives. The subscriptions are
// reopened with a growing delay when the stream ends.
type InterestRegistry struct {
	streamer  interfaces.InterestStreamer
	interests domain.Interests
	cfg       Config
	logger    log.Logger

	mu        sync.RWMutex
	snapshots map[string]map[string]*domain.InstanceInfo
	seen      map[string]map[string]struct{}
	synced    bool
	listeners []ChangeListener
}

// NewInterestRegistry creates a registry following interests. Panics on no interests or a nil
// streamer or logger.
func NewInterestRegistry(streamer interfaces.InterestStreamer, interests domain.Interests, cfg Config, logger log.Logger) *InterestRegistry {
	if len(interests) == 0 {
		panic("client.interest_registry.go: at least one interest is required")
	}
	snapshots := make(map[string]map[string]*domain.InstanceInfo, len(interests))
	for _, i := range interests {
		snapshots[i.String()] = make(map[string]*domain.InstanceInfo)
	}
	return &InterestRegistry{
		streamer:  helpers.NilPanic(streamer, "client.interest_registry.go: streamer is required"),
		interests: interests,
		cfg:       cfg,
		logger:    log.With(helpers.NilPanic(logger, "client.interest_registry.go: logger is required"), "component", "InterestRegistry"),
		snapshots: snapshots,
	}
}

// AddListener registers fn for data notifications. Not safe to call concurrently with Run.
func (r *InterestRegistry) AddListener(fn ChangeListener) {
	r.listeners = append(r.listeners, fn)
}

// Run follows the merged stream until ctx is done.
func (r *InterestRegistry) Run(ctx context.Context) {
	delay := time.Duration(0)
	for ctx.Err() == nil {
		err := r.session(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err == nil || delay == 0:
			delay = r.cfg.StreamRetryDelay
		default:
			delay = min(2*delay, r.cfg.StreamMaxRetryDelay)
		}
		if err != nil {
			level.Warn(r.logger).Log("msg", "interest stream failed, reconnecting", "delay", delay, "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (r *InterestRegistry) session(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	streams := make([]<-chan domain.ChangeNotification, 0, len(r.interests))
	for _, interest := range r.interests {
		ch, err := r.streamer.Subscribe(subCtx, domain.Interests{interest}, false)
		if err != nil {
			return err
		}
		streams = append(streams, tagInterest(subCtx, interest, ch))
	}
	// one buffer per subscription: every stream of one server carries the same source
	merger := notification.NewBufferMerger(r.interests[0], notification.InterestKey)
	received := 0
	for n := range notification.Merge(subCtx, merger, streams...) {
		received++
		r.apply(n)
	}
	if received == 0 {
		return service.NewNoAvailableServerError("Interest stream closed before any notification", nil)
	}
	return nil
}

// tagInterest stamps every notification of one subscription with the interest as this side
// spelled it, so snapshots and buffer keys do not depend on how the server echoes it.
func tagInterest(ctx context.Context, interest domain.Interest, in <-chan domain.ChangeNotification) <-chan domain.ChangeNotification {
	out := make(chan domain.ChangeNotification)
	go func() {
		defer close(out)
		for n := range in {
			n.Interest = interest
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (r *InterestRegistry) apply(n domain.ChangeNotification) {
	switch n.Kind {
	case domain.KindBufferStart:
		r.mu.Lock()
		r.seen = make(map[string]map[string]struct{}, len(r.snapshots))
		r.mu.Unlock()
		return
	case domain.KindBufferEnd:
		r.endBuffer()
		return
	}
	if n.Instance == nil {
		return
	}
	key := n.Interest.String()
	r.mu.Lock()
	snapshot, ok := r.snapshots[key]
	if !ok {
		r.mu.Unlock()
		return
	}
	id := n.Instance.InstanceID
	if n.Kind == domain.KindDelete {
		delete(snapshot, id)
	} else {
		snapshot[id] = n.Instance
		if r.seen != nil {
			if r.seen[key] == nil {
				r.seen[key] = make(map[string]struct{})
			}
			r.seen[key][id] = struct{}{}
		}
	}
	r.mu.Unlock()
	for _, fn := range r.listeners {
		fn(n)
	}
}

func (r *InterestRegistry) endBuffer() {
	r.mu.Lock()
	removed := 0
	if r.seen != nil {
		for key, snapshot := range r.snapshots {
			for id := range snapshot {
				if _, ok := r.seen[key][id]; !ok {
					delete(snapshot, id)
					removed++
				}
			}
		}
	}
	r.seen = nil
	r.synced = true
	r.mu.Unlock()
	level.Info(r.logger).Log("msg", "interest snapshot applied", "instances", r.Size(), "removed", removed)
}

// Synced reports whether a full snapshot has been received.
func (r *InterestRegistry) Synced() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.synced
}

// Instances returns the held instances matching interest, ordered by id. An instance held by
// several snapshots is listed once.
func (r *InterestRegistry) Instances(interest domain.Interest) []*domain.InstanceInfo {
	r.mu.RLock()
	byID := make(map[string]*domain.InstanceInfo)
	for _, snapshot := range r.snapshots {
		for id, in := range snapshot {
			if interest.Matches(in) {
				byID[id] = in
			}
		}
	}
	r.mu.RUnlock()
	out := make([]*domain.InstanceInfo, 0, len(byID))
	for _, in := range byID {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}

// Size returns the number of distinct held instances.
func (r *InterestRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make(map[string]struct{})
	for _, snapshot := range r.snapshots {
		for id := range snapshot {
			ids[id] = struct{}{}
		}
	}
	return len(ids)
}
