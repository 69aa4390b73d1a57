package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"
)

// SelfRegistration pushes the local instance record to the registry: periodically, and on
// demand when the local status changes.
//
// On-demand pushes go through a token bucket holding up to OnDemandBurstSize tokens and
// refilled with one token per ReplicationInterval. A push without a token is rejected without a
// network call. Accepted or not, an on-demand call moves the next periodic push to
// now + ReplicationInterval, so a burst of triggers costs at most one call per window.
//
// Before each push the health-check handler (if any) is asked for the status to publish; an
// error or a panic in the handler publishes DOWN.
type SelfRegistration struct {
	cfg     Config
	holder  *InstanceHolder
	client  interfaces.RegistryClient
	health  interfaces.HealthCheckHandler
	clock   interfaces.TimeProvider
	limiter *rate.Limiter
	metrics *telemetry.Metrics
	logger  log.Logger

	trigger chan struct{}
	pushMu  sync.Mutex

	mu   sync.Mutex
	next time.Time
}

// NewSelfRegistration creates the replicator of holder's record. Panics on an invalid config or
// a nil holder, client, clock or logger; health and metrics may be nil.
//
// The holder's status changes trigger on-demand pushes.
func NewSelfRegistration(
	cfg Config,
	holder *InstanceHolder,
	client interfaces.RegistryClient,
	health interfaces.HealthCheckHandler,
	clock interfaces.TimeProvider,
	metrics *telemetry.Metrics,
	logger log.Logger,
) *SelfRegistration {
	if err := cfg.Validate(); err != nil {
		panic("client.self_registration.go: " + err.Error())
	}
	s := &SelfRegistration{
		cfg:     cfg,
		holder:  helpers.NilPanic(holder, "client.self_registration.go: holder is required"),
		client:  helpers.NilPanic(client, "client.self_registration.go: client is required"),
		health:  health,
		clock:   helpers.NilPanic(clock, "client.self_registration.go: clock is required"),
		limiter: rate.NewLimiter(rate.Every(cfg.ReplicationInterval), cfg.OnDemandBurstSize),
		metrics: metrics,
		logger:  log.With(helpers.NilPanic(logger, "client.self_registration.go: logger is required"), "component", "SelfRegistration"),
		trigger: make(chan struct{}, 1),
	}
	holder.AddStatusListener(func(prev, next domain.InstanceStatus) {
		level.Info(s.logger).Log("msg", "local status changed", "from", prev, "to", next)
		s.OnDemandUpdate()
	})
	return s
}

// Start registers the instance right away when EnforceRegistrationAtInit is set.
//
// Returns the registration error in that case; nil otherwise.
func (s *SelfRegistration) Start(ctx context.Context) error {
	s.setNext(s.clock.Now().Add(s.cfg.InitialReplicationDelay))
	if !s.cfg.EnforceRegistrationAtInit {
		return nil
	}
	return s.Push(ctx)
}

// OnDemandUpdate asks for a push now. Returns false when the token bucket is empty; the push is
// then left to the next periodic run.
func (s *SelfRegistration) OnDemandUpdate() bool {
	now := s.clock.Now()
	s.setNext(now.Add(s.cfg.ReplicationInterval))
	if !s.limiter.AllowN(now, 1) {
		s.metrics.SelfRegistration("rate_limited")
		level.Warn(s.logger).Log("msg", "on-demand update rejected, rate limit exceeded")
		return false
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return true
}

// NextRun returns the time of the next periodic push.
func (s *SelfRegistration) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

func (s *SelfRegistration) setNext(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = t
}

// Run executes the periodic and on-demand pushes until ctx is done. Call Start first.
func (s *SelfRegistration) Run(ctx context.Context) {
	timer := time.NewTimer(s.untilNext())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.runPush(ctx)
			continue
		case <-timer.C:
		}
		if wait := s.untilNext(); wait > 0 {
			timer.Reset(wait)
			continue
		}
		s.setNext(s.clock.Now().Add(s.cfg.ReplicationInterval))
		s.runPush(ctx)
		timer.Reset(s.untilNext())
	}
}

func (s *SelfRegistration) untilNext() time.Duration {
	return max(s.NextRun().Sub(s.clock.Now()), 0)
}

func (s *SelfRegistration) runPush(ctx context.Context) {
	if err := s.Push(ctx); err != nil && ctx.Err() == nil {
		level.Warn(s.logger).Log("msg", "self registration failed", "err", err)
	}
}

// Push refreshes the status from the health-check handler and registers the record when it
// changed since the last successful registration.
func (s *SelfRegistration) Push(ctx context.Context) error {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	if status := s.healthStatus(ctx); status != s.holder.Status() {
		s.holder.SetStatus(status)
	}
	timestamp, dirty := s.holder.DirtyTimestamp()
	if !dirty {
		return nil
	}
	in := s.holder.Instance()
	if err := s.client.Register(ctx, in); err != nil {
		s.metrics.SelfRegistration("failure")
		return err
	}
	s.holder.UnsetDirty(timestamp)
	s.metrics.SelfRegistration("success")
	level.Debug(s.logger).Log("msg", "instance registered", "app", in.AppName, "id", in.InstanceID, "status", in.Status)
	return nil
}

func (s *SelfRegistration) healthStatus(ctx context.Context) (status domain.InstanceStatus) {
	current := s.holder.Status()
	if s.health == nil {
		return current
	}
	defer func() {
		if r := recover(); r != nil {
			level.Error(s.logger).Log("msg", "health check panicked, reporting DOWN", "panic", fmt.Sprint(r))
			status = domain.StatusDown
		}
	}()
	next, err := s.health.Status(ctx, current)
	if err != nil {
		level.Warn(s.logger).Log("msg", "health check failed, reporting DOWN", "err", err)
		return domain.StatusDown
	}
	if !next.Valid() {
		return current
	}
	return next
}

// Unregister removes the instance from the registry. Called on shutdown.
func (s *SelfRegistration) Unregister(ctx context.Context) error {
	in := s.holder.Instance()
	if err := s.client.Cancel(ctx, in.AppName, in.InstanceID); err != nil {
		return err
	}
	level.Info(s.logger).Log("msg", "instance unregistered", "app", in.AppName, "id", in.InstanceID)
	return nil
}
