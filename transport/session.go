package transport

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Resetter is a stateful pipeline stage whose state a session ends.
type Resetter interface {
	Reset()
}

// Session ends the client session every duration, randomized in [duration, 1.5*duration] so
// clients started together do not rebalance together. Ending a session resets targets (the
// retry quarantine and sticky server, the redirect pins), spreading clients over the servers
// again.
func Session(duration time.Duration, clock interfaces.TimeProvider, logger log.Logger, targets ...Resetter) Middleware {
	clock = helpers.NilPanic(clock, "transport.session.go: clock is required")
	var (
		mu      sync.Mutex
		expires time.Time
	)
	randomized := func() time.Duration {
		return duration + time.Duration(rand.Int64N(int64(duration/2)+1))
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			now := clock.Now()
			mu.Lock()
			switch {
			case expires.IsZero():
				expires = now.Add(randomized())
			case !now.Before(expires):
				for _, t := range targets {
					t.Reset()
				}
				expires = now.Add(randomized())
				level.Debug(logger).Log("msg", "transport session renewed", "next", expires)
			}
			mu.Unlock()
			return next(ctx, req)
		}
	}
}
