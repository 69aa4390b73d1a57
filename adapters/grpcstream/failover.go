package grpcstream

import (
	"context"
	"errors"
	"sync"

	"myregistry/domain"
	"myregistry/interfaces"
	"myregistry/service"
)

// Failover is an interfaces.InterestStreamer over several servers. Subscribe starts with the
// server that served the last successful subscription and moves on to the next one when a
// server cannot open the stream.
type Failover struct {
	streamers []interfaces.InterestStreamer

	mu      sync.Mutex
	current int
}

var _ interfaces.InterestStreamer = (*Failover)(nil)

// NewFailover creates the failover streamer. Panics when streamers is empty.
func NewFailover(streamers ...interfaces.InterestStreamer) *Failover {
	if len(streamers) == 0 {
		panic("grpcstream.failover.go: at least one streamer is required")
	}
	return &Failover{streamers: streamers}
}

// Subscribe implements interfaces.InterestStreamer.
//
// Returns the first error that is not no_available_server, or no_available_server when every
// server failed.
func (f *Failover) Subscribe(ctx context.Context, interests domain.Interests, localOnly bool) (<-chan domain.ChangeNotification, error) {
	f.mu.Lock()
	start := f.current
	f.mu.Unlock()

	var errs []error
	for i := range f.streamers {
		idx := (start + i) % len(f.streamers)
		ch, err := f.streamers[idx].Subscribe(ctx, interests, localOnly)
		if err == nil {
			f.mu.Lock()
			f.current = idx
			f.mu.Unlock()
			return ch, nil
		}
		if !service.IsNoAvailableServerError(err) {
			return nil, err
		}
		errs = append(errs, err)
	}
	return nil, service.NewNoAvailableServerError("Cannot open interest stream on any known server", errors.Join(errs...))
}
