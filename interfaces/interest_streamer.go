package interfaces

import (
	"context"

	"myregistry/domain"
)

// InterestStreamer opens a change stream for a set of interests: a snapshot of the matching
// instances wrapped in BufferStart/BufferEnd, followed by live Add/Modify/Delete notifications.
//
// The returned channel is closed when ctx is cancelled or the stream ends (for a server-side
// subscriber, when it falls too far behind). localOnly restricts the stream to instances
// registered directly on the serving node.
//
// Implemented by notification.Broker (in process) and grpcstream.Client (remote).
//
//go:generate moq -stub -out mock/interest_streamer.go -pkg mock . InterestStreamer
type InterestStreamer interface {
	Subscribe(ctx context.Context, interests domain.Interests, localOnly bool) (<-chan domain.ChangeNotification, error)
}
