package grpcstream

import (
	"context"
	"errors"
	"testing"

	"myregistry/domain"
	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamerReturning(err error) *mock.InterestStreamerMock {
	return &mock.InterestStreamerMock{
		SubscribeFunc: func(ctx context.Context, interests domain.Interests, localOnly bool) (<-chan domain.ChangeNotification, error) {
			if err != nil {
				return nil, err
			}
			ch := make(chan domain.ChangeNotification)
			close(ch)
			return ch, nil
		},
	}
}

func TestNewFailover_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "grpcstream.failover.go: at least one streamer is required", func() {
		NewFailover()
	})
}

func TestFailover_Subscribe(t *testing.T) {
	down := service.NewNoAvailableServerError("Cannot open interest stream", nil)
	interests := domain.Interests{domain.FullRegistryInterest()}

	t.Run("moves_on_and_sticks", func(t *testing.T) {
		first, second := streamerReturning(down), streamerReturning(nil)
		f := NewFailover(first, second)

		_, err := f.Subscribe(context.Background(), interests, false)
		require.NoError(t, err)
		_, err = f.Subscribe(context.Background(), interests, false)
		require.NoError(t, err)
		assert.Len(t, first.SubscribeCalls(), 1, "the working server is tried first afterwards")
		assert.Len(t, second.SubscribeCalls(), 2)
	})

	t.Run("all_down", func(t *testing.T) {
		f := NewFailover(streamerReturning(down), streamerReturning(down))
		_, err := f.Subscribe(context.Background(), interests, false)
		require.Error(t, err)
		assert.True(t, service.IsNoAvailableServerError(err))
	})

	t.Run("rejection_is_not_retried", func(t *testing.T) {
		rejected := service.NewBadParameterError("invalid interest", errors.New("bad kind"))
		first, second := streamerReturning(rejected), streamerReturning(nil)
		f := NewFailover(first, second)
		_, err := f.Subscribe(context.Background(), interests, false)
		assert.True(t, service.IsBadParameterError(err))
		assert.Empty(t, second.SubscribeCalls())
	})
}
