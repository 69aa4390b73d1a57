package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces/mock"
	"myregistry/notification"
	"myregistry/registry"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamConfig() Config {
	cfg := DefaultConfig()
	cfg.StreamRetryDelay = 5 * time.Millisecond
	cfg.StreamMaxRetryDelay = 20 * time.Millisecond
	return cfg
}

func instanceIDs(instances []*domain.InstanceInfo) []string {
	out := make([]string, 0, len(instances))
	for _, in := range instances {
		out = append(out, in.InstanceID)
	}
	return out
}

func TestNewInterestRegistry_Panics(t *testing.T) {
	streamer := &mock.InterestStreamerMock{}
	assert.PanicsWithValue(t, "client.interest_registry.go: at least one interest is required", func() {
		NewInterestRegistry(streamer, nil, DefaultConfig(), log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "client.interest_registry.go: streamer is required", func() {
		NewInterestRegistry(nil, domain.Interests{domain.FullRegistryInterest()}, DefaultConfig(), log.NewNopLogger())
	})
}

func TestInterestRegistry_FollowsBroker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	node := domain.LocalSource("http://a:8761")
	store := registry.NewLeaseStore(registry.DefaultConfig("http://a:8761"), helpers.NewFakeClock(helpers.TestNow()), nil, log.NewNopLogger())
	broker := notification.NewBroker(store, "http://a:8761", nil, log.NewNopLogger())
	store.AddListener(broker)
	defer broker.Close()

	require.NoError(t, store.Register(ctx, instance("ORDERS", "i-1", domain.StatusUp), node))
	require.NoError(t, store.Register(ctx, instance("BILLING", "b-1", domain.StatusUp), node))
	require.NoError(t, store.Register(ctx, instance("SHIPPING", "s-1", domain.StatusUp), node))

	reg := NewInterestRegistry(broker, domain.Interests{domain.ForApplication("orders"), domain.ForVIP("BILLING-vip")},
		streamConfig(), log.NewNopLogger())
	var mu sync.Mutex
	var kinds []domain.NotificationKind
	reg.AddListener(func(n domain.ChangeNotification) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, n.Kind)
	})
	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()

	require.Eventually(t, reg.Synced, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"b-1", "i-1"}, instanceIDs(reg.Instances(domain.FullRegistryInterest())))
	assert.Equal(t, []string{"i-1"}, instanceIDs(reg.Instances(domain.ForApplication("ORDERS"))))

	require.NoError(t, store.Register(ctx, instance("ORDERS", "i-2", domain.StatusUp), node))
	require.NoError(t, store.Register(ctx, instance("SHIPPING", "s-2", domain.StatusUp), node))
	require.Eventually(t, func() bool { return reg.Size() == 3 }, 2*time.Second, 5*time.Millisecond)

	require.True(t, store.Cancel(ctx, "ORDERS", "i-1", node))
	require.Eventually(t, func() bool { return reg.Size() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"b-1", "i-2"}, instanceIDs(reg.Instances(domain.FullRegistryInterest())))

	cancel()
	<-done
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, domain.KindDelete, kinds[len(kinds)-1])
}

func TestInterestRegistry_ResyncRemovesUnseen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	full := domain.FullRegistryInterest()
	src := domain.LocalSource("http://a:8761")
	feeds := []chan domain.ChangeNotification{
		make(chan domain.ChangeNotification, 8),
		make(chan domain.ChangeNotification, 8),
	}
	var mu sync.Mutex
	calls := 0
	streamer := &mock.InterestStreamerMock{
		SubscribeFunc: func(ctx context.Context, interests domain.Interests, localOnly bool) (<-chan domain.ChangeNotification, error) {
			mu.Lock()
			defer mu.Unlock()
			feed := feeds[calls]
			calls++
			return feed, nil
		},
	}

	feeds[0] <- domain.BufferStart(full, src)
	feeds[0] <- domain.AddNotification(instance("ORDERS", "a", domain.StatusUp), src)
	feeds[0] <- domain.AddNotification(instance("ORDERS", "b", domain.StatusUp), src)
	feeds[0] <- domain.BufferEnd(full, src)
	close(feeds[0])

	reg := NewInterestRegistry(streamer, domain.Interests{full}, streamConfig(), log.NewNopLogger())
	go reg.Run(ctx)
	require.Eventually(t, reg.Synced, 2*time.Second, 5*time.Millisecond)

	feeds[1] <- domain.BufferStart(full, src)
	feeds[1] <- domain.AddNotification(instance("ORDERS", "b", domain.StatusDown), src)
	require.Eventually(t, func() bool {
		in := reg.Instances(domain.ForInstance("b"))
		return len(in) == 1 && in[0].Status == domain.StatusDown
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, reg.Size(), "nothing is removed while the refresh streams")

	feeds[1] <- domain.BufferEnd(full, src)
	require.Eventually(t, func() bool { return reg.Size() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"b"}, instanceIDs(reg.Instances(full)))
	assert.Len(t, streamer.SubscribeCalls(), 2)
	assert.False(t, streamer.SubscribeCalls()[0].LocalOnly)
}
