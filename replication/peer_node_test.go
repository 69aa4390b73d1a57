package replication

import (
	"context"
	"net/http"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces/mock"
	"myregistry/registry"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nodeA = domain.LocalSource("node-a")

func okResults(entries []domain.ReplicationInstance) []domain.ReplicationResult {
	out := make([]domain.ReplicationResult, len(entries))
	for i := range out {
		out[i].StatusCode = http.StatusOK
	}
	return out
}

func newTestNode(t *testing.T, client *mock.RegistryClientMock, local *mock.InstanceRegistryMock) (*PeerNode, *helpers.FakeClock) {
	t.Helper()
	clock := helpers.NewFakeClock(helpers.TestNow())
	if local == nil {
		local = &mock.InstanceRegistryMock{}
	}
	return NewPeerNode("http://peer:8761", client, local, DefaultConfig(), clock, nil, log.NewNopLogger()), clock
}

func register(in *domain.InstanceInfo) domain.Mutation {
	return domain.Mutation{Kind: domain.MutationRegister, AppName: in.AppName, ID: in.InstanceID, Instance: in, Source: nodeA}
}

func renew(in *domain.InstanceInfo) domain.Mutation {
	return domain.Mutation{Kind: domain.MutationRenew, AppName: in.AppName, ID: in.InstanceID, Instance: in, Source: nodeA}
}

func TestNewPeerNode_Panics(t *testing.T) {
	clock := helpers.NewFakeClock(helpers.TestNow())
	client := &mock.RegistryClientMock{}
	local := &mock.InstanceRegistryMock{}
	assert.PanicsWithValue(t, "replication.peer_node.go: url is required", func() {
		NewPeerNode("", client, local, DefaultConfig(), clock, nil, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "replication.peer_node.go: client is required", func() {
		NewPeerNode("http://p", nil, local, DefaultConfig(), clock, nil, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "replication.peer_node.go: logger is required", func() {
		NewPeerNode("http://p", client, local, DefaultConfig(), clock, nil, nil)
	})
}

func TestPeerNode_SendsBatchAfterDelay(t *testing.T) {
	client := &mock.RegistryClientMock{
		SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
			return okResults(entries), nil
		},
	}
	n, clock := newTestNode(t, client, nil)
	in := orders("i-1", 1)
	require.True(t, n.Enqueue(register(in)))
	require.True(t, n.Enqueue(renew(in)))
	assert.False(t, n.Enqueue(domain.Mutation{Kind: domain.MutationEvict, AppName: "ORDERS", ID: "i-1", Instance: in}))

	assert.False(t, n.flush(context.Background()))
	assert.Empty(t, client.SubmitBatchCalls())

	clock.Advance(500 * time.Millisecond)
	assert.True(t, n.flush(context.Background()))
	calls := client.SubmitBatchCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Entries, 2)
	assert.Equal(t, domain.ActionRegister, calls[0].Entries[0].Action)
	assert.Equal(t, domain.ActionHeartbeat, calls[0].Entries[1].Action)
	assert.Equal(t, 0, n.Pending())
}

func TestPeerNode_HeartbeatNotFoundReregisters(t *testing.T) {
	var results [][]domain.ReplicationResult
	results = append(results, []domain.ReplicationResult{{StatusCode: http.StatusNotFound}})
	client := &mock.RegistryClientMock{
		SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
			if len(results) > 0 {
				r := results[0]
				results = results[1:]
				return r, nil
			}
			return okResults(entries), nil
		},
	}
	n, clock := newTestNode(t, client, nil)
	in := orders("i-1", 7)
	n.Enqueue(renew(in))
	clock.Advance(time.Second)
	require.True(t, n.flush(context.Background()))
	assert.Equal(t, 1, n.Pending())

	clock.Advance(time.Second)
	require.True(t, n.flush(context.Background()))
	calls := client.SubmitBatchCalls()
	require.Len(t, calls, 2)
	entry := calls[1].Entries[0]
	assert.Equal(t, domain.ActionRegister, entry.Action)
	assert.Equal(t, in, entry.Instance)
	assert.Equal(t, int64(7), entry.LastDirtyTimestamp)
}

func TestPeerNode_TransientFailureBacksOff(t *testing.T) {
	failures := 2
	client := &mock.RegistryClientMock{
		SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
			if failures > 0 {
				failures--
				return nil, service.NewNoAvailableServerError("Cannot execute replication_batch on any known server", nil)
			}
			return okResults(entries), nil
		},
	}
	n, clock := newTestNode(t, client, nil)
	n.Enqueue(register(orders("i-1", 1)))
	clock.Advance(time.Second)

	assert.False(t, n.flush(context.Background()))
	assert.Equal(t, 1, n.Pending(), "the batch is put back")

	assert.False(t, n.flush(context.Background()))
	assert.Len(t, client.SubmitBatchCalls(), 1, "no resend during back-off")

	clock.Advance(100 * time.Millisecond)
	assert.False(t, n.flush(context.Background()))
	assert.Len(t, client.SubmitBatchCalls(), 2)

	clock.Advance(100 * time.Millisecond)
	assert.False(t, n.flush(context.Background()))
	assert.Len(t, client.SubmitBatchCalls(), 2, "second back-off is doubled")

	clock.Advance(100 * time.Millisecond)
	assert.True(t, n.flush(context.Background()))
	assert.Len(t, client.SubmitBatchCalls(), 3)
	assert.Equal(t, 0, n.Pending())
}

func TestPeerNode_RejectedBatchDropped(t *testing.T) {
	client := &mock.RegistryClientMock{
		SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
			return nil, service.NewBadParameterError("malformed batch", nil)
		},
	}
	n, clock := newTestNode(t, client, nil)
	n.Enqueue(register(orders("i-1", 1)))
	clock.Advance(time.Second)

	assert.False(t, n.flush(context.Background()))
	assert.Equal(t, 0, n.Pending())
}

func TestPeerNode_ExpiredHeartbeatNotSent(t *testing.T) {
	client := &mock.RegistryClientMock{}
	n, clock := newTestNode(t, client, nil)
	n.Enqueue(renew(orders("i-1", 1)))

	clock.Advance(11 * time.Second)
	assert.False(t, n.flush(context.Background()))
	assert.Empty(t, client.SubmitBatchCalls())
	assert.Equal(t, 0, n.Pending())
}

func TestPeerNode_ConflictResolution(t *testing.T) {
	tests := []struct {
		name      string
		localTS   int64
		peerTS    int64
		wantDirty int64
	}{
		{name: "peer_newer_adopted", localTS: 50, peerTS: 100, wantDirty: 100},
		{name: "peer_older_ignored", localTS: 100, peerTS: 50, wantDirty: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := helpers.NewFakeClock(helpers.TestNow())
			store := registry.NewLeaseStore(registry.DefaultConfig("node-a"), clock, nil, log.NewNopLogger())
			require.NoError(t, store.Register(context.Background(), orders("i-1", tt.localTS), nodeA))

			peerCopy := orders("i-1", tt.peerTS)
			peerCopy.HostName = "from-peer"
			client := &mock.RegistryClientMock{
				SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
					return []domain.ReplicationResult{{StatusCode: http.StatusConflict, Instance: peerCopy}}, nil
				},
			}
			n := NewPeerNode("http://peer:8761", client, store, DefaultConfig(), clock, nil, log.NewNopLogger())
			in, _ := store.Instance("ORDERS", "i-1")
			n.Enqueue(renew(in))
			clock.Advance(time.Second)
			require.True(t, n.flush(context.Background()))

			got, ok := store.Instance("ORDERS", "i-1")
			require.True(t, ok)
			assert.Equal(t, tt.wantDirty, got.LastDirtyTimestamp)
			if tt.peerTS > tt.localTS {
				assert.Equal(t, "from-peer", got.HostName)
				lease, _ := store.GetLease("ORDERS", "i-1")
				assert.Equal(t, domain.ReplicatedSource("http://peer:8761"), lease.Source)
			}
		})
	}
}

func TestPeerNode_ConflictAdoptsOverride(t *testing.T) {
	clock := helpers.NewFakeClock(helpers.TestNow())
	local := &mock.InstanceRegistryMock{
		InstanceFunc: func(appName, id string) (*domain.InstanceInfo, bool) {
			return orders(id, 10), true
		},
	}
	peerCopy := orders("i-1", 20)
	peerCopy.OverriddenStatus = domain.StatusOutOfService
	client := &mock.RegistryClientMock{
		SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
			return []domain.ReplicationResult{{StatusCode: http.StatusConflict, Instance: peerCopy}}, nil
		},
	}
	n := NewPeerNode("http://peer:8761", client, local, DefaultConfig(), clock, nil, log.NewNopLogger())
	n.Enqueue(register(orders("i-1", 10)))
	clock.Advance(time.Second)
	require.True(t, n.flush(context.Background()))

	require.Len(t, local.RegisterCalls(), 1)
	assert.Equal(t, peerCopy, local.RegisterCalls()[0].In)
	require.Len(t, local.StatusUpdateCalls(), 1)
	assert.Equal(t, domain.StatusOutOfService, local.StatusUpdateCalls()[0].Status)
}

func TestPeerNode_Run(t *testing.T) {
	sent := make(chan []domain.ReplicationInstance, 1)
	client := &mock.RegistryClientMock{
		SubmitBatchFunc: func(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
			sent <- entries
			return okResults(entries), nil
		},
	}
	cfg := DefaultConfig()
	cfg.MaxBatchSize = 1
	n := NewPeerNode("http://peer:8761", client, &mock.InstanceRegistryMock{}, cfg, helpers.NewFakeClock(helpers.TestNow()), nil, log.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()

	n.Enqueue(register(orders("i-1", 1)))
	select {
	case entries := <-sent:
		assert.Equal(t, "i-1", entries[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("batch not sent")
	}
	cancel()
	<-done
}
