package handlers

import (
	"context"
	"net"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/notification"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

func startGrpc(t *testing.T, srv *GrpcServer) InterestServiceClient {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := grpc.NewServer(grpc.ChainStreamInterceptor(service.MyErrorToGRPCStreamInterceptor(log.NewNopLogger())))
	RegisterInterestServiceServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewInterestServiceClient(conn)
}

func TestGrpcServer_Subscribe(t *testing.T) {
	store := newTestStore()
	broker := notification.NewBroker(store, testNode, nil, log.NewNopLogger())
	store.AddListener(broker)
	defer broker.Close()
	require.NoError(t, store.Register(context.Background(),
		&domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", HostName: "orders-1", Status: domain.StatusUp},
		domain.LocalSource(testNode)))
	client := startGrpc(t, NewGrpcServer(broker, log.NewNopLogger()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream, err := client.Subscribe(ctx, &SubscribeRequest{
		Interests:  []*Interest{{Kind: "application", Pattern: "orders"}},
		Subscriber: "test",
	})
	require.NoError(t, err)

	var kinds []ChangeKind
	for range 3 {
		n, err := stream.Recv()
		require.NoError(t, err)
		kinds = append(kinds, n.GetKind())
	}
	assert.Equal(t, []ChangeKind{ChangeKind_BUFFER_START, ChangeKind_ADD, ChangeKind_BUFFER_END}, kinds)

	require.NoError(t, store.Register(context.Background(),
		&domain.InstanceInfo{InstanceID: "i-2", AppName: "ORDERS", HostName: "orders-2", Status: domain.StatusUp},
		domain.LocalSource(testNode)))
	n, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, ChangeKind_ADD, n.GetKind())
	require.NotNil(t, n.GetInstance())
	assert.Equal(t, "i-2", n.GetInstance().GetInstanceId())
}

func TestGrpcServer_SubscribeErrors(t *testing.T) {
	store := newTestStore()
	broker := notification.NewBroker(store, testNode, nil, log.NewNopLogger())
	client := startGrpc(t, NewGrpcServer(broker, log.NewNopLogger()))

	tests := []struct {
		name     string
		req      *SubscribeRequest
		close    bool
		wantCode codes.Code
	}{
		{name: "no interests", req: &SubscribeRequest{}, wantCode: codes.InvalidArgument},
		{name: "unknown kind", req: &SubscribeRequest{Interests: []*Interest{{Kind: "zone"}}}, wantCode: codes.InvalidArgument},
		{name: "broker shut down", req: &SubscribeRequest{Interests: []*Interest{{Kind: "full"}}}, close: true, wantCode: codes.Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.close {
				broker.Close()
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			stream, err := client.Subscribe(ctx, tt.req)
			require.NoError(t, err)

			_, err = stream.Recv()
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}
