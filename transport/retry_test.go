package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedServers answers per endpoint with a fixed status, or an error when the status is 0.
type scriptedServers struct {
	mu     sync.Mutex
	status map[string]int
	calls  []string
}

func (s *scriptedServers) handler(ctx context.Context, req *Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req.Endpoint)
	code := s.status[req.Endpoint]
	if code == 0 {
		return nil, errors.New("connection refused")
	}
	return &Response{StatusCode: code, Endpoint: req.Endpoint}, nil
}

func (s *scriptedServers) set(endpoint string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[endpoint] = code
}

func (s *scriptedServers) takeCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.calls
	s.calls = nil
	return out
}

func resolverOf(endpoints ...string) *mock.EndpointResolverMock {
	return &mock.EndpointResolverMock{
		EndpointsFunc: func() []string { return append([]string(nil), endpoints...) },
	}
}

func newTestRetrier(endpoints ...string) *Retrier {
	return NewRetrier(DefaultConfig(), resolverOf(endpoints...), DefaultServerStatusEvaluator, nil, log.NewNopLogger())
}

func TestDefaultServerStatusEvaluator(t *testing.T) {
	tests := []struct {
		status int
		kind   RequestKind
		want   bool
	}{
		{http.StatusOK, KindRegister, true},
		{http.StatusNoContent, KindRegister, true},
		{http.StatusInternalServerError, KindRegister, false},
		{http.StatusServiceUnavailable, KindReplicationBatch, false},
		{http.StatusNotFound, KindHeartbeat, true},
		{http.StatusConflict, KindHeartbeat, true},
		{http.StatusInternalServerError, KindHeartbeat, false},
		{http.StatusInternalServerError, KindFullFetch, true},
		{http.StatusBadGateway, KindDeltaFetch, true},
		{http.StatusInternalServerError, KindCancel, true},
		{http.StatusTemporaryRedirect, KindRegister, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"_"+http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultServerStatusEvaluator(tt.status, tt.kind))
		})
	}
}

func TestRetrier_FailsOverAndSticks(t *testing.T) {
	servers := &scriptedServers{status: map[string]int{"http://a": 0, "http://b": 200, "http://c": 200}}
	r := newTestRetrier("http://a", "http://b", "http://c")
	h := r.Middleware()(servers.handler)

	resp, err := h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	assert.Equal(t, "http://b", resp.Endpoint)
	assert.Equal(t, []string{"http://a", "http://b"}, servers.takeCalls())
	assert.Equal(t, []string{"http://a"}, r.Quarantined())
	assert.Equal(t, "http://b", r.Current())

	_, err = h(context.Background(), &Request{Kind: KindHeartbeat})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://b"}, servers.takeCalls())
}

func TestRetrier_RejectedStatusQuarantines(t *testing.T) {
	servers := &scriptedServers{status: map[string]int{"http://a": 503, "http://b": 204, "http://c": 204}}
	r := newTestRetrier("http://a", "http://b", "http://c")
	h := r.Middleware()(servers.handler)

	resp, err := h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	assert.Equal(t, "http://b", resp.Endpoint)

	// a query accepts the 5xx of the first server
	r.Reset()
	resp, err = h(context.Background(), &Request{Kind: KindFullFetch})
	require.NoError(t, err)
	assert.Equal(t, "http://a", resp.Endpoint)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestRetrier_GivesUp(t *testing.T) {
	servers := &scriptedServers{status: map[string]int{}}
	r := newTestRetrier("http://a", "http://b", "http://c", "http://d")
	h := r.Middleware()(servers.handler)

	_, err := h(context.Background(), &Request{Kind: KindRegister})
	require.Error(t, err)
	assert.True(t, service.IsNoAvailableServerError(err))
	// three attempts, one per server
	assert.Equal(t, []string{"http://a", "http://b", "http://c"}, servers.takeCalls())

	_, err = h(context.Background(), &Request{Kind: KindRegister})
	assert.True(t, service.IsNoAvailableServerError(err))

	empty := newTestRetrier()
	_, err = empty.Middleware()(servers.handler)(context.Background(), &Request{Kind: KindRegister})
	assert.True(t, service.IsNoAvailableServerError(err))
}

func TestRetrier_QuarantineClearedAtThreshold(t *testing.T) {
	servers := &scriptedServers{status: map[string]int{}}
	r := newTestRetrier("http://a", "http://b", "http://c")
	h := r.Middleware()(servers.handler)

	_, err := h(context.Background(), &Request{Kind: KindRegister})
	require.Error(t, err)
	assert.Equal(t, []string{"http://a", "http://b", "http://c"}, r.Quarantined())

	// 3 of 3 quarantined is past 66%: the next request starts over with every server
	servers.set("http://a", 200)
	servers.takeCalls()
	resp, err := h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	assert.Equal(t, "http://a", resp.Endpoint)
	assert.Empty(t, r.Quarantined())
}

func TestRetrier_QuarantineBelowThresholdKept(t *testing.T) {
	servers := &scriptedServers{status: map[string]int{"http://a": 0, "http://b": 200, "http://c": 200, "http://d": 200}}
	r := newTestRetrier("http://a", "http://b", "http://c", "http://d")
	h := r.Middleware()(servers.handler)

	_, err := h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	servers.set("http://b", 0)
	servers.takeCalls()

	// b fails; a and b (2 of 4) stay below 66% so neither is tried again
	resp, err := h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	assert.Equal(t, "http://c", resp.Endpoint)
	assert.Equal(t, []string{"http://b", "http://c"}, servers.takeCalls())
	assert.Equal(t, []string{"http://a", "http://b"}, r.Quarantined())
}

func TestRetrier_DropsEndpointsNoLongerResolved(t *testing.T) {
	endpoints := []string{"http://a", "http://b", "http://c"}
	resolver := &mock.EndpointResolverMock{EndpointsFunc: func() []string { return append([]string(nil), endpoints...) }}
	servers := &scriptedServers{status: map[string]int{"http://b": 200, "http://d": 200}}
	r := NewRetrier(DefaultConfig(), resolver, DefaultServerStatusEvaluator, nil, log.NewNopLogger())
	h := r.Middleware()(servers.handler)

	_, err := h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	require.Equal(t, []string{"http://a"}, r.Quarantined())

	endpoints = []string{"http://b", "http://d"}
	r.Reset()
	r.failed("http://a")
	_, err = h(context.Background(), &Request{Kind: KindRegister})
	require.NoError(t, err)
	assert.Empty(t, r.Quarantined())
}

func TestRetrier_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestRetrier("http://a", "http://b")
	calls := 0
	h := r.Middleware()(func(ctx context.Context, req *Request) (*Response, error) {
		calls++
		return nil, ctx.Err()
	})
	_, err := h(ctx, &Request{Kind: KindRegister})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
