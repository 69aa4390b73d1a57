package notification

import (
	"context"
	"testing"
	"time"

	"myregistry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(ns ...domain.ChangeNotification) <-chan domain.ChangeNotification {
	ch := make(chan domain.ChangeNotification, len(ns))
	for _, n := range ns {
		ch <- n
	}
	close(ch)
	return ch
}

func collect(t *testing.T, ch <-chan domain.ChangeNotification) []domain.ChangeNotification {
	t.Helper()
	var out []domain.ChangeNotification
	timeout := time.After(2 * time.Second)
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, n)
		case <-timeout:
			t.Fatal("stream did not close")
			return out
		}
	}
}

func next(t *testing.T, ch <-chan domain.ChangeNotification) domain.ChangeNotification {
	t.Helper()
	select {
	case n, ok := <-ch:
		require.True(t, ok, "stream closed")
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no notification")
		return domain.ChangeNotification{}
	}
}

func TestMerge_SingleRefreshWindow(t *testing.T) {
	full := domain.FullRegistryInterest()
	app := domain.ForApplication("orders")
	i1 := &domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS"}
	i2 := &domain.InstanceInfo{InstanceID: "i-2", AppName: "ORDERS"}

	a := make(chan domain.ChangeNotification)
	b := make(chan domain.ChangeNotification)
	out := Merge(context.Background(), NewBufferMerger(full, InterestKey), a, b)

	a <- domain.BufferStart(full, domain.Source{})
	assert.Equal(t, domain.KindBufferStart, next(t, out).Kind)
	a <- domain.AddNotification(i1, domain.Source{})
	assert.Equal(t, "i-1", next(t, out).Instance.InstanceID)

	b <- domain.BufferStart(app, domain.Source{})
	b <- domain.AddNotification(i2, domain.Source{})
	assert.Equal(t, "i-2", next(t, out).Instance.InstanceID)

	a <- domain.BufferEnd(full, domain.Source{})
	b <- domain.BufferEnd(app, domain.Source{})
	end := next(t, out)
	assert.Equal(t, domain.KindBufferEnd, end.Kind)
	assert.Equal(t, full, end.Interest)

	close(a)
	close(b)
	assert.Empty(t, collect(t, out))
}

func TestMerge_PreservesPerInputOrder(t *testing.T) {
	var ns []domain.ChangeNotification
	for i := 0; i < 100; i++ {
		ns = append(ns, domain.ChangeNotification{Kind: domain.KindModify, Instance: &domain.InstanceInfo{LastDirtyTimestamp: int64(i)}})
	}
	out := collect(t, Merge(context.Background(), nil, feed(ns...)))
	require.Len(t, out, 100)
	for i, n := range out {
		assert.Equal(t, int64(i), n.Instance.LastDirtyTimestamp)
	}
}

func TestMerge_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	open := make(chan domain.ChangeNotification)
	out := Merge(ctx, nil, open)
	cancel()
	collect(t, out)
}
