package notification

import (
	"testing"

	"myregistry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mergeStep struct {
	in   domain.ChangeNotification
	want domain.NotificationKind // 0 when nothing is emitted
}

func runMerge(t *testing.T, m *BufferMerger, steps []mergeStep) {
	t.Helper()
	for i, s := range steps {
		out, ok := m.Apply(s.in)
		if s.want == 0 {
			assert.False(t, ok, "step %d (%s %s) must be absorbed", i, s.in.Kind, s.in.Source)
			continue
		}
		require.True(t, ok, "step %d (%s %s) must emit", i, s.in.Kind, s.in.Source)
		assert.Equal(t, s.want, out.Kind, "step %d", i)
		assert.True(t, out.Source.IsZero(), "step %d: merged markers carry no source", i)
	}
}

func TestBufferMerger_SourceKey(t *testing.T) {
	full := domain.FullRegistryInterest()
	a := domain.Source{Origin: domain.OriginLocal, Name: "local"}
	b := domain.Source{Origin: domain.OriginReplicated, Name: "rep1", ID: 1}
	c := domain.Source{Origin: domain.OriginReplicated, Name: "rep1", ID: 2}
	d := domain.Source{Origin: domain.OriginReplicated, Name: "rep2", ID: 3}

	start := func(s domain.Source) domain.ChangeNotification { return domain.BufferStart(full, s) }
	end := func(s domain.Source) domain.ChangeNotification { return domain.BufferEnd(full, s) }

	m := NewBufferMerger(full, nil)
	runMerge(t, m, []mergeStep{
		{start(a), domain.KindBufferStart},
		{start(a), 0},
		{start(b), 0},
		{end(b), 0},
		{end(a), domain.KindBufferEnd},
		{end(c), domain.KindBufferEnd},

		{start(a), domain.KindBufferStart},
		{start(b), 0},
		{start(c), 0}, // same replica as b
		{end(d), 0},   // d never opened
		{end(b), 0},   // a still open
		{start(d), 0},
		{end(d), 0},
		{end(a), domain.KindBufferEnd},

		{start(a), domain.KindBufferStart},
		{start(domain.Source{}), 0},
		{end(a), 0},
		{end(domain.Source{}), domain.KindBufferEnd},
	})
	assert.False(t, m.Buffering())
}

func TestBufferMerger_InterestKey(t *testing.T) {
	merged := domain.FullRegistryInterest()
	full := domain.FullRegistryInterest()
	app := domain.ForApplication("foo")
	vip := domain.ForVIP("bar")

	m := NewBufferMerger(merged, InterestKey)
	runMerge(t, m, []mergeStep{
		{domain.BufferStart(full, domain.Source{}), domain.KindBufferStart},
		{domain.BufferStart(app, domain.Source{}), 0},
		{domain.BufferEnd(vip, domain.Source{}), 0},
		{domain.BufferEnd(app, domain.Source{}), 0},
		{domain.BufferEnd(full, domain.Source{}), domain.KindBufferEnd},
	})

	out, ok := m.Apply(domain.BufferStart(app, domain.Source{}))
	require.True(t, ok)
	assert.Equal(t, merged, out.Interest)
}

func TestBufferMerger_DataPassesThrough(t *testing.T) {
	m := NewBufferMerger(domain.FullRegistryInterest(), nil)
	src := domain.ReplicatedSource("rep1")
	in := &domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS"}

	_, ok := m.Apply(domain.BufferStart(domain.FullRegistryInterest(), src))
	require.True(t, ok)

	n := domain.AddNotification(in, src)
	out, ok := m.Apply(n)
	require.True(t, ok)
	assert.Equal(t, n, out)
	assert.Equal(t, Open, m.State("REPLICATED:rep1"))
	assert.Equal(t, Idle, m.State("LOCAL:other"))
}

func TestBufferMerger_DropsRejectedKeys(t *testing.T) {
	onlyReplicated := func(n domain.ChangeNotification) (string, bool) {
		if !n.Source.IsReplication() {
			return "", false
		}
		return SourceKey(n)
	}
	m := NewBufferMerger(domain.FullRegistryInterest(), onlyReplicated)

	_, ok := m.Apply(domain.BufferStart(domain.FullRegistryInterest(), domain.LocalSource("a")))
	assert.False(t, ok)
	assert.False(t, m.Buffering())
}

func TestBufferState_String(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Open", Open.String())
}
