package replication

import (
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orders(id string, dirty int64) *domain.InstanceInfo {
	return &domain.InstanceInfo{
		InstanceID:         id,
		AppName:            "ORDERS",
		HostName:           id + ".local",
		IPAddr:             "10.0.0.1",
		Port:               8080,
		Status:             domain.StatusUp,
		LastDirtyTimestamp: dirty,
		LeaseInfo:          &domain.LeaseInfo{RenewalIntervalInSecs: 10, DurationInSecs: 30},
	}
}

func TestEntryFor(t *testing.T) {
	in := orders("i-1", 100)
	local := domain.LocalSource("node-a")
	tests := []struct {
		name string
		m    domain.Mutation
		want domain.ReplicationInstance
		ok   bool
	}{
		{
			name: "register",
			m:    domain.Mutation{Kind: domain.MutationRegister, AppName: "ORDERS", ID: "i-1", Instance: in, Source: local},
			want: domain.ReplicationInstance{Action: domain.ActionRegister, AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 100, Instance: in},
			ok:   true,
		},
		{
			name: "renew",
			m:    domain.Mutation{Kind: domain.MutationRenew, AppName: "ORDERS", ID: "i-1", Instance: in, OverriddenStatus: domain.StatusOutOfService},
			want: domain.ReplicationInstance{Action: domain.ActionHeartbeat, AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 100,
				Status: domain.StatusUp, OverriddenStatus: domain.StatusOutOfService},
			ok: true,
		},
		{
			name: "cancel",
			m:    domain.Mutation{Kind: domain.MutationCancel, AppName: "ORDERS", ID: "i-1", Instance: in},
			want: domain.ReplicationInstance{Action: domain.ActionCancel, AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 100},
			ok:   true,
		},
		{
			name: "status_update",
			m:    domain.Mutation{Kind: domain.MutationStatusUpdate, AppName: "ORDERS", ID: "i-1", Instance: in, Status: domain.StatusOutOfService},
			want: domain.ReplicationInstance{Action: domain.ActionStatusUpdate, AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 100, Status: domain.StatusOutOfService},
			ok:   true,
		},
		{
			name: "delete_status_override",
			m:    domain.Mutation{Kind: domain.MutationDeleteStatusOverride, AppName: "ORDERS", ID: "i-1", Instance: in, Status: domain.StatusUp},
			want: domain.ReplicationInstance{Action: domain.ActionDeleteStatusOverride, AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 100, Status: domain.StatusUp},
			ok:   true,
		},
		{
			name: "evict",
			m:    domain.Mutation{Kind: domain.MutationEvict, AppName: "ORDERS", ID: "i-1", Instance: in},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := entryFor(tt.m)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTask_Expiry(t *testing.T) {
	now := helpers.TestNow()
	in := orders("i-1", 1)

	hb, ok := newTask(domain.Mutation{Kind: domain.MutationRenew, AppName: "ORDERS", ID: "i-1", Instance: in}, now, 30*time.Second)
	require.True(t, ok)
	assert.Equal(t, now.Add(10*time.Second), hb.expires, "heartbeats expire after the renewal interval")
	assert.Equal(t, "Heartbeat#ORDERS/i-1", hb.key())
	assert.Same(t, in, hb.instance)

	reg, ok := newTask(domain.Mutation{Kind: domain.MutationRegister, AppName: "ORDERS", ID: "i-1", Instance: in}, now, 30*time.Second)
	require.True(t, ok)
	assert.Equal(t, now.Add(30*time.Second), reg.expires)
	assert.False(t, reg.expired(now.Add(29*time.Second)))
	assert.True(t, reg.expired(now.Add(30*time.Second)))

	_, ok = newTask(domain.Mutation{Kind: domain.MutationEvict}, now, time.Second)
	assert.False(t, ok)
}
