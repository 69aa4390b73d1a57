package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instance(app, id string, status InstanceStatus) *InstanceInfo {
	return &InstanceInfo{InstanceID: id, AppName: app, HostName: id + ".local", Status: status}
}

func TestHashCodeFromCounts(t *testing.T) {
	tests := []struct {
		name   string
		counts map[InstanceStatus]int
		want   string
	}{
		{name: "empty", counts: map[InstanceStatus]int{}, want: ""},
		{name: "sorted_by_status", counts: map[InstanceStatus]int{StatusUp: 2, StatusDown: 1}, want: "DOWN_1_UP_2_"},
		{name: "zero_counts_omitted", counts: map[InstanceStatus]int{StatusUp: 3, StatusStarting: 0}, want: "UP_3_"},
		{
			name:   "all_statuses",
			counts: map[InstanceStatus]int{StatusUp: 1, StatusOutOfService: 1, StatusStarting: 1, StatusUnknown: 1, StatusDown: 1},
			want:   "DOWN_1_OUT_OF_SERVICE_1_STARTING_1_UNKNOWN_1_UP_1_",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HashCodeFromCounts(tt.counts))
		})
	}
}

func TestApplications_AddRemove(t *testing.T) {
	apps := NewApplications()
	apps.Add(instance("orders", "o-1", StatusUp))
	apps.Add(instance("ORDERS", "o-2", StatusDown))
	apps.Add(instance("billing", "b-1", StatusUp))

	require.Equal(t, 3, apps.Size())
	app, ok := apps.Application("Orders")
	require.True(t, ok)
	assert.Equal(t, "ORDERS", app.Name)
	assert.Equal(t, 2, app.Size())
	assert.Equal(t, "DOWN_1_UP_2_", apps.ComputeHashCode())

	names := []string{}
	for _, a := range apps.List() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"BILLING", "ORDERS"}, names)

	apps.Remove("billing", "b-1")
	_, ok = apps.Application("billing")
	assert.False(t, ok, "empty application is dropped")
	assert.Equal(t, 2, apps.Size())
}

func TestApplications_ApplyDelta(t *testing.T) {
	apps := NewApplications()
	apps.Add(instance("orders", "o-1", StatusUp))
	apps.Add(instance("orders", "o-2", StatusUp))

	delta := NewApplications()
	delta.Version = 7
	added := instance("billing", "b-1", StatusStarting)
	added.ActionType = ActionAdded
	modified := instance("orders", "o-1", StatusDown)
	modified.ActionType = ActionModified
	deleted := instance("orders", "o-2", StatusUp)
	deleted.ActionType = ActionDeleted
	delta.Add(added)
	delta.Add(modified)
	delta.Add(deleted)

	merged := apps.Clone()
	merged.ApplyDelta(delta)

	assert.Equal(t, int64(7), merged.Version)
	assert.Equal(t, 2, merged.Size())
	got, ok := merged.Instance("orders", "o-1")
	require.True(t, ok)
	assert.Equal(t, StatusDown, got.Status)
	_, ok = merged.Instance("orders", "o-2")
	assert.False(t, ok)
	assert.Equal(t, "DOWN_1_STARTING_1_", merged.ComputeHashCode())

	// The original is untouched.
	assert.Equal(t, "UP_2_", apps.ComputeHashCode())
}

func TestApplications_Filter(t *testing.T) {
	apps := NewApplications()
	a := instance("orders", "o-1", StatusUp)
	a.VIPAddress = "orders.vip"
	apps.Add(a)
	apps.Add(instance("billing", "b-1", StatusUp))

	assert.Len(t, apps.Filter(Interests{FullRegistryInterest()}), 2)
	assert.Equal(t, []*InstanceInfo{a}, apps.Filter(Interests{ForVIP("orders.vip")}))
	assert.Len(t, apps.Filter(Interests{ForApplication("billing"), ForInstance("o-1")}), 2)
	assert.Empty(t, apps.Filter(Interests{ForApplication("nope")}))
}
