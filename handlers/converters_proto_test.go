package handlers

import (
	"testing"

	"myregistry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRoundTrip(t *testing.T) {
	node := domain.LocalSource("node-a")
	in := &domain.InstanceInfo{
		InstanceID:       "i-1",
		AppName:          "ORDERS",
		HostName:         "orders-1",
		Port:             8080,
		Status:           domain.StatusOutOfService,
		OverriddenStatus: domain.StatusOutOfService,
		Metadata:         map[string]string{"zone": "a"},
		LeaseInfo: &domain.LeaseInfo{
			RenewalIntervalInSecs: 30,
			DurationInSecs:        90,
			RegistrationTimestamp: 1700000000123,
			LastRenewalTimestamp:  1700000030123,
		},
		LastDirtyTimestamp: 1700000000100,
	}

	tests := []struct {
		name string
		n    domain.ChangeNotification
	}{
		{name: "add", n: domain.AddNotification(in, node)},
		{name: "delete", n: domain.DeleteNotification(in, node)},
		{name: "buffer start", n: domain.BufferStart(domain.ForApplication("orders"), node)},
		{name: "buffer end", n: domain.BufferEnd(domain.ForVIP("orders.vip"), node)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNotification(ToNotification(tt.n))
			require.NoError(t, err)
			assert.Equal(t, tt.n.Kind, got.Kind)
			assert.Equal(t, tt.n.Source, got.Source)
			if tt.n.IsMarker() {
				assert.Equal(t, tt.n.Interest, got.Interest)
				assert.Nil(t, got.Instance)
				return
			}
			assert.Equal(t, in, got.Instance)
		})
	}
}

func TestToNotification_UnsetLeaseTimes(t *testing.T) {
	n := ToNotification(domain.AddNotification(&domain.InstanceInfo{
		InstanceID: "i-1",
		AppName:    "ORDERS",
		Status:     domain.StatusUp,
		LeaseInfo:  &domain.LeaseInfo{DurationInSecs: 90, RegistrationTimestamp: 1700000000000},
	}, domain.LocalSource("node-a")))

	lease := n.GetInstance().GetLease()
	require.NotNil(t, lease)
	assert.NotNil(t, lease.GetRegistrationTime())
	assert.Nil(t, lease.GetEvictionTime())
	assert.Nil(t, lease.GetServiceUpTime())
}

func TestFromNotification_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   *Notification
	}{
		{name: "unspecified kind", in: &Notification{}},
		{name: "add without instance", in: &Notification{Kind: ChangeKind_ADD}},
		{name: "invalid interest", in: &Notification{Kind: ChangeKind_BUFFER_START, Interest: &Interest{Kind: "zone"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromNotification(tt.in)
			assert.Error(t, err)
		})
	}
}
