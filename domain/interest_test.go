package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterest_Matches(t *testing.T) {
	in := &InstanceInfo{InstanceID: "orders-1", AppName: "ORDERS", VIPAddress: "orders.vip", SecureVIPAddress: "orders.svip"}

	tests := []struct {
		name     string
		interest Interest
		want     bool
	}{
		{name: "full", interest: FullRegistryInterest(), want: true},
		{name: "app_case_insensitive", interest: ForApplication("orders"), want: true},
		{name: "other_app", interest: ForApplication("billing"), want: false},
		{name: "vip", interest: ForVIP("orders.vip"), want: true},
		{name: "secure_vip", interest: Interest{Kind: InterestSecureVIP, Pattern: "orders.svip", Operator: MatchEquals}, want: true},
		{name: "instance", interest: ForInstance("orders-1"), want: true},
		{name: "like", interest: Interest{Kind: InterestInstance, Pattern: "^orders-[0-9]+$", Operator: MatchLike}, want: true},
		{name: "like_miss", interest: Interest{Kind: InterestApplication, Pattern: "^BILL", Operator: MatchLike}, want: false},
		{name: "unknown_kind", interest: Interest{Kind: "zone", Pattern: "a"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.interest.Matches(in))
		})
	}
}

func TestInterest_Validate(t *testing.T) {
	assert.NoError(t, FullRegistryInterest().Validate())
	assert.NoError(t, ForApplication("orders").Validate())
	assert.Error(t, Interest{Kind: InterestApplication}.Validate())
	assert.Error(t, Interest{Kind: "zone", Pattern: "a"}.Validate())
	assert.Error(t, Interest{Kind: InterestVIP, Pattern: "([", Operator: MatchLike}.Validate())
}

func TestSource(t *testing.T) {
	assert.Equal(t, "<none>", Source{}.String())
	assert.Equal(t, "REPLICATED:node-b#3", Source{Origin: OriginReplicated, Name: "node-b", ID: 3}.String())
	assert.True(t, ReplicatedSource("node-b").IsReplication())
	assert.False(t, LocalSource("node-a").IsReplication())

	match := MatchOriginAndName(OriginReplicated, "node-b")
	assert.True(t, match(Source{Origin: OriginReplicated, Name: "node-b", ID: 9}))
	assert.False(t, match(LocalSource("node-b")))
}

func TestParseInstanceStatus(t *testing.T) {
	assert.Equal(t, StatusOutOfService, ParseInstanceStatus("OUT_OF_SERVICE"))
	assert.Equal(t, StatusUnknown, ParseInstanceStatus("sleepy"))
	assert.True(t, StatusUp.Valid())
	assert.False(t, InstanceStatus("").Valid())
}

func TestCompileLike_CompilesOnce(t *testing.T) {
	first, err := compileLike("^orders-[0-9]+$")
	assert.NoError(t, err)
	second, err := compileLike("^orders-[0-9]+$")
	assert.NoError(t, err)
	assert.Same(t, first, second)

	_, err = compileLike("(")
	assert.Error(t, err)
	likePatterns.RLock()
	_, cached := likePatterns.m["("]
	likePatterns.RUnlock()
	assert.False(t, cached)

	interest := Interest{Kind: InterestInstance, Pattern: "^orders-[0-9]+$", Operator: MatchLike}
	assert.True(t, interest.Matches(&InstanceInfo{InstanceID: "orders-12"}))
	assert.False(t, interest.Matches(&InstanceInfo{InstanceID: "orders-x"}))
}
