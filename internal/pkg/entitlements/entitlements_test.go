package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kurslyhq/kursly/app/models"
)

func TestNormalizeTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"basic", TierBasic},
		{"pro", TierPro},
		{"enterprise", TierEnterprise},
		{"free", TierFree},
		{"  Pro ", TierPro},
		{"ENTERPRISE", TierEnterprise},
		{"", TierFree},
		{"platinum", TierFree},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTier(tt.in), "input %q", tt.in)
	}
}

func TestIsEntitledFreeContentIsAlwaysAccessible(t *testing.T) {
	assert.True(t, IsEntitled(nil, "", TierFree))
	assert.True(t, IsEntitled(&models.UserSubscription{IsSubscribed: false}, "basic", TierFree))
	assert.True(t, IsEntitled(&models.UserSubscription{IsSubscribed: true}, "enterprise", TierFree))
}

func TestIsEntitledPaidContentRequiresActiveSubscription(t *testing.T) {
	assert.False(t, IsEntitled(nil, "", TierBasic))
	assert.False(t, IsEntitled(&models.UserSubscription{IsSubscribed: false}, "enterprise", TierBasic))
}

func TestIsEntitledTierOrdering(t *testing.T) {
	tiers := []Tier{TierFree, TierBasic, TierPro, TierEnterprise}
	active := &models.UserSubscription{IsSubscribed: true}

	for _, plan := range tiers {
		for _, required := range tiers {
			got := IsEntitled(active, string(plan), required)
			want := required == TierFree || tierRank(plan) >= tierRank(required)
			assert.Equal(t, want, got, "plan=%s required=%s", plan, required)
		}
	}
}

func TestIsEntitledUnknownPlanTierGrantsNothingPaid(t *testing.T) {
	active := &models.UserSubscription{IsSubscribed: true}
	assert.False(t, IsEntitled(active, "legacy-gold", TierBasic))
	assert.True(t, IsEntitled(active, "legacy-gold", TierFree))
}
