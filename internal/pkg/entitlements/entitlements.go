package entitlements

import (
	"strings"

	"github.com/kurslyhq/kursly/app/models"
)

type Tier string

const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// NormalizeTier maps arbitrary input onto the known tier vocabulary,
// falling back to free.
func NormalizeTier(tier string) Tier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case string(TierBasic):
		return TierBasic
	case string(TierPro):
		return TierPro
	case string(TierEnterprise):
		return TierEnterprise
	default:
		return TierFree
	}
}

func tierRank(tier Tier) int {
	switch tier {
	case TierEnterprise:
		return 3
	case TierPro:
		return 2
	case TierBasic:
		return 1
	default:
		return 0
	}
}

// IsEntitled reports whether a subscription at planTier grants access to
// content gated at requiredTier. Free content is always accessible; paid
// content requires an existing, currently entitling subscription on a
// plan of at least the required tier. Side-effect free.
func IsEntitled(sub *models.UserSubscription, planTier string, requiredTier Tier) bool {
	required := NormalizeTier(string(requiredTier))
	if required == TierFree {
		return true
	}
	if sub == nil || !sub.IsSubscribed {
		return false
	}
	return tierRank(NormalizeTier(planTier)) >= tierRank(required)
}
