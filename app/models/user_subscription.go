package models

import "time"

// Subscription status vocabulary as delivered by Stripe. Values are passed
// through verbatim, never reinterpreted locally.
const (
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusActive     = "active"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusUnpaid     = "unpaid"
)

// UserSubscription is the entitlement record: at most one row per user,
// updated in place on every provider event for the same subscription.
// Rows are never hard-deleted; cancellation retires them with
// status=canceled so the financial audit trail survives.
type UserSubscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex:ux_user_subscriptions_user" json:"user_id"`
	SubscriptionPlanID   uint       `gorm:"not null;index" json:"subscription_plan_id"`
	StripeCustomerID     string     `gorm:"type:varchar(191);not null;index" json:"stripe_customer_id"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_user_subscriptions_stripe_sub" json:"stripe_subscription_id"`
	Status               string     `gorm:"type:varchar(32);not null;default:'incomplete';index" json:"status"`
	IsSubscribed         bool       `gorm:"not null;default:false;index" json:"is_subscribed"`
	CurrentPeriodStart   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEntitlingStatus reports whether a provider status grants access.
// Only "active" entitles; the derived IsSubscribed column must equal this
// after every write.
func IsEntitlingStatus(status string) bool {
	return status == SubscriptionStatusActive
}
