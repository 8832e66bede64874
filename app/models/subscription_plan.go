package models

import "time"

// Plan tiers gate course access. Plans are read-only reference data seeded
// via migrations and edited through the admin backend.
const (
	TierFree       = "free"
	TierBasic      = "basic"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// SubscriptionPlan maps a sellable plan to its Stripe price identifiers.
// Prices are integers in minor currency units (grosze).
type SubscriptionPlan struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"type:varchar(100);not null" json:"name"`
	Tier                 string    `gorm:"type:varchar(50);not null;default:'free';index" json:"tier"`
	Description          string    `gorm:"type:text" json:"description"`
	PriceMonthly         int64     `gorm:"not null;default:0" json:"price_monthly"`
	PriceYearly          int64     `gorm:"not null;default:0" json:"price_yearly"`
	Currency             string    `gorm:"type:varchar(3);not null;default:'PLN'" json:"currency"`
	StripePriceIDMonthly string    `gorm:"type:varchar(191);index" json:"-"`
	StripePriceIDYearly  string    `gorm:"type:varchar(191);index" json:"-"`
	IsActive             bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
