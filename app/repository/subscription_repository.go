package repository

import (
	"github.com/kurslyhq/kursly/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByUserID retrieves the entitlement row owned by a user
func (r *subscriptionRepository) GetByUserID(userID uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByStripeSubscriptionID retrieves an entitlement row by its provider
// subscription identifier
func (r *subscriptionRepository) GetByStripeSubscriptionID(stripeSubscriptionID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Where("stripe_subscription_id = ?", stripeSubscriptionID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert writes the entitlement row keyed on user_id in a single
// conditional statement. Repeated delivery of the same event re-applies
// identical values, which keeps the write idempotent without a
// deduplication table.
func (r *subscriptionRepository) Upsert(sub *models.UserSubscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_plan_id",
			"stripe_customer_id",
			"stripe_subscription_id",
			"status",
			"is_subscribed",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

// Save persists in-place changes to an existing entitlement row
func (r *subscriptionRepository) Save(sub *models.UserSubscription) error {
	return r.db.Save(sub).Error
}
