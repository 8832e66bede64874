package repository

import (
	"github.com/kurslyhq/kursly/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// PlanRepository defines the interface for subscription plan reference data
type PlanRepository interface {
	GetByID(id uint) (*models.SubscriptionPlan, error)
	GetByStripePriceID(priceID string) (*models.SubscriptionPlan, error)
	ListActive() ([]models.SubscriptionPlan, error)
}

// SubscriptionRepository defines the interface for entitlement rows.
// Upsert must be a single conditional write keyed on user_id so that
// concurrent deliveries for the same user serialize at the storage layer.
type SubscriptionRepository interface {
	GetByUserID(userID uint) (*models.UserSubscription, error)
	GetByStripeSubscriptionID(stripeSubscriptionID string) (*models.UserSubscription, error)
	Upsert(sub *models.UserSubscription) error
	Save(sub *models.UserSubscription) error
}

// InvoiceRepository defines the interface for invoice rows
type InvoiceRepository interface {
	GetByID(id uint) (*models.Invoice, error)
	ListByUserID(userID uint) ([]models.Invoice, error)
	Create(invoice *models.Invoice) error
	UpdatePDFURL(id uint, pdfURL string) error
}

// CourseRepository defines the interface for course reference data
type CourseRepository interface {
	GetByID(id uint) (*models.Course, error)
	GetBySlug(slug string) (*models.Course, error)
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Invoice      InvoiceRepository
	Course       CourseRepository
}
