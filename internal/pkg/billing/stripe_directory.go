package billing

import (
	"context"
	"errors"

	"github.com/kurslyhq/kursly/internal/pkg/env"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/customer"
)

// StripeCustomerDirectory resolves customer emails through the Stripe
// API using the account's secret key.
type StripeCustomerDirectory struct{}

// NewStripeCustomerDirectoryFromEnv configures the Stripe client from
// STRIPE_SECRET_KEY and returns the directory.
func NewStripeCustomerDirectoryFromEnv() *StripeCustomerDirectory {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
	return &StripeCustomerDirectory{}
}

func (d *StripeCustomerDirectory) EmailByCustomerID(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := customer.Get(customerID, params)
	if err != nil {
		return "", err
	}
	if c == nil || c.Deleted {
		return "", errors.New("customer deleted or not found")
	}
	if c.Email == "" {
		return "", errors.New("customer has no email")
	}
	return c.Email, nil
}
