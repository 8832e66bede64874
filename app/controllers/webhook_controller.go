package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kurslyhq/kursly/app/repository"
	"github.com/kurslyhq/kursly/internal/pkg/billing"
	"github.com/kurslyhq/kursly/internal/pkg/cache"
	"github.com/kurslyhq/kursly/internal/pkg/entitlements"
	"github.com/kurslyhq/kursly/internal/pkg/env"
)

// Stripe redelivers on any non-2xx; the timeout makes a hung invocation
// fail loudly instead of blocking the delivery worker.
const webhookTimeout = 15 * time.Second

var webhookGateway *billing.Gateway

// InitializeWebhookController wires the gateway once at startup.
func InitializeWebhookController() {
	repos := repository.GetGlobalFactory().GetRepositories()
	reconciler := billing.NewReconciler(
		repos.User,
		repos.Plan,
		repos.Subscription,
		billing.NewStripeCustomerDirectoryFromEnv(),
		entitlements.NewCache(cache.GetClient()),
	)
	webhookGateway = billing.NewGateway(env.GetEnv("STRIPE_WEBHOOK_SECRET", ""), reconciler)
}

// HandleStripeWebhook accepts signed Stripe events. The raw body goes to
// signature verification unparsed; parsing before verifying would be a
// correctness bug.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))

	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	_, err := webhookGateway.Handle(ctx, rawBody, signature)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, billing.ErrAuthentication):
			status = fiber.StatusBadRequest
		case errors.Is(err, billing.ErrDataIntegrity), errors.Is(err, billing.ErrConfiguration):
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
