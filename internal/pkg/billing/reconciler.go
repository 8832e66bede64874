package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kurslyhq/kursly/app/models"
	"github.com/kurslyhq/kursly/app/repository"
	"gorm.io/gorm"
)

// CustomerDirectory resolves a provider customer id to the email the
// customer registered with. Backed by the Stripe API in production and
// by fakes in tests.
type CustomerDirectory interface {
	EmailByCustomerID(ctx context.Context, customerID string) (string, error)
}

// EntitlementInvalidator drops cached entitlement reads after a write.
type EntitlementInvalidator interface {
	Invalidate(ctx context.Context, userID uint)
}

// Reconciler converts verified subscription events into idempotent
// mutations of the entitlement store. It never retries internally;
// returned errors make the HTTP layer fail the delivery so Stripe
// redelivers.
type Reconciler struct {
	users     repository.UserRepository
	plans     repository.PlanRepository
	subs      repository.SubscriptionRepository
	customers CustomerDirectory
	cache     EntitlementInvalidator
}

// NewReconciler wires a reconciler from its collaborators. cache may be
// nil when no read cache is configured.
func NewReconciler(
	users repository.UserRepository,
	plans repository.PlanRepository,
	subs repository.SubscriptionRepository,
	customers CustomerDirectory,
	cache EntitlementInvalidator,
) *Reconciler {
	return &Reconciler{
		users:     users,
		plans:     plans,
		subs:      subs,
		customers: customers,
		cache:     cache,
	}
}

// Apply routes one event to its mutation.
func (r *Reconciler) Apply(ctx context.Context, event SubscriptionEvent) error {
	switch event.Kind {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		return r.applyUpsert(ctx, event)
	case EventSubscriptionDeleted:
		return r.applyDelete(ctx, event)
	default:
		return nil
	}
}

// applyUpsert resolves the owning user and target plan, then writes the
// entitlement row keyed on user_id. A user with a brand-new subscription
// overwrites their previous row rather than appending a second one.
func (r *Reconciler) applyUpsert(ctx context.Context, event SubscriptionEvent) error {
	snap := event.Snapshot

	email, err := r.customers.EmailByCustomerID(ctx, snap.CustomerID)
	if err != nil {
		return fmt.Errorf("%w: customer %s: %v", ErrDataIntegrity, snap.CustomerID, err)
	}

	user, err := r.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no user for customer email %s", ErrDataIntegrity, email)
		}
		return err
	}

	if snap.PriceID == "" {
		return fmt.Errorf("%w: event %s carries no price id", ErrDataIntegrity, event.EventID)
	}
	plan, err := r.plans.GetByStripePriceID(snap.PriceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: price %s", ErrConfiguration, snap.PriceID)
		}
		return err
	}

	periodStart := epochToUTC(snap.CurrentPeriodStart)
	if stale, err := r.isStaleAfterCancel(user.ID, snap, periodStart); err != nil {
		return err
	} else if stale {
		log.Printf("billing reconcile: event=%s subscription=%s ignored stale update after cancel",
			event.EventID, snap.SubscriptionID)
		return nil
	}

	sub := &models.UserSubscription{
		UserID:               user.ID,
		SubscriptionPlanID:   plan.ID,
		StripeCustomerID:     snap.CustomerID,
		StripeSubscriptionID: snap.SubscriptionID,
		Status:               snap.Status,
		IsSubscribed:         models.IsEntitlingStatus(snap.Status),
		CurrentPeriodStart:   periodStart,
		CurrentPeriodEnd:     epochToUTC(snap.CurrentPeriodEnd),
		CancelAtPeriodEnd:    snap.CancelAtPeriodEnd,
	}
	if err := r.subs.Upsert(sub); err != nil {
		return err
	}

	r.invalidate(ctx, user.ID)
	return nil
}

// applyDelete retires the entitlement row by provider subscription id.
// By deletion time the row must already exist, so lookup goes through
// stripe_subscription_id, not user_id. A missing row is benign: the
// create event may itself have been dropped and handled elsewhere.
func (r *Reconciler) applyDelete(ctx context.Context, event SubscriptionEvent) error {
	snap := event.Snapshot

	sub, err := r.subs.GetByStripeSubscriptionID(snap.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing reconcile: event=%s subscription=%s delete without existing row, acknowledged",
				event.EventID, snap.SubscriptionID)
			return nil
		}
		return err
	}

	sub.Status = models.SubscriptionStatusCanceled
	sub.IsSubscribed = false
	if err := r.subs.Save(sub); err != nil {
		return err
	}

	r.invalidate(ctx, sub.UserID)
	return nil
}

// isStaleAfterCancel guards against an out-of-order update resurrecting
// a canceled subscription: once a row is canceled, only events with an
// equal-or-newer period start may overwrite it.
func (r *Reconciler) isStaleAfterCancel(userID uint, snap SubscriptionSnapshot, periodStart *time.Time) (bool, error) {
	existing, err := r.subs.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if existing.Status != models.SubscriptionStatusCanceled {
		return false, nil
	}
	if existing.StripeSubscriptionID != snap.SubscriptionID {
		// A brand-new subscription replaces the canceled one.
		return false, nil
	}
	if existing.CurrentPeriodStart == nil || periodStart == nil {
		return false, nil
	}
	return periodStart.Before(*existing.CurrentPeriodStart), nil
}

func (r *Reconciler) invalidate(ctx context.Context, userID uint) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, userID)
	}
}

// epochToUTC converts provider epoch-seconds to a UTC instant. Zero
// means the provider sent no value.
func epochToUTC(epoch int64) *time.Time {
	if epoch == 0 {
		return nil
	}
	t := time.Unix(epoch, 0).UTC()
	return &t
}
