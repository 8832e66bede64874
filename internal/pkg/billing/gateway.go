package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

// Outcome describes how the gateway disposed of an inbound event.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
)

// Applier consumes verified subscription events.
type Applier interface {
	Apply(ctx context.Context, event SubscriptionEvent) error
}

// Gateway verifies inbound Stripe webhook requests and routes
// subscription events to the reconciler. It holds no state beyond its
// configuration.
type Gateway struct {
	signingSecret string
	applier       Applier
}

// NewGateway creates a gateway with the given webhook signing secret.
func NewGateway(signingSecret string, applier Applier) *Gateway {
	return &Gateway{signingSecret: signingSecret, applier: applier}
}

// Handle verifies the signature over the raw, unparsed body, decodes the
// event envelope and dispatches it. The body must be the exact bytes
// received on the wire; re-serializing before verification would break
// the signature.
func (g *Gateway) Handle(ctx context.Context, body []byte, signatureHeader string) (Outcome, error) {
	event, err := webhook.ConstructEventWithOptions(body, signatureHeader, g.signingSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	kind := EventKind(event.Type)
	switch kind {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
	default:
		log.Printf("stripe webhook: event=%s type=%s outcome=ignored", event.ID, event.Type)
		return OutcomeIgnored, nil
	}

	snapshot, err := decodeSubscription(event.Data.Raw)
	if err != nil {
		log.Printf("stripe webhook: event=%s type=%s outcome=failed error=%v", event.ID, event.Type, err)
		return OutcomeIgnored, err
	}

	subEvent := SubscriptionEvent{
		EventID:  event.ID,
		Kind:     kind,
		Snapshot: snapshot,
	}
	if err := g.applier.Apply(ctx, subEvent); err != nil {
		log.Printf("stripe webhook: event=%s type=%s subscription=%s outcome=failed error=%v",
			event.ID, event.Type, snapshot.SubscriptionID, err)
		return OutcomeIgnored, err
	}

	log.Printf("stripe webhook: event=%s type=%s subscription=%s outcome=processed",
		event.ID, event.Type, snapshot.SubscriptionID)
	return OutcomeProcessed, nil
}

// decodeSubscription extracts the snapshot from the event payload.
// Anything that does not parse as a subscription object is rejected
// rather than processed on guessed fields.
func decodeSubscription(raw json.RawMessage) (SubscriptionSnapshot, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return SubscriptionSnapshot{}, fmt.Errorf("%w: subscription payload: %v", ErrDataIntegrity, err)
	}
	if sub.ID == "" || sub.Customer == nil || sub.Customer.ID == "" {
		return SubscriptionSnapshot{}, fmt.Errorf("%w: subscription payload missing id or customer", ErrDataIntegrity)
	}

	snapshot := SubscriptionSnapshot{
		SubscriptionID:     sub.ID,
		CustomerID:         sub.Customer.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		snapshot.PriceID = sub.Items.Data[0].Price.ID
	}
	return snapshot, nil
}
