package billing

// EventKind is the strict set of webhook event types this service acts
// on. Everything else is acknowledged and dropped, since Stripe adds
// event types over time.
type EventKind string

const (
	EventSubscriptionCreated EventKind = "customer.subscription.created"
	EventSubscriptionUpdated EventKind = "customer.subscription.updated"
	EventSubscriptionDeleted EventKind = "customer.subscription.deleted"
)

// SubscriptionEvent is the typed envelope the gateway hands to the
// reconciler after signature verification and payload decoding. It is
// transient: processed once, never persisted.
type SubscriptionEvent struct {
	EventID  string
	Kind     EventKind
	Snapshot SubscriptionSnapshot
}

// SubscriptionSnapshot is the provider's view of a subscription at event
// time. Period bounds are provider epoch-seconds; the reconciler converts
// them to UTC instants on write.
type SubscriptionSnapshot struct {
	SubscriptionID     string
	CustomerID         string
	PriceID            string
	Status             string
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
	CancelAtPeriodEnd  bool
}
