package billing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78/webhook"
)

type captureApplier struct {
	events []SubscriptionEvent
	err    error
}

func (a *captureApplier) Apply(_ context.Context, event SubscriptionEvent) error {
	a.events = append(a.events, event)
	return a.err
}

const testSigningSecret = "whsec_test_123"

func subscriptionPayload(t *testing.T, eventType string) []byte {
	t.Helper()
	event := map[string]any{
		"id":   "evt_1",
		"type": eventType,
		"data": map[string]any{
			"object": map[string]any{
				"id":                   "sub_1",
				"object":               "subscription",
				"customer":             "cus_1",
				"status":               "active",
				"current_period_start": 1767225600,
				"current_period_end":   1769904000,
				"cancel_at_period_end": false,
				"items": map[string]any{
					"data": []any{
						map[string]any{
							"price": map[string]any{"id": "price_basic_m"},
						},
					},
				},
			},
		},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}

func signPayload(payload []byte, secret string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Header
}

func TestHandleProcessesSignedSubscriptionEvent(t *testing.T) {
	applier := &captureApplier{}
	gateway := NewGateway(testSigningSecret, applier)

	payload := subscriptionPayload(t, "customer.subscription.created")
	outcome, err := gateway.Handle(context.Background(), payload, signPayload(payload, testSigningSecret))

	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, outcome)
	require.Len(t, applier.events, 1)

	event := applier.events[0]
	assert.Equal(t, "evt_1", event.EventID)
	assert.Equal(t, EventSubscriptionCreated, event.Kind)
	assert.Equal(t, "sub_1", event.Snapshot.SubscriptionID)
	assert.Equal(t, "cus_1", event.Snapshot.CustomerID)
	assert.Equal(t, "price_basic_m", event.Snapshot.PriceID)
	assert.Equal(t, "active", event.Snapshot.Status)
	assert.Equal(t, int64(1767225600), event.Snapshot.CurrentPeriodStart)
}

func TestHandleRejectsWrongSecret(t *testing.T) {
	applier := &captureApplier{}
	gateway := NewGateway(testSigningSecret, applier)

	payload := subscriptionPayload(t, "customer.subscription.created")
	_, err := gateway.Handle(context.Background(), payload, signPayload(payload, "whsec_wrong"))

	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, applier.events)
}

func TestHandleRejectsTamperedBody(t *testing.T) {
	applier := &captureApplier{}
	gateway := NewGateway(testSigningSecret, applier)

	payload := subscriptionPayload(t, "customer.subscription.created")
	header := signPayload(payload, testSigningSecret)

	tampered := make([]byte, len(payload))
	copy(tampered, payload)
	tampered[len(tampered)-2] ^= 0x01

	_, err := gateway.Handle(context.Background(), tampered, header)

	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, applier.events)
}

func TestHandleRejectsMissingSignature(t *testing.T) {
	applier := &captureApplier{}
	gateway := NewGateway(testSigningSecret, applier)

	payload := subscriptionPayload(t, "customer.subscription.created")
	_, err := gateway.Handle(context.Background(), payload, "")

	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, applier.events)
}

func TestHandleIgnoresUnhandledEventType(t *testing.T) {
	applier := &captureApplier{}
	gateway := NewGateway(testSigningSecret, applier)

	payload := subscriptionPayload(t, "invoice.payment_succeeded")
	outcome, err := gateway.Handle(context.Background(), payload, signPayload(payload, testSigningSecret))

	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, applier.events)
}

func TestHandleRejectsPayloadWithoutSubscriptionID(t *testing.T) {
	applier := &captureApplier{}
	gateway := NewGateway(testSigningSecret, applier)

	payload, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": "customer.subscription.updated",
		"data": map[string]any{
			"object": map[string]any{"object": "subscription"},
		},
	})
	require.NoError(t, err)

	_, err = gateway.Handle(context.Background(), payload, signPayload(payload, testSigningSecret))
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Empty(t, applier.events)
}
