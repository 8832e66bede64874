package billing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kurslyhq/kursly/app/models"
)

type fakeUsers struct {
	byEmail map[string]*models.User
}

func (f *fakeUsers) Create(u *models.User) error { return nil }
func (f *fakeUsers) Update(u *models.User) error { return nil }

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByEmail(email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePlans struct {
	byPrice map[string]*models.SubscriptionPlan
}

func (f *fakePlans) GetByID(id uint) (*models.SubscriptionPlan, error) {
	for _, p := range f.byPrice {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlans) GetByStripePriceID(priceID string) (*models.SubscriptionPlan, error) {
	if p, ok := f.byPrice[priceID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlans) ListActive() ([]models.SubscriptionPlan, error) { return nil, nil }

// fakeSubs emulates the single-row conditional upsert keyed on user_id.
type fakeSubs struct {
	rows   map[uint]*models.UserSubscription
	nextID uint
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{rows: make(map[uint]*models.UserSubscription), nextID: 1}
}

func (f *fakeSubs) GetByUserID(userID uint) (*models.UserSubscription, error) {
	if row, ok := f.rows[userID]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubs) GetByStripeSubscriptionID(id string) (*models.UserSubscription, error) {
	for _, row := range f.rows {
		if row.StripeSubscriptionID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubs) Upsert(sub *models.UserSubscription) error {
	if existing, ok := f.rows[sub.UserID]; ok {
		sub.ID = existing.ID
	} else {
		sub.ID = f.nextID
		f.nextID++
	}
	copied := *sub
	f.rows[sub.UserID] = &copied
	return nil
}

func (f *fakeSubs) Save(sub *models.UserSubscription) error {
	copied := *sub
	f.rows[sub.UserID] = &copied
	return nil
}

type fakeDirectory struct {
	emails map[string]string
}

func (f *fakeDirectory) EmailByCustomerID(_ context.Context, customerID string) (string, error) {
	if email, ok := f.emails[customerID]; ok {
		return email, nil
	}
	return "", errors.New("no such customer")
}

func newTestReconciler() (*Reconciler, *fakeSubs) {
	users := &fakeUsers{byEmail: map[string]*models.User{
		"a@b.com": {ID: 7, Name: "Anna Kowalska", Email: "a@b.com"},
	}}
	plans := &fakePlans{byPrice: map[string]*models.SubscriptionPlan{
		"price_basic_m": {ID: 1, Name: "Basic", Tier: models.TierBasic, StripePriceIDMonthly: "price_basic_m"},
		"price_pro_m":   {ID: 2, Name: "Pro", Tier: models.TierPro, StripePriceIDMonthly: "price_pro_m"},
	}}
	directory := &fakeDirectory{emails: map[string]string{"cus_1": "a@b.com"}}
	subs := newFakeSubs()
	return NewReconciler(users, plans, subs, directory, nil), subs
}

func subscriptionEvent(kind EventKind, snap SubscriptionSnapshot) SubscriptionEvent {
	return SubscriptionEvent{EventID: "evt_test", Kind: kind, Snapshot: snap}
}

func TestApplyCreatesEntitlementForNewSubscriber(t *testing.T) {
	rec, subs := newTestReconciler()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.AddDate(0, 1, 0)
	err := rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionCreated, SubscriptionSnapshot{
		SubscriptionID:     "sub_1",
		CustomerID:         "cus_1",
		PriceID:            "price_basic_m",
		Status:             "active",
		CurrentPeriodStart: t0.Unix(),
		CurrentPeriodEnd:   t1.Unix(),
	}))
	require.NoError(t, err)

	row, err := subs.GetByUserID(7)
	require.NoError(t, err)
	assert.Equal(t, uint(1), row.SubscriptionPlanID)
	assert.Equal(t, "sub_1", row.StripeSubscriptionID)
	assert.Equal(t, "active", row.Status)
	assert.True(t, row.IsSubscribed)
	assert.Equal(t, t0, row.CurrentPeriodStart.UTC())
	assert.Equal(t, t1, row.CurrentPeriodEnd.UTC())
}

func TestApplyIsIdempotent(t *testing.T) {
	rec, subs := newTestReconciler()

	event := subscriptionEvent(EventSubscriptionUpdated, SubscriptionSnapshot{
		SubscriptionID:     "sub_1",
		CustomerID:         "cus_1",
		PriceID:            "price_pro_m",
		Status:             "active",
		CurrentPeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Unix(),
		CurrentPeriodEnd:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Unix(),
	})

	require.NoError(t, rec.Apply(context.Background(), event))
	first, err := subs.GetByUserID(7)
	require.NoError(t, err)

	require.NoError(t, rec.Apply(context.Background(), event))
	second, err := subs.GetByUserID(7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, subs.rows, 1)
}

func TestApplyLastEventWins(t *testing.T) {
	rec, subs := newTestReconciler()

	p1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionUpdated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_basic_m",
		Status: "active", CurrentPeriodStart: p1.Unix(), CurrentPeriodEnd: p1.AddDate(0, 1, 0).Unix(),
	})))
	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionUpdated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_basic_m",
		Status: "past_due", CurrentPeriodStart: p2.Unix(), CurrentPeriodEnd: p2.AddDate(0, 1, 0).Unix(),
	})))

	row, err := subs.GetByUserID(7)
	require.NoError(t, err)
	assert.Equal(t, "past_due", row.Status)
	assert.False(t, row.IsSubscribed)
	assert.Equal(t, p2, row.CurrentPeriodStart.UTC())
}

func TestApplyDerivedBooleanInvariant(t *testing.T) {
	rec, subs := newTestReconciler()

	statuses := []string{"incomplete", "active", "past_due", "canceled", "unpaid"}
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		status := statuses[rng.Intn(len(statuses))]
		// Monotonic period starts so the stale-after-cancel guard
		// never rejects a write in this property run.
		start := base.AddDate(0, 0, i)
		err := rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionUpdated, SubscriptionSnapshot{
			SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_basic_m",
			Status: status, CurrentPeriodStart: start.Unix(), CurrentPeriodEnd: start.AddDate(0, 1, 0).Unix(),
		}))
		require.NoError(t, err)

		row, err := subs.GetByUserID(7)
		require.NoError(t, err)
		assert.Equal(t, status == "active", row.IsSubscribed,
			fmt.Sprintf("is_subscribed must equal (status == active) for status %q", status))
	}
}

func TestApplyDeleteCancelsEntitlement(t *testing.T) {
	rec, subs := newTestReconciler()

	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionCreated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_basic_m", Status: "active",
		CurrentPeriodStart: time.Now().Unix(),
	})))
	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionDeleted, SubscriptionSnapshot{
		SubscriptionID: "sub_1",
	})))

	row, err := subs.GetByUserID(7)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, row.Status)
	assert.False(t, row.IsSubscribed)
}

func TestApplyDeleteWithoutRowIsBenign(t *testing.T) {
	rec, subs := newTestReconciler()

	err := rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionDeleted, SubscriptionSnapshot{
		SubscriptionID: "sub_unknown",
	}))
	assert.NoError(t, err)
	assert.Empty(t, subs.rows)
}

func TestApplyStaleUpdateAfterCancelIsIgnored(t *testing.T) {
	rec, subs := newTestReconciler()

	p1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionCreated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_basic_m",
		Status: "active", CurrentPeriodStart: p2.Unix(), CurrentPeriodEnd: p2.AddDate(0, 1, 0).Unix(),
	})))
	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionDeleted, SubscriptionSnapshot{
		SubscriptionID: "sub_1",
	})))

	// An out-of-order update from the older period must not resurrect
	// the canceled subscription.
	require.NoError(t, rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionUpdated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_basic_m",
		Status: "active", CurrentPeriodStart: p1.Unix(), CurrentPeriodEnd: p1.AddDate(0, 1, 0).Unix(),
	})))

	row, err := subs.GetByUserID(7)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, row.Status)
	assert.False(t, row.IsSubscribed)
}

func TestApplyUnknownUserFailsEvent(t *testing.T) {
	rec, _ := newTestReconciler()

	err := rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionCreated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_stranger", PriceID: "price_basic_m", Status: "active",
	}))
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestApplyUnmappedPriceFailsEvent(t *testing.T) {
	rec, _ := newTestReconciler()

	err := rec.Apply(context.Background(), subscriptionEvent(EventSubscriptionCreated, SubscriptionSnapshot{
		SubscriptionID: "sub_1", CustomerID: "cus_1", PriceID: "price_unknown", Status: "active",
	}))
	assert.ErrorIs(t, err, ErrConfiguration)
}
