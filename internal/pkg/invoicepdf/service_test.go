package invoicepdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kurslyhq/kursly/app/models"
	"github.com/kurslyhq/kursly/internal/pkg/billing"
)

type fakeInvoices struct {
	rows map[uint]*models.Invoice
}

func (f *fakeInvoices) GetByID(id uint) (*models.Invoice, error) {
	if row, ok := f.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInvoices) ListByUserID(userID uint) ([]models.Invoice, error) { return nil, nil }
func (f *fakeInvoices) Create(invoice *models.Invoice) error              { return nil }

func (f *fakeInvoices) UpdatePDFURL(id uint, pdfURL string) error {
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.PDFURL = pdfURL
	return nil
}

type fakeOwners struct {
	byID map[uint]*models.User
}

func (f *fakeOwners) Create(u *models.User) error { return nil }
func (f *fakeOwners) Update(u *models.User) error { return nil }

func (f *fakeOwners) GetByID(id uint) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOwners) GetByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(invoice *models.Invoice, owner *models.User) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeStore struct {
	puts []string
	err  error
}

func (f *fakeStore) Put(_ context.Context, objectKey string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts = append(f.puts, objectKey)
	return "https://docs.test/" + objectKey, nil
}

func newTestService(renderer *fakeRenderer, store *fakeStore) (*Service, *fakeInvoices) {
	invoices := &fakeInvoices{rows: map[uint]*models.Invoice{
		1: {ID: 1, InvoiceNumber: "FV/2026/01/0001", UserID: 7, Amount: 10000, NetAmount: 8130, TaxAmount: 1870, Currency: "PLN"},
	}}
	owners := &fakeOwners{byID: map[uint]*models.User{
		7: {ID: 7, Name: "Anna Kowalska", Email: "a@b.com"},
	}}
	return NewService(invoices, owners, renderer, store), invoices
}

func TestRenderPersistsDocumentLocation(t *testing.T) {
	renderer := &fakeRenderer{}
	store := &fakeStore{}
	svc, invoices := newTestService(renderer, store)

	result, err := svc.Render(context.Background(), Principal{UserID: 7}, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "FV/2026/01/0001", result.InvoiceNumber)
	assert.NotEmpty(t, result.PDFURL)
	assert.Equal(t, result.PDFURL, invoices.rows[1].PDFURL)
	assert.Equal(t, 1, renderer.calls)
	require.Len(t, store.puts, 1)
	assert.Contains(t, store.puts[0], "invoices/7/FV-2026-01-0001-")
}

func TestRenderIsLazySecondCallReturnsStoredURL(t *testing.T) {
	renderer := &fakeRenderer{}
	store := &fakeStore{}
	svc, _ := newTestService(renderer, store)

	first, err := svc.Render(context.Background(), Principal{UserID: 7}, 1, false)
	require.NoError(t, err)

	second, err := svc.Render(context.Background(), Principal{UserID: 7}, 1, false)
	require.NoError(t, err)

	assert.Equal(t, first.PDFURL, second.PDFURL)
	assert.Equal(t, 1, renderer.calls)
	assert.Len(t, store.puts, 1)
}

func TestRenderForceRegenerates(t *testing.T) {
	renderer := &fakeRenderer{}
	store := &fakeStore{}
	svc, _ := newTestService(renderer, store)

	_, err := svc.Render(context.Background(), Principal{UserID: 7}, 1, false)
	require.NoError(t, err)

	_, err = svc.Render(context.Background(), Principal{UserID: 7}, 1, true)
	require.NoError(t, err)

	assert.Equal(t, 2, renderer.calls)
	assert.Len(t, store.puts, 2)
}

func TestRenderUnknownInvoice(t *testing.T) {
	svc, _ := newTestService(&fakeRenderer{}, &fakeStore{})

	_, err := svc.Render(context.Background(), Principal{UserID: 7}, 99, false)
	assert.ErrorIs(t, err, billing.ErrNotFound)
}

func TestRenderDeniesForeignInvoice(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, _ := newTestService(renderer, &fakeStore{})

	_, err := svc.Render(context.Background(), Principal{UserID: 8}, 1, false)
	assert.ErrorIs(t, err, billing.ErrAuthorization)
	assert.Zero(t, renderer.calls)
}

func TestRenderAllowsAdminOnForeignInvoice(t *testing.T) {
	svc, _ := newTestService(&fakeRenderer{}, &fakeStore{})

	result, err := svc.Render(context.Background(), Principal{UserID: 8, IsAdmin: true}, 1, false)
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDFURL)
}

func TestRenderFailureLeavesInvoiceUntouched(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("font missing")}
	svc, invoices := newTestService(renderer, &fakeStore{})

	_, err := svc.Render(context.Background(), Principal{UserID: 7}, 1, false)
	assert.ErrorIs(t, err, billing.ErrRender)
	assert.Empty(t, invoices.rows[1].PDFURL)
}

func TestRenderStoreFailureLeavesInvoiceUntouched(t *testing.T) {
	store := &fakeStore{err: errors.New("bucket unreachable")}
	svc, invoices := newTestService(&fakeRenderer{}, store)

	_, err := svc.Render(context.Background(), Principal{UserID: 7}, 1, false)
	assert.ErrorIs(t, err, billing.ErrRender)
	assert.Empty(t, invoices.rows[1].PDFURL)
}
