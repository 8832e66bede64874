package invoicepdf

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurslyhq/kursly/app/repository"
	"github.com/kurslyhq/kursly/internal/pkg/billing"
	"github.com/kurslyhq/kursly/internal/pkg/docstore"
)

// Principal identifies the caller requesting a render.
type Principal struct {
	UserID  uint
	IsAdmin bool
}

// Result is returned to the payment-history UI.
type Result struct {
	PDFURL        string `json:"pdf_url"`
	InvoiceNumber string `json:"invoice_number"`
}

// Service renders invoice documents lazily and records their location
// on the invoice row exactly once. Re-invocation returns the stored
// location without touching the renderer unless regeneration is forced.
type Service struct {
	invoices repository.InvoiceRepository
	users    repository.UserRepository
	renderer Renderer
	store    docstore.Store
}

// NewService wires the rendering service.
func NewService(
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
	renderer Renderer,
	store docstore.Store,
) *Service {
	return &Service{
		invoices: invoices,
		users:    users,
		renderer: renderer,
		store:    store,
	}
}

// Render fetches the invoice, checks ownership, renders the document if
// none exists yet and persists its location.
func (s *Service) Render(ctx context.Context, caller Principal, invoiceID uint, force bool) (*Result, error) {
	invoice, err := s.invoices.GetByID(invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice %d", billing.ErrNotFound, invoiceID)
		}
		return nil, err
	}

	if invoice.UserID != caller.UserID && !caller.IsAdmin {
		return nil, fmt.Errorf("%w: invoice %d", billing.ErrAuthorization, invoiceID)
	}

	if invoice.PDFURL != "" && !force {
		return &Result{PDFURL: invoice.PDFURL, InvoiceNumber: invoice.InvoiceNumber}, nil
	}

	owner, err := s.users.GetByID(invoice.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %d owner: %v", billing.ErrDataIntegrity, invoiceID, err)
	}

	document, err := s.renderer.Render(invoice, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s: %v", billing.ErrRender, invoice.InvoiceNumber, err)
	}

	// Invoice numbers carry slashes (FV/2026/01/0001); flatten them so
	// one invoice maps to one object, not a directory tree.
	number := strings.ReplaceAll(invoice.InvoiceNumber, "/", "-")
	objectKey := fmt.Sprintf("invoices/%d/%s-%s.pdf", invoice.UserID, number, uuid.NewString())
	url, err := s.store.Put(ctx, objectKey, document, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s: store: %v", billing.ErrRender, invoice.InvoiceNumber, err)
	}

	if err := s.invoices.UpdatePDFURL(invoice.ID, url); err != nil {
		return nil, err
	}

	log.Printf("invoice pdf: invoice=%s user=%d rendered", invoice.InvoiceNumber, invoice.UserID)
	return &Result{PDFURL: url, InvoiceNumber: invoice.InvoiceNumber}, nil
}
