package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kurslyhq/kursly/app/repository"
	"github.com/kurslyhq/kursly/internal/pkg/billing"
	"github.com/kurslyhq/kursly/internal/pkg/docstore"
	"github.com/kurslyhq/kursly/internal/pkg/invoicepdf"
	"github.com/kurslyhq/kursly/internal/pkg/usercontext"
)

const renderTimeout = 20 * time.Second

var invoiceRenderService *invoicepdf.Service

// InitializeInvoiceController wires the render service once at startup.
// main picks the concrete renderer and document store.
func InitializeInvoiceController(renderer invoicepdf.Renderer, docs docstore.Store) {
	repos := repository.GetGlobalFactory().GetRepositories()
	invoiceRenderService = invoicepdf.NewService(repos.Invoice, repos.User, renderer, docs)
}

// HandleListInvoices returns the caller's payment history.
func HandleListInvoices(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	invoices, err := repository.GetGlobalFactory().GetInvoiceRepository().ListByUserID(userCtx.UserID)
	if err != nil {
		log.Printf("invoice list: user=%d failed: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invoice_lookup_failed"})
	}
	return c.JSON(fiber.Map{"invoices": invoices})
}

// HandleRenderInvoicePDF renders (or returns the already rendered)
// document for one invoice. `?force=1` regenerates.
func HandleRenderInvoicePDF(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	invoiceID, err := c.ParamsInt("id")
	if err != nil || invoiceID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_invoice_id"})
	}
	force := c.Query("force") == "1"

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	caller := invoicepdf.Principal{UserID: userCtx.UserID, IsAdmin: userCtx.IsAdmin}
	result, err := invoiceRenderService.Render(ctx, caller, uint(invoiceID), force)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invoice_not_found"})
		case errors.Is(err, billing.ErrAuthorization):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not_invoice_owner"})
		default:
			log.Printf("invoice pdf: invoice=%d user=%d failed: %v", invoiceID, userCtx.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "render_failed"})
		}
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"pdf_url":        result.PDFURL,
		"invoice_number": result.InvoiceNumber,
	})
}
