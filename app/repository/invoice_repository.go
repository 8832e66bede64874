package repository

import (
	"github.com/kurslyhq/kursly/app/models"
	"gorm.io/gorm"
)

// invoiceRepository implements the InvoiceRepository interface
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// GetByID retrieves an invoice by its ID
func (r *invoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListByUserID returns all invoices owned by a user, newest first
func (r *invoiceRepository) ListByUserID(userID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("user_id = ?", userID).Order("issue_date DESC, id DESC").Find(&invoices).Error
	return invoices, err
}

// Create creates a new invoice row
func (r *invoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// UpdatePDFURL records the rendered document location on the invoice row
func (r *invoiceRepository) UpdatePDFURL(id uint, pdfURL string) error {
	return r.db.Model(&models.Invoice{}).Where("id = ?", id).Update("pdf_url", pdfURL).Error
}
