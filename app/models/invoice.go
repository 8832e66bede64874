package models

import (
	"encoding/json"
	"time"
)

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// InvoiceLineItem is one position on an invoice. UnitPrice is net, in
// minor currency units.
type InvoiceLineItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// Invoice is the durable financial artifact written by the payment flow.
// All monetary amounts are integers in minor currency units (grosze);
// Amount is gross, Amount = NetAmount + TaxAmount.
type Invoice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InvoiceNumber string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	NetAmount     int64     `gorm:"not null" json:"net_amount"`
	TaxAmount     int64     `gorm:"not null" json:"tax_amount"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'PLN'" json:"currency"`
	Status        string    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	IssueDate     time.Time `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time `gorm:"type:date;not null" json:"due_date"`
	LineItemsJSON string    `gorm:"type:longtext" json:"-"`
	PDFURL        string    `gorm:"type:varchar(500);default:''" json:"pdf_url,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LineItems decodes the stored line item list. An empty column yields an
// empty slice, not an error.
func (i *Invoice) LineItems() ([]InvoiceLineItem, error) {
	if i.LineItemsJSON == "" {
		return []InvoiceLineItem{}, nil
	}
	var items []InvoiceLineItem
	if err := json.Unmarshal([]byte(i.LineItemsJSON), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (i *Invoice) SetLineItems(items []InvoiceLineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	i.LineItemsJSON = string(raw)
	return nil
}
