package invoicepdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/kurslyhq/kursly/app/models"
)

var (
	colorPrimary   = [3]int{30, 58, 95}    // dark navy
	colorTextDark  = [3]int{44, 62, 80}    // body text
	colorTextMuted = [3]int{127, 140, 141} // footer text
	colorTableHead = [3]int{30, 58, 95}    // header row fill
	colorTableAlt  = [3]int{241, 245, 249} // alternating row fill
)

// Biller identity printed on every invoice.
const (
	billerName    = "Kursly Sp. z o.o."
	billerStreet  = "ul. Przykladowa 123"
	billerCity    = "00-000 Warszawa"
	billerAdminNo = "NIP: 123-456-78-90"
)

// PDFRenderer renders invoices with fpdf.
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDF invoice renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces the invoice document: header, biller block, customer
// block, line-item table and totals. Every amount cell is computed from
// the stored integer cents.
func (g *PDFRenderer) Render(invoice *models.Invoice, owner *models.User) ([]byte, error) {
	items, err := invoice.LineItems()
	if err != nil {
		return nil, fmt.Errorf("decode line items: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// Accent bar and title
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 8, "F")
	pdf.SetY(20)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, invoice.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Biller block
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 5, billerName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{billerStreet, billerCity, billerAdminNo} {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Invoice metadata
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Issue date: "+invoice.IssueDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Due date: "+invoice.DueDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Status: "+strings.ToUpper(invoice.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Customer block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, "Billed to:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, owner.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, owner.Email, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	g.writeLineItemTable(pdf, invoice, items)
	g.writeTotals(pdf, invoice)

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 5, "Thank you for learning with Kursly!", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFRenderer) writeLineItemTable(pdf *fpdf.Fpdf, invoice *models.Invoice, items []models.InvoiceLineItem) {
	headers := []string{"Description", "Qty", "Unit price", "Net", "Tax", "Gross"}
	widths := []float64{60, 14, 24, 24, 24, 24}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(colorTableHead[0], colorTableHead[1], colorTableHead[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	for idx, item := range items {
		fill := idx%2 == 1
		pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])

		desc := item.Description
		if desc == "" {
			desc = "Subscription"
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}

		pdf.CellFormat(widths[0], 7, desc, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", qty), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[2], 7, FormatCents(item.UnitPrice), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 7, FormatCents(item.UnitPrice*qty), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 7, FormatCents(invoice.TaxAmount), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[5], 7, FormatCents(item.UnitPrice*qty+invoice.TaxAmount), "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
	}
}

func (g *PDFRenderer) writeTotals(pdf *fpdf.Fpdf, invoice *models.Invoice) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Net total: "+FormatAmount(invoice.NetAmount, invoice.Currency), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "VAT (23%): "+FormatAmount(invoice.TaxAmount, invoice.Currency), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Total due: "+FormatAmount(invoice.Amount, invoice.Currency), "", 1, "R", false, 0, "")
}
