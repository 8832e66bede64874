package invoicepdf

import "github.com/kurslyhq/kursly/app/models"

// Renderer produces the invoice document bytes. Keeping this behind an
// interface leaves the service decoupled from the rendering technology.
type Renderer interface {
	Render(invoice *models.Invoice, owner *models.User) ([]byte, error)
}
