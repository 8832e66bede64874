package billing

import "errors"

// Error taxonomy for webhook processing and invoice rendering. Callers
// match with errors.Is; the HTTP layer maps each class to a status code
// and the provider's redelivery decides retries.
var (
	// ErrAuthentication means signature verification failed. Rejected,
	// never processed.
	ErrAuthentication = errors.New("webhook signature verification failed")

	// ErrDataIntegrity means a referenced user or subscription row was
	// missing where one was expected. Failing the event makes the
	// provider retry, giving an operator a window to fix the drift.
	ErrDataIntegrity = errors.New("referenced record not found")

	// ErrConfiguration means a price id carried by an event has no plan
	// mapping. Deployment misconfiguration; fails loudly.
	ErrConfiguration = errors.New("no plan mapped for price")

	// ErrAuthorization means the caller does not own the invoice and is
	// not an administrator.
	ErrAuthorization = errors.New("not authorized for invoice")

	// ErrNotFound means the requested invoice does not exist.
	ErrNotFound = errors.New("invoice not found")

	// ErrRender means document generation failed. Returned to the
	// caller, never retried automatically.
	ErrRender = errors.New("document rendering failed")
)
