package constants

// Route paths shared between router and tests
const (
	RouteStripeWebhook = "/webhooks/stripe"

	RouteAuthRegister = "/auth/register"
	RouteAuthLogin    = "/auth/login"
	RouteAuthLogout   = "/auth/logout"

	RouteAPISubscription = "/subscription"
	RouteAPIPlans        = "/plans"
	RouteAPIInvoices     = "/invoices"
	RouteAPIInvoicePDF   = "/invoices/:id/pdf"
	RouteAPICourseAccess = "/courses/:id/access"
)
