package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kurslyhq/kursly/app/controllers"
	"github.com/kurslyhq/kursly/internal/pkg/constants"
	"github.com/kurslyhq/kursly/internal/pkg/middleware"
	"github.com/kurslyhq/kursly/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize controllers that need wiring beyond the repositories
	controllers.InitializeWebhookController()

	// Webhook endpoint: no session, raw body, signature-authenticated
	app.Post(constants.RouteStripeWebhook, controllers.HandleStripeWebhook)

	// Auth endpoints used by the frontend
	app.Post(constants.RouteAuthRegister, controllers.HandleAuthRegister)
	app.Post(constants.RouteAuthLogin, controllers.HandleAuthLogin)
	app.Post(constants.RouteAuthLogout, controllers.HandleAuthLogout)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
