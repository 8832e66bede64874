package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/kurslyhq/kursly/app/controllers"
	"github.com/kurslyhq/kursly/internal/pkg/constants"
	"github.com/kurslyhq/kursly/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	v1 := api.Group("/v1")
	v1.Get(constants.RouteAPIPlans, controllers.HandleListPlans)
	v1.Get(constants.RouteAPICourseAccess, controllers.HandleCourseAccess)

	v1.Get(constants.RouteAPISubscription, middleware.RequireAPISessionAuth, controllers.HandleGetSubscription)
	v1.Get(constants.RouteAPIInvoices, middleware.RequireAPISessionAuth, controllers.HandleListInvoices)
	v1.Post(constants.RouteAPIInvoicePDF, middleware.RequireAPISessionAuth, controllers.HandleRenderInvoicePDF)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
