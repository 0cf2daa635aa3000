package components

import (
	"shop-inventory/internal/handler"
	"shop-inventory/internal/handler/api"
	"shop-inventory/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCartHandler,
		api.NewOrderHandler,
		api.NewProductHandler,
		api.NewCronHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	cart *api.CartHandler,
	order *api.OrderHandler,
	product *api.ProductHandler,
	cron *api.CronHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:    auth,
		Cart:    cart,
		Order:   order,
		Product: product,
		Cron:    cron,
		Admin:   admin,
	}
}
