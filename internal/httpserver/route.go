package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcarts/internal/db"
	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/middleware/contenttype"
	"github.com/Skotchmaster/shopcarts/internal/transport"
)

const (
	serviceTitle   = "ShopCarts Demo REST API Service"
	serviceVersion = "1.0"
)

type Deps struct {
	ShopCartHandler *ShopCartHTTP
	DB              *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/", Index)
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))

	requireJSON := contenttype.RequireJSON()
	h := d.ShopCartHandler

	carts := e.Group("/shopcarts")
	carts.GET("", h.ListShopCarts)
	carts.POST("", h.CreateShopCart, requireJSON)
	carts.GET("/:id", h.GetShopCart)
	carts.PUT("/:id", h.UpdateShopCart, requireJSON)
	carts.DELETE("/:id", h.DeleteShopCart)
	carts.POST("/:id/clear", h.ClearShopCart)

	carts.GET("/:id/items", h.ListItems)
	carts.POST("/:id/items", h.CreateItem, requireJSON)
	carts.GET("/:id/items/:item_id", h.GetItem)
	carts.PUT("/:id/items/:item_id", h.UpdateItem, requireJSON)
	carts.DELETE("/:id/items/:item_id", h.DeleteItem)
}

func Index(c echo.Context) error {
	logging.FromContext(c.Request().Context()).Info("index_requested")
	return c.JSON(http.StatusOK, transport.IndexResponse{
		Name:    serviceTitle,
		Version: serviceVersion,
		Paths:   location(c, "/shopcarts"),
	})
}

func ready(gdb *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if gdb == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := db.Ping(c.Request().Context(), gdb); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	}
}
