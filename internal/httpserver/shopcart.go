package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/service"
	"github.com/Skotchmaster/shopcarts/internal/transport"
)

type ShopCartHTTP struct {
	Svc *service.ShopCartService
}

// pathID parses an integer path parameter. Anything else cannot match a
// resource, so it is reported as 404.
func pathID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s '%s' is not a valid id", name, raw))
	}
	return uint(id), nil
}

func location(c echo.Context, path string) string {
	return c.Scheme() + "://" + c.Request().Host + path
}

func (h *ShopCartHTTP) ListShopCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shopcart.list")

	carts, err := h.Svc.ListShopCarts(ctx, c.QueryParam("customer_id"))
	if err != nil {
		return fail(l, "list_shopcarts_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewShopCartList(carts))
}

func (h *ShopCartHTTP) CreateShopCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shopcart.create")

	var req transport.ShopCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_shopcart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shopcart: body of request contained bad or no data")
	}

	cart, err := h.Svc.CreateShopCart(ctx, req)
	if err != nil {
		return fail(l, "create_shopcart_error", err)
	}

	c.Response().Header().Set(echo.HeaderLocation, location(c, fmt.Sprintf("/shopcarts/%d", cart.ID)))
	return c.JSON(http.StatusCreated, transport.NewShopCartResponse(cart))
}

func (h *ShopCartHTTP) GetShopCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shopcart.get")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetShopCart(ctx, id)
	if err != nil {
		return fail(l, "get_shopcart_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewShopCartResponse(cart))
}

func (h *ShopCartHTTP) UpdateShopCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shopcart.update")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req transport.ShopCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_shopcart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shopcart: body of request contained bad or no data")
	}

	cart, err := h.Svc.UpdateShopCart(ctx, id, req)
	if err != nil {
		return fail(l, "update_shopcart_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewShopCartResponse(cart))
}

func (h *ShopCartHTTP) DeleteShopCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shopcart.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteShopCart(ctx, id); err != nil {
		return fail(l, "delete_shopcart_error", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ShopCartHTTP) ClearShopCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shopcart.clear")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cart, err := h.Svc.ClearShopCart(ctx, id)
	if err != nil {
		return fail(l, "clear_shopcart_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewShopCartResponse(cart))
}
