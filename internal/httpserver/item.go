package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/transport"
)

const badItemBody = "Invalid item: body of request contained bad or no data"

func (h *ShopCartHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.list")

	cartID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.Svc.ListItems(ctx, cartID)
	if err != nil {
		return fail(l, "list_items_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewItemList(items))
}

func (h *ShopCartHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.create")

	cartID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req transport.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, badItemBody)
	}

	item, err := h.Svc.CreateItem(ctx, cartID, req)
	if err != nil {
		return fail(l, "create_item_error", err)
	}

	c.Response().Header().Set(echo.HeaderLocation, location(c, fmt.Sprintf("/shopcarts/%d/items/%d", cartID, item.ID)))
	return c.JSON(http.StatusCreated, transport.NewItemResponse(item))
}

func (h *ShopCartHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.get")

	cartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		return err
	}

	item, err := h.Svc.GetItem(ctx, cartID, itemID)
	if err != nil {
		return fail(l, "get_item_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewItemResponse(item))
}

func (h *ShopCartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.update")

	cartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		return err
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, badItemBody)
	}

	item, err := h.Svc.UpdateItem(ctx, cartID, itemID, req)
	if err != nil {
		return fail(l, "update_item_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewItemResponse(item))
}

func (h *ShopCartHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.delete")

	cartID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteItem(ctx, cartID, itemID); err != nil {
		return fail(l, "delete_item_error", err)
	}

	return c.NoContent(http.StatusNoContent)
}
