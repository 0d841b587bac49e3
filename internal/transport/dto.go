package transport

import (
	"encoding/json"

	"github.com/Skotchmaster/shopcarts/internal/models"
)

// Request fields stay raw so that absent, null and wrongly typed values can be
// told apart during validation.

type ShopCartRequest struct {
	CustomerID json.RawMessage `json:"customer_id"`
}

type CreateItemRequest struct {
	ProductID json.RawMessage `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
	Price     json.RawMessage `json:"price"`
}

type UpdateItemRequest struct {
	Quantity  json.RawMessage `json:"quantity"`
	UnitPrice json.RawMessage `json:"unit_price"`
}

type ShopCartResponse struct {
	ShopCartID uint `json:"shopcart_id"`
	CustomerID int  `json:"customer_id"`
}

type ItemResponse struct {
	ItemID     uint   `json:"item_id"`
	ShopCartID uint   `json:"shopcart_id"`
	ProductID  int    `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type IndexResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Paths   string `json:"paths"`
}

func NewShopCartResponse(c *models.ShopCart) ShopCartResponse {
	return ShopCartResponse{
		ShopCartID: c.ID,
		CustomerID: c.CustomerID,
	}
}

func NewShopCartList(carts []models.ShopCart) []ShopCartResponse {
	out := make([]ShopCartResponse, 0, len(carts))
	for i := range carts {
		out = append(out, NewShopCartResponse(&carts[i]))
	}
	return out
}

func NewItemResponse(i *models.Item) ItemResponse {
	return ItemResponse{
		ItemID:     i.ID,
		ShopCartID: i.ShopCartID,
		ProductID:  i.ProductID,
		Quantity:   i.Quantity,
		Price:      i.Price.StringFixed(2),
	}
}

func NewItemList(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}
