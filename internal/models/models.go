package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MinQuantity = 1

var ErrInvalidQuantity = errors.New("invalid quantity: must be at least 1")

type ShopCart struct {
	ID         uint      `gorm:"column:shopcart_id;primaryKey;autoIncrement"    json:"shopcart_id"`
	CustomerID int       `gorm:"not null;uniqueIndex"                          json:"customer_id"`
	CreatedAt  time.Time `gorm:"not null"                                      json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null"                                      json:"updated_at"`
	Items      []Item    `gorm:"foreignKey:ShopCartID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShopCart) TableName() string {
	return "shopcarts"
}

func (c ShopCart) String() string {
	return fmt.Sprintf("<ShopCart id=%d customer=%d>", c.ID, c.CustomerID)
}

type Item struct {
	ID         uint            `gorm:"column:item_id;primaryKey;autoIncrement"  json:"item_id"`
	ShopCartID uint            `gorm:"column:shopcart_id;not null;index"        json:"shopcart_id"`
	ProductID  int             `gorm:"not null"                                 json:"product_id"`
	Quantity   int             `gorm:"not null;check:quantity>0"                json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null"              json:"price"`
}

func (Item) TableName() string {
	return "items"
}

func (i Item) String() string {
	return fmt.Sprintf("<Item id=%d product=%d qty=%d cart=%d>", i.ID, i.ProductID, i.Quantity, i.ShopCartID)
}

// NewItem builds an item for a cart; price is the total for the whole line.
func NewItem(shopCartID uint, productID, quantity int, price decimal.Decimal) (*Item, error) {
	item := &Item{
		ShopCartID: shopCartID,
		ProductID:  productID,
	}
	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	item.SetPrice(price)
	return item, nil
}

func (i *Item) SetQuantity(q int) error {
	if q < MinQuantity {
		return ErrInvalidQuantity
	}
	i.Quantity = q
	return nil
}

func (i *Item) SetPrice(p decimal.Decimal) {
	i.Price = p.Round(2)
}

// UnitPrice is the line total spread over the current quantity.
func (i Item) UnitPrice() decimal.Decimal {
	if i.Quantity < MinQuantity {
		return decimal.Zero
	}
	return i.Price.Div(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *Item) BeforeSave(tx *gorm.DB) error {
	if i.Quantity < MinQuantity {
		return ErrInvalidQuantity
	}
	return nil
}
