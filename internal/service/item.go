package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/shopcarts/internal/events"
	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/models"
	"github.com/Skotchmaster/shopcarts/internal/repo"
	"github.com/Skotchmaster/shopcarts/internal/transport"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *ShopCartService) ListItems(ctx context.Context, shopCartID uint) ([]models.Item, error) {
	db := s.Repo.Conn(ctx)
	if _, err := s.findShopCart(db, shopCartID); err != nil {
		return nil, err
	}

	items, err := s.Repo.ListItems(db, shopCartID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	logging.FromContext(ctx).Info("items_listed", "shopcart_id", shopCartID, "count", len(items))
	return items, nil
}

// CreateItem stores price as given: it is already the total for the line.
func (s *ShopCartService) CreateItem(ctx context.Context, shopCartID uint, req transport.CreateItemRequest) (*models.Item, error) {
	productID, err := requiredInt(req.ProductID, "product_id", "Invalid item: missing product_id")
	if err != nil {
		return nil, err
	}
	quantity, err := requiredInt(req.Quantity, "quantity", "Invalid item: missing quantity")
	if err != nil {
		return nil, err
	}
	if absent(req.Price) {
		return nil, fmt.Errorf("%w: Invalid item: missing price", ErrValidation)
	}
	price, err := parseDecimal(req.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price value: %v", ErrValidation, err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	item, err := models.NewItem(shopCartID, productID, quantity, price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.Repo.FindShopCart(tx, shopCartID); err != nil {
			if repo.IsNotFound(err) {
				// The parent row is a foreign key of the new item, so a missing cart
				// is bad input rather than a missing resource.
				return fmt.Errorf("%w: shopcart with id '%d' was not found", ErrValidation, shopCartID)
			}
			return err
		}
		if err := s.Repo.CreateItem(tx, item); err != nil {
			return err
		}
		return s.Repo.TouchShopCart(tx, shopCartID)
	})
	if err != nil {
		return nil, writeFailure(ctx, "create item", err)
	}

	logging.FromContext(ctx).Info("item_created", "shopcart_id", shopCartID, "item_id", item.ID)
	s.publish(ctx, itemEvent(events.ItemCreated, item))
	return item, nil
}

func (s *ShopCartService) GetItem(ctx context.Context, shopCartID, itemID uint) (*models.Item, error) {
	db := s.Repo.Conn(ctx)
	if _, err := s.findShopCart(db, shopCartID); err != nil {
		return nil, err
	}
	return s.findItem(db, shopCartID, itemID)
}

// UpdateItem sets a new quantity and recomputes the line total. Without an
// explicit unit_price the item's current price/quantity ratio is used.
func (s *ShopCartService) UpdateItem(ctx context.Context, shopCartID, itemID uint, req transport.UpdateItemRequest) (*models.Item, error) {
	var item *models.Item
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.findShopCart(tx, shopCartID); err != nil {
			return err
		}
		var err error
		item, err = s.findItem(tx, shopCartID, itemID)
		if err != nil {
			return err
		}

		quantity, unit, err := parseItemUpdate(req)
		if err != nil {
			return err
		}
		price, err := Reprice(item, quantity, unit)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		if err := item.SetQuantity(quantity); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		item.Price = price
		if err := s.Repo.UpdateItem(tx, item); err != nil {
			return err
		}
		return s.Repo.TouchShopCart(tx, shopCartID)
	})
	if err != nil {
		return nil, writeFailure(ctx, "update item", err)
	}

	logging.FromContext(ctx).Info("item_updated",
		"shopcart_id", shopCartID,
		"item_id", itemID,
		"quantity", item.Quantity,
		"price", item.Price.StringFixed(pricePlaces),
	)
	s.publish(ctx, itemEvent(events.ItemUpdated, item))
	return item, nil
}

// DeleteItem is idempotent for the item but still requires the cart.
func (s *ShopCartService) DeleteItem(ctx context.Context, shopCartID, itemID uint) error {
	var deleted bool
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.findShopCart(tx, shopCartID); err != nil {
			return err
		}
		var err error
		deleted, err = s.Repo.DeleteItem(tx, shopCartID, itemID)
		if err != nil || !deleted {
			return err
		}
		return s.Repo.TouchShopCart(tx, shopCartID)
	})
	if err != nil {
		return writeFailure(ctx, "delete item", err)
	}

	l := logging.FromContext(ctx)
	if !deleted {
		l.Warn("item_delete_noop", "shopcart_id", shopCartID, "item_id", itemID)
		return nil
	}
	l.Info("item_deleted", "shopcart_id", shopCartID, "item_id", itemID)
	ev := events.New(events.ItemDeleted, shopCartID)
	ev.ItemID = &itemID
	s.publish(ctx, ev)
	return nil
}

func (s *ShopCartService) findItem(db *gorm.DB, shopCartID, itemID uint) (*models.Item, error) {
	item, err := s.Repo.FindItem(db, shopCartID, itemID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, itemNotFound(shopCartID, itemID)
		}
		return nil, err
	}
	return item, nil
}

func parseItemUpdate(req transport.UpdateItemRequest) (int, *decimal.Decimal, error) {
	if absent(req.Quantity) {
		return 0, nil, fmt.Errorf("%w: quantity is required", ErrValidation)
	}
	quantity, err := parseInteger(req.Quantity)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: quantity must be an integer", ErrValidation)
	}
	if quantity < models.MinQuantity {
		return 0, nil, fmt.Errorf("%w: %v", ErrValidation, models.ErrInvalidQuantity)
	}

	if absent(req.UnitPrice) {
		return quantity, nil, nil
	}
	unit, err := parseDecimal(req.UnitPrice)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid unit_price value: %v", ErrValidation, err)
	}
	if unit.IsNegative() {
		return 0, nil, fmt.Errorf("%w: %v", ErrValidation, errNegativeUnitPrice)
	}
	return quantity, &unit, nil
}

func itemEvent(eventType string, item *models.Item) events.Event {
	ev := events.New(eventType, item.ShopCartID)
	id, product, qty := item.ID, item.ProductID, item.Quantity
	ev.ItemID = &id
	ev.ProductID = &product
	ev.Quantity = &qty
	ev.Price = item.Price.StringFixed(pricePlaces)
	return ev
}
