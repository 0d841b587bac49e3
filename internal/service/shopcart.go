package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/shopcarts/internal/events"
	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/models"
	"github.com/Skotchmaster/shopcarts/internal/repo"
	"github.com/Skotchmaster/shopcarts/internal/transport"
	"gorm.io/gorm"
)

const missingCustomerID = "Invalid shopcart: missing customer_id"

// ListShopCarts returns every cart, or only the one owned by customerID when
// the filter is non-empty.
func (s *ShopCartService) ListShopCarts(ctx context.Context, customerID string) ([]models.ShopCart, error) {
	var filter *int
	if v := strings.TrimSpace(customerID); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: customer_id must be an integer", ErrValidation)
		}
		filter = &n
	}

	carts, err := s.Repo.ListShopCarts(s.Repo.Conn(ctx), filter)
	if err != nil {
		return nil, fmt.Errorf("list shopcarts: %w", err)
	}
	logging.FromContext(ctx).Info("shopcarts_listed", "count", len(carts))
	return carts, nil
}

func (s *ShopCartService) CreateShopCart(ctx context.Context, req transport.ShopCartRequest) (*models.ShopCart, error) {
	customerID, err := requiredInt(req.CustomerID, "customer_id", missingCustomerID)
	if err != nil {
		return nil, err
	}

	cart := &models.ShopCart{CustomerID: customerID}
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureCustomerFree(tx, customerID, 0); err != nil {
			return err
		}
		return s.Repo.CreateShopCart(tx, cart)
	})
	if err != nil {
		return nil, writeFailure(ctx, "create shopcart", err)
	}

	logging.FromContext(ctx).Info("shopcart_created", "shopcart_id", cart.ID, "customer_id", cart.CustomerID)
	ev := events.New(events.ShopCartCreated, cart.ID)
	ev.CustomerID = &cart.CustomerID
	s.publish(ctx, ev)
	return cart, nil
}

func (s *ShopCartService) GetShopCart(ctx context.Context, id uint) (*models.ShopCart, error) {
	return s.findShopCart(s.Repo.Conn(ctx), id)
}

// UpdateShopCart checks the new customer_id against every other cart before
// writing, so a duplicate is reported as a conflict and no row is touched.
func (s *ShopCartService) UpdateShopCart(ctx context.Context, id uint, req transport.ShopCartRequest) (*models.ShopCart, error) {
	var cart *models.ShopCart
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		cart, err = s.findShopCart(tx, id)
		if err != nil {
			return err
		}

		customerID, err := requiredInt(req.CustomerID, "customer_id", missingCustomerID)
		if err != nil {
			return err
		}
		if err := s.ensureCustomerFree(tx, customerID, cart.ID); err != nil {
			return err
		}

		cart.CustomerID = customerID
		return s.Repo.UpdateShopCart(tx, cart)
	})
	if err != nil {
		return nil, writeFailure(ctx, "update shopcart", err)
	}

	logging.FromContext(ctx).Info("shopcart_updated", "shopcart_id", cart.ID, "customer_id", cart.CustomerID)
	ev := events.New(events.ShopCartUpdated, cart.ID)
	ev.CustomerID = &cart.CustomerID
	s.publish(ctx, ev)
	return cart, nil
}

// DeleteShopCart is idempotent: deleting an unknown cart is not an error.
func (s *ShopCartService) DeleteShopCart(ctx context.Context, id uint) error {
	var deleted bool
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.Repo.DeleteShopCart(tx, id)
		return err
	})
	if err != nil {
		return writeFailure(ctx, "delete shopcart", err)
	}

	l := logging.FromContext(ctx)
	if !deleted {
		l.Info("shopcart_delete_noop", "shopcart_id", id)
		return nil
	}
	l.Info("shopcart_deleted", "shopcart_id", id)
	s.publish(ctx, events.New(events.ShopCartDeleted, id))
	return nil
}

// ClearShopCart drops every item but keeps the cart. Clearing an empty cart
// succeeds.
func (s *ShopCartService) ClearShopCart(ctx context.Context, id uint) (*models.ShopCart, error) {
	var (
		cart    *models.ShopCart
		removed int64
	)
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		cart, err = s.findShopCart(tx, id)
		if err != nil {
			return err
		}
		removed, err = s.Repo.ClearShopCart(tx, id)
		if err != nil {
			return err
		}
		return s.Repo.TouchShopCart(tx, id)
	})
	if err != nil {
		return nil, writeFailure(ctx, "clear shopcart", err)
	}

	logging.FromContext(ctx).Info("shopcart_cleared", "shopcart_id", id, "removed", removed)
	s.publish(ctx, events.New(events.ShopCartCleared, id))
	return cart, nil
}

// ensureCustomerFree fails with ErrConflict when customerID already owns a
// cart other than self. self == 0 means no cart is exempt.
func (s *ShopCartService) ensureCustomerFree(db *gorm.DB, customerID int, self uint) error {
	existing, err := s.Repo.FindShopCartByCustomer(db, customerID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID == self {
		return nil
	}
	return fmt.Errorf("%w: a shopcart for customer_id '%d' already exists", ErrConflict, customerID)
}
