package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/shopcarts/internal/events"
	"github.com/Skotchmaster/shopcarts/internal/logging"
	"github.com/Skotchmaster/shopcarts/internal/models"
	"github.com/Skotchmaster/shopcarts/internal/repo"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

const publishTimeout = 5 * time.Second

type Repository interface {
	Conn(ctx context.Context) *gorm.DB
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	ListShopCarts(db *gorm.DB, customerID *int) ([]models.ShopCart, error)
	FindShopCart(db *gorm.DB, id uint) (*models.ShopCart, error)
	FindShopCartByCustomer(db *gorm.DB, customerID int) (*models.ShopCart, error)
	CreateShopCart(db *gorm.DB, cart *models.ShopCart) error
	UpdateShopCart(db *gorm.DB, cart *models.ShopCart) error
	TouchShopCart(db *gorm.DB, id uint) error
	DeleteShopCart(db *gorm.DB, id uint) (bool, error)
	ClearShopCart(db *gorm.DB, id uint) (int64, error)

	ListItems(db *gorm.DB, shopCartID uint) ([]models.Item, error)
	FindItem(db *gorm.DB, shopCartID, itemID uint) (*models.Item, error)
	CreateItem(db *gorm.DB, item *models.Item) error
	UpdateItem(db *gorm.DB, item *models.Item) error
	DeleteItem(db *gorm.DB, shopCartID, itemID uint) (bool, error)
}

type ShopCartService struct {
	Repo   Repository
	Events events.Publisher
}

func New(r Repository, p events.Publisher) *ShopCartService {
	if p == nil {
		p = events.Nop{}
	}
	return &ShopCartService{Repo: r, Events: p}
}

func shopCartNotFound(id uint) error {
	return fmt.Errorf("%w: shopcart with id '%d' was not found", ErrNotFound, id)
}

func itemNotFound(shopCartID, itemID uint) error {
	return fmt.Errorf("%w: item with id '%d' was not found in shopcart '%d'", ErrNotFound, itemID, shopCartID)
}

func isKind(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}

// writeFailure normalizes an error returned from a rolled back transaction.
func writeFailure(ctx context.Context, op string, err error) error {
	if isKind(err) {
		return err
	}
	logging.FromContext(ctx).Warn("persistence_failed", "op", op, "error", err)
	if repo.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: customer_id already has a shopcart", ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrValidation, op, err)
}

func (s *ShopCartService) findShopCart(db *gorm.DB, id uint) (*models.ShopCart, error) {
	cart, err := s.Repo.FindShopCart(db, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, shopCartNotFound(id)
		}
		return nil, err
	}
	return cart, nil
}

// publish never fails the caller: the write is already committed.
func (s *ShopCartService) publish(ctx context.Context, ev events.Event) {
	if s.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Events.Publish(pctx, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", ev.Type, "shopcart_id", ev.ShopCartID, "error", err)
	}
}
