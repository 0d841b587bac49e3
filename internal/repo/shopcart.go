package repo

import (
	"github.com/Skotchmaster/shopcarts/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ListShopCarts(db *gorm.DB, customerID *int) ([]models.ShopCart, error) {
	carts := make([]models.ShopCart, 0)
	q := db.Model(&models.ShopCart{})
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if err := q.Order("shopcart_id ASC").Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *GormRepo) FindShopCart(db *gorm.DB, id uint) (*models.ShopCart, error) {
	var cart models.ShopCart
	if err := db.First(&cart, id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) FindShopCartByCustomer(db *gorm.DB, customerID int) (*models.ShopCart, error) {
	var cart models.ShopCart
	if err := db.Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CreateShopCart(db *gorm.DB, cart *models.ShopCart) error {
	return db.Omit(clause.Associations).Create(cart).Error
}

func (r *GormRepo) UpdateShopCart(db *gorm.DB, cart *models.ShopCart) error {
	cart.UpdatedAt = db.NowFunc()
	return db.Omit(clause.Associations).Save(cart).Error
}

func (r *GormRepo) TouchShopCart(db *gorm.DB, id uint) error {
	return db.Model(&models.ShopCart{}).
		Where("shopcart_id = ?", id).
		Update("updated_at", db.NowFunc()).Error
}

// DeleteShopCart removes the cart's items before the cart itself. It reports
// whether a cart row was actually deleted.
func (r *GormRepo) DeleteShopCart(db *gorm.DB, id uint) (bool, error) {
	if err := db.Where("shopcart_id = ?", id).Delete(&models.Item{}).Error; err != nil {
		return false, err
	}
	res := db.Delete(&models.ShopCart{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ClearShopCart(db *gorm.DB, id uint) (int64, error) {
	res := db.Where("shopcart_id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
