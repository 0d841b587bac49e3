package repo

import (
	"github.com/Skotchmaster/shopcarts/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListItems(db *gorm.DB, shopCartID uint) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := db.Where("shopcart_id = ?", shopCartID).Order("item_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) FindItem(db *gorm.DB, shopCartID, itemID uint) (*models.Item, error) {
	var item models.Item
	if err := db.Where("shopcart_id = ? AND item_id = ?", shopCartID, itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateItem(db *gorm.DB, item *models.Item) error {
	return db.Create(item).Error
}

func (r *GormRepo) UpdateItem(db *gorm.DB, item *models.Item) error {
	return db.Save(item).Error
}

func (r *GormRepo) DeleteItem(db *gorm.DB, shopCartID, itemID uint) (bool, error) {
	res := db.Where("shopcart_id = ? AND item_id = ?", shopCartID, itemID).Delete(&models.Item{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
