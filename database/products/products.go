package products

import (
	"gorm.io/gorm"

	"github.com/komerce-shop/komerce/database/dbcore"
	"github.com/komerce-shop/komerce/database/models"
)

func Create(product *models.Product) error {
	db := dbcore.GetDBInstance()
	if err := db.Create(product).Error; err != nil {
		return dbcore.Translate(err, "product")
	}
	return nil
}

func Get(id uint) (*models.Product, error) {
	db := dbcore.GetDBInstance()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, dbcore.Translate(err, "product")
	}
	return &product, nil
}

// List 按类目过滤（空串为全部），只返回上架商品
func List(category string) ([]models.Product, error) {
	db := dbcore.GetDBInstance()
	query := db.Where("active = ?", true).Order("id desc")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var list []models.Product
	if err := query.Find(&list).Error; err != nil {
		return nil, dbcore.Translate(err, "product")
	}
	return list, nil
}

// Update 局部更新，nil 字段保持原值
func Update(id uint, name, description *string, price *float64, category *string, stock *int, images []string, active *bool) (*models.Product, error) {
	db := dbcore.GetDBInstance()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, dbcore.Translate(err, "product")
	}
	if name != nil {
		product.Name = *name
	}
	if description != nil {
		product.Description = *description
	}
	if price != nil {
		product.Price = *price
	}
	if category != nil {
		product.Category = *category
	}
	if stock != nil {
		product.Stock = *stock
	}
	if images != nil {
		product.Images = images
	}
	if active != nil {
		product.Active = *active
	}
	if err := db.Save(&product).Error; err != nil {
		return nil, dbcore.Translate(err, "product")
	}
	return &product, nil
}

func Delete(id uint) error {
	db := dbcore.GetDBInstance()
	if err := db.Delete(&models.Product{}, id).Error; err != nil {
		return dbcore.Translate(err, "product")
	}
	return nil
}

// AdjustStock 下单扣减库存，返回扣减后的商品
func AdjustStock(id uint, delta int) (*models.Product, error) {
	return AdjustStockIn(dbcore.GetDBInstance(), id, delta)
}

// AdjustStockIn 在给定连接（通常是事务）上扣减库存
func AdjustStockIn(db *gorm.DB, id uint, delta int) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, dbcore.Translate(err, "product")
	}
	product.Stock += delta
	if product.Stock < 0 {
		product.Stock = 0
	}
	if err := db.Save(&product).Error; err != nil {
		return nil, dbcore.Translate(err, "product")
	}
	return &product, nil
}
