package orders

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/komerce-shop/komerce/database/dbcore"
	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/database/products"
	"github.com/komerce-shop/komerce/security/faults"
)

// Create 创建订单并生成订单号，Total 由行项目汇总。
// 订单写入与库存扣减在同一事务内，任一失败整体回滚
func Create(order *models.Order) error {
	db := dbcore.GetDBInstance()
	if order.Number == "" {
		order.Number = "KMC-" + uuid.NewString()
	}
	total := 0.0
	for _, item := range order.Items {
		total += item.Price * float64(item.Quantity)
	}
	order.Total = total
	if order.Status == "" {
		order.Status = "pending"
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			productID, perr := strconv.ParseUint(item.Product, 10, 32)
			if perr != nil {
				// 行项目允许自由文本商品名，无库存可扣
				continue
			}
			if _, err := products.AdjustStockIn(tx, uint(productID), -item.Quantity); err != nil {
				var f *faults.Failure
				if errors.As(err, &f) && f.Kind == faults.KindNotFound {
					continue
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		var f *faults.Failure
		if errors.As(err, &f) {
			return f
		}
		return dbcore.Translate(err, "order")
	}
	return nil
}

func Get(id uint) (*models.Order, error) {
	db := dbcore.GetDBInstance()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		return nil, dbcore.Translate(err, "order")
	}
	return &order, nil
}

func ListByUser(userID uint) ([]models.Order, error) {
	db := dbcore.GetDBInstance()
	var list []models.Order
	if err := db.Where("user_id = ?", userID).Order("id desc").Find(&list).Error; err != nil {
		return nil, dbcore.Translate(err, "order")
	}
	return list, nil
}
