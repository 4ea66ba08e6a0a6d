package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/komerce-shop/komerce/database/dbcore"
	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/security/faults"
)

// Create 一个用户对一个商品只允许一条评论
func Create(review *models.Review) error {
	db := dbcore.GetDBInstance()
	var count int64
	err := db.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
		Count(&count).Error
	if err != nil {
		return dbcore.Translate(err, "review")
	}
	if count > 0 {
		return faults.Duplicate(map[string]string{"review": "product review"})
	}
	if err := db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return faults.Duplicate(map[string]string{"review": "product review"})
		}
		return dbcore.Translate(err, "review")
	}
	return nil
}

// Update 局部更新（评分/标题/内容至少一项），只允许作者本人
func Update(productID, userID uint, rating *int, title, comment *string) (*models.Review, error) {
	db := dbcore.GetDBInstance()
	var review models.Review
	err := db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if err != nil {
		return nil, dbcore.Translate(err, "review")
	}
	if rating != nil {
		review.Rating = *rating
	}
	if title != nil {
		review.Title = *title
	}
	if comment != nil {
		review.Comment = *comment
	}
	if err := db.Save(&review).Error; err != nil {
		return nil, dbcore.Translate(err, "review")
	}
	return &review, nil
}

func ListByProduct(productID uint) ([]models.Review, error) {
	db := dbcore.GetDBInstance()
	var list []models.Review
	if err := db.Where("product_id = ?", productID).Order("id desc").Find(&list).Error; err != nil {
		return nil, dbcore.Translate(err, "review")
	}
	return list, nil
}
