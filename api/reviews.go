package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/database/reviews"
	"github.com/komerce-shop/komerce/security/faults"
)

// POST /api/reviews
func CreateReview(c *gin.Context) {
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}

	productID, err := strconv.ParseUint(asString(body, "productId"), 10, 32)
	if err != nil {
		c.Error(faults.Cast("productId", "productId must be a positive integer"))
		return
	}

	review := models.Review{
		ProductID: uint(productID),
		UserID:    CurrentUser(c).ID,
		Rating:    asInt(body, "rating"),
		Title:     asString(body, "title"),
		Comment:   asString(body, "comment"),
	}
	if err := reviews.Create(&review); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": review})
}

// PUT /api/products/:id/reviews
// 只能更新自己的评论，至少携带一个可更新字段
func UpdateReview(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}

	review, err := reviews.Update(productID, CurrentUser(c).ID,
		optInt(body, "rating"),
		optString(body, "title"),
		optString(body, "comment"),
	)
	if err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, review)
}

// GET /api/products/:id/reviews
func ListProductReviews(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := reviews.ListByProduct(productID)
	if err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, list)
}
