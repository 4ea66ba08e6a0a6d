package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/database/products"
	"github.com/komerce-shop/komerce/security/faults"
)

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.Error(faults.Cast(name, "identifier must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// GET /api/products?category=
func ListProducts(c *gin.Context) {
	list, err := products.List(c.Query("category"))
	if err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, list)
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := products.Get(id)
	if err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, product)
}

// POST /api/admin/products
func CreateProduct(c *gin.Context) {
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}

	product := models.Product{
		Name:        asString(body, "name"),
		Description: asString(body, "description"),
		Price:       asFloat(body, "price"),
		Category:    asString(body, "category"),
		Stock:       asInt(body, "stock"),
		Images:      asStringSlice(body, "images"),
		Active:      true,
	}
	if err := products.Create(&product); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": product})
}

// PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}

	// 实体未声明 active：上架状态只经 Delete 下架，不随更新翻转
	product, err := products.Update(id,
		optString(body, "name"),
		optString(body, "description"),
		optFloat(body, "price"),
		optString(body, "category"),
		optInt(body, "stock"),
		asStringSlice(body, "images"),
		nil,
	)
	if err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, product)
}

// DELETE /api/admin/products/:id
func DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := products.Delete(id); err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, gin.H{"deleted": true})
}
