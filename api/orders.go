package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/database/orders"
	"github.com/komerce-shop/komerce/security/faults"
)

// POST /api/orders
func CreateOrder(c *gin.Context) {
	body, ok := Validated(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "Missing request body")
		return
	}
	user := CurrentUser(c)

	rawItems := asObjectSlice(body, "items")
	items := make(models.OrderItemList, 0, len(rawItems))
	for _, item := range rawItems {
		items = append(items, models.OrderItem{
			Product:  asString(item, "product"),
			Quantity: asInt(item, "quantity"),
			Price:    asFloat(item, "price"),
		})
	}

	order := models.Order{
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: asString(body, "shippingAddress"),
		City:            asString(body, "city"),
		State:           asString(body, "state"),
		ZipCode:         asString(body, "zipCode"),
		Phone:           asString(body, "phone"),
		PaymentMethod:   asString(body, "paymentMethod"),
	}
	if err := orders.Create(&order); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": order})
}

// GET /api/orders
func ListOrders(c *gin.Context) {
	user := CurrentUser(c)
	list, err := orders.ListByUser(user.ID)
	if err != nil {
		c.Error(err)
		return
	}
	RespondSuccess(c, list)
}

// GET /api/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := orders.Get(id)
	if err != nil {
		c.Error(err)
		return
	}
	// 订单归属校验：他人订单按不存在处理，不暴露存在性
	if order.UserID != CurrentUser(c).ID {
		c.Error(faults.MissingResource("order"))
		return
	}
	RespondSuccess(c, order)
}
