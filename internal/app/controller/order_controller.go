package controller

import (
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/app/service"
	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderItemRequest struct {
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	Variant string          `json:"variant"`
}

type CreateOrderRequest struct {
	Name          string             `json:"name"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	Address       string             `json:"address"`
	Last5         string             `json:"last5"`
	LunarBirthday string             `json:"lunarBirthday"`
	Prayer        string             `json:"prayer"`
	Items         []OrderItemRequest `json:"items"`
	Total         decimal.Decimal    `json:"total"`
}

type ShipOrderRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

type ResendEmailRequest struct {
	Email string `json:"email"`
}

// parseOrderFilter reads ?status= and ?type=, answering 400 on unknown values.
func parseOrderFilter(c *gin.Context) (repository.OrderFilter, bool) {
	filter := repository.OrderFilter{
		Status:    model.OrderStatus(c.Query("status")),
		OrderType: model.OrderType(c.Query("type")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		apperrors.BadRequest(c, "")
		return filter, false
	}
	switch filter.OrderType {
	case "", model.OrderTypeShop, model.OrderTypeDonation:
	default:
		apperrors.BadRequest(c, "")
		return filter, false
	}
	return filter, true
}

// CreateOrder places a shop order or donation
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			Name:    item.Name,
			Qty:     item.Qty,
			Price:   item.Price,
			Variant: item.Variant,
		}
	}

	order, err := ctrl.orderService.CreateOrder(service.CreateOrderInput{
		Customer: model.Customer{
			Name:          req.Name,
			Phone:         req.Phone,
			Email:         req.Email,
			Address:       req.Address,
			Last5:         req.Last5,
			LunarBirthday: req.LunarBirthday,
			Prayer:        req.Prayer,
		},
		Items: items,
		Total: req.Total,
	})
	if err != nil {
		respondError(c, err, "Create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"orderId": order.OrderID,
	})
}

// ListOrders returns orders for the admin console
// GET /api/orders?status=&type=
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		respondError(c, err, "List orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	order, err := ctrl.orderService.GetOrder(c.Param("id"))
	if err != nil {
		respondError(c, err, "Get order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// ConfirmPayment marks the transfer as received
// PUT /api/orders/:id/confirm
func (ctrl *OrderController) ConfirmPayment(c *gin.Context) {
	order, err := ctrl.orderService.ConfirmPayment(c.Param("id"))
	if err != nil {
		respondError(c, err, "Confirm payment")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Payment confirmed", map[string]interface{}{
		"order_id": order.OrderID,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ShipOrder PUT /api/orders/:id/ship
func (ctrl *OrderController) ShipOrder(c *gin.Context) {
	var req ShipOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.ShipOrder(c.Param("id"), req.TrackingNumber)
	if err != nil {
		respondError(c, err, "Ship order")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order shipped", map[string]interface{}{
		"order_id":        order.OrderID,
		"tracking_number": order.TrackingNumber,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResendEmail re-sends the mail for the order's current status, optionally to
// a corrected address.
// POST /api/orders/:id/resend-email
func (ctrl *OrderController) ResendEmail(c *gin.Context) {
	var req ResendEmailRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	if _, err := ctrl.orderService.ResendEmail(c.Param("id"), req.Email); err != nil {
		respondError(c, err, "Resend order email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteOrder cancels the order and notifies the customer
// DELETE /api/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	if err := ctrl.orderService.DeleteOrder(c.Param("id")); err != nil {
		respondError(c, err, "Delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CleanupPending POST /api/orders/cleanup/pending
func (ctrl *OrderController) CleanupPending(c *gin.Context) {
	count, err := ctrl.orderService.CleanupPending()
	if err != nil {
		respondError(c, err, "Clean up pending orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": count})
}

// CleanupShipped POST /api/orders/cleanup/shipped
func (ctrl *OrderController) CleanupShipped(c *gin.Context) {
	count, err := ctrl.orderService.CleanupShipped()
	if err != nil {
		respondError(c, err, "Clean up shipped orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": count})
}

// PublicDonations returns the redacted donor wall
// GET /api/donations/public
func (ctrl *OrderController) PublicDonations(c *gin.Context) {
	donations, err := ctrl.orderService.PublicDonations()
	if err != nil {
		respondError(c, err, "List public donations")
		return
	}

	c.JSON(http.StatusOK, donations)
}
