package controller

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderControllerTest(t *testing.T) *testEnv {
	env := setupControllerTest(t)
	ctrl := NewOrderController(env.orders)

	env.router.POST("/api/orders", ctrl.CreateOrder)
	env.router.GET("/api/donations/public", ctrl.PublicDonations)

	admin := env.router.Group("/api/orders", middleware.RequireAdmin(), middleware.RequireCSRF())
	admin.GET("", ctrl.ListOrders)
	admin.GET("/:id", middleware.ValidateID("id"), ctrl.GetOrder)
	admin.PUT("/:id/confirm", middleware.ValidateID("id"), ctrl.ConfirmPayment)
	admin.PUT("/:id/ship", middleware.ValidateID("id"), ctrl.ShipOrder)
	admin.POST("/:id/resend-email", middleware.ValidateID("id"), ctrl.ResendEmail)
	admin.DELETE("/:id", middleware.ValidateID("id"), ctrl.DeleteOrder)
	return env
}

func amuletOrder() gin.H {
	return gin.H{
		"name":    "王小明",
		"phone":   "0912345678",
		"email":   "ming@example.com",
		"address": "台北市中正區",
		"last5":   "12345",
		"items": []gin.H{
			{"name": "平安符", "qty": 2, "price": 100},
		},
		"total": 200,
	}
}

func createOrder(t *testing.T, env *testEnv, body gin.H) *model.Order {
	w := env.do(t, http.MethodPost, "/api/orders", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	decode(t, w, &resp)
	require.True(t, resp.Success)

	var order model.Order
	require.NoError(t, env.db.Where("order_id = ?", resp.OrderID).First(&order).Error)
	return &order
}

func TestOrderController_CreateOrder(t *testing.T) {
	env := setupOrderControllerTest(t)

	order := createOrder(t, env, amuletOrder())

	assert.Regexp(t, regexp.MustCompile(`^ORD\d{14}\d{2}$`), order.OrderID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.OrderTypeShop, order.OrderType)
	assert.Equal(t, "200", order.Total.String())
	assert.Equal(t, []string{notify.KindOrderCreated}, env.mail.kinds())
}

func TestOrderController_CreateOrder_Invalid(t *testing.T) {
	env := setupOrderControllerTest(t)

	body := amuletOrder()
	body["items"] = []gin.H{}
	w := env.do(t, http.MethodPost, "/api/orders", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderController_AdminRequired(t *testing.T) {
	env := setupOrderControllerTest(t)
	order := createOrder(t, env, amuletOrder())

	w := env.do(t, http.MethodPut, "/api/orders/"+order.ID+"/confirm", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored model.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderStatusPending, stored.Status)
}

func TestOrderController_Lifecycle(t *testing.T) {
	env := setupOrderControllerTest(t)
	admin := env.adminCookie(t)
	order := createOrder(t, env, amuletOrder())
	base := "/api/orders/" + order.ID

	// pending 주문은 바로 발송할 수 없음
	w := env.do(t, http.MethodPut, base+"/ship", gin.H{"trackingNumber": "TW123"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPut, base+"/confirm", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, base+"/ship", gin.H{"trackingNumber": ""}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, base+"/ship", gin.H{"trackingNumber": "TW123"}, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, base+"/confirm", nil, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, base, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.Order
	decode(t, w, &fetched)
	assert.Equal(t, model.OrderStatusShipped, fetched.Status)
	assert.Equal(t, "TW123", fetched.TrackingNumber)

	assert.Equal(t, []string{
		notify.KindOrderCreated,
		notify.KindOrderPaid,
		notify.KindOrderShipped,
	}, env.mail.kinds())
}

func TestOrderController_ResendEmailOnShippedOrder(t *testing.T) {
	env := setupOrderControllerTest(t)
	admin := env.adminCookie(t)
	order := createOrder(t, env, amuletOrder())
	base := "/api/orders/" + order.ID

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, base+"/confirm", nil, admin).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, base+"/ship", gin.H{"trackingNumber": "TW1"}, admin).Code)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, base+"/resend-email", nil, admin)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	kinds := env.mail.kinds()
	assert.Equal(t, []string{notify.KindOrderShipped, notify.KindOrderShipped}, kinds[len(kinds)-2:])

	var stored model.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderStatusShipped, stored.Status)
}

func TestOrderController_InvalidAndMissingIDs(t *testing.T) {
	env := setupOrderControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodGet, "/api/orders/not-a-uuid", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders/"+randomID(), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/orders/"+randomID(), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_ListOrdersFilter(t *testing.T) {
	env := setupOrderControllerTest(t)
	admin := env.adminCookie(t)
	createOrder(t, env, amuletOrder())

	donation := amuletOrder()
	donation["items"] = []gin.H{{"name": "建廟基金", "qty": 1, "price": 1000}}
	donation["total"] = 1000
	createOrder(t, env, donation)

	w := env.do(t, http.MethodGet, "/api/orders?type=donation", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []model.Order
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderTypeDonation, orders[0].OrderType)
	assert.Regexp(t, `^DON\d{16}$`, orders[0].OrderID)

	w = env.do(t, http.MethodGet, "/api/orders?status=refunded", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_PublicDonationsAreRedacted(t *testing.T) {
	env := setupOrderControllerTest(t)
	admin := env.adminCookie(t)

	donation := amuletOrder()
	donation["items"] = []gin.H{{"name": "護持光明燈", "qty": 1, "price": 600}}
	donation["total"] = 600
	order := createOrder(t, env, donation)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/orders/"+order.ID+"/confirm", nil, admin).Code)

	w := env.do(t, http.MethodGet, "/api/donations/public", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "王O明")
	assert.NotContains(t, body, "王小明")
	assert.NotContains(t, body, "0912345678")
	assert.NotContains(t, body, "台北市中正區")
}
