package controller

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContentControllerTest(t *testing.T) *testEnv {
	env := setupControllerTest(t)
	products := NewProductController(env.products)
	content := NewContentController(env.content, env.fund)
	orders := NewOrderController(env.orders)
	admin := []gin.HandlerFunc{middleware.RequireAdmin(), middleware.RequireCSRF()}

	env.router.GET("/api/products", products.ListProducts)
	env.router.POST("/api/products", append(admin, products.CreateProduct)...)
	env.router.PUT("/api/products/:id", append(admin, middleware.ValidateID("id"), products.UpdateProduct)...)
	env.router.DELETE("/api/products/:id", append(admin, middleware.ValidateID("id"), products.DeleteProduct)...)
	env.router.POST("/api/orders", orders.CreateOrder)

	env.router.GET("/api/announcements", content.ListAnnouncements)
	env.router.POST("/api/announcements", append(admin, content.CreateAnnouncement)...)
	env.router.GET("/api/faq", content.ListFAQ)
	env.router.GET("/api/faq/categories", content.FAQCategories)
	env.router.POST("/api/faq", append(admin, content.CreateFAQ)...)
	env.router.GET("/api/links", content.ListLinks)
	env.router.POST("/api/links", append(admin, content.CreateLink)...)
	env.router.PUT("/api/links/:id", append(admin, middleware.ValidateID("id"), content.UpdateLink)...)
	env.router.GET("/api/fund-settings", content.GetFundSettings)
	env.router.POST("/api/fund-settings", append(admin, content.UpdateFundSettings)...)
	return env
}

func TestProductController_ListIsAdminAware(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodPost, "/api/products", gin.H{"name": "平安符", "price": 150, "category": "護身"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, "/api/products", gin.H{"name": "舊款念珠", "price": 300, "isActive": false}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var public []model.Product
	decode(t, w, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "平安符", public[0].Name)

	w = env.do(t, http.MethodGet, "/api/products", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var all []model.Product
	decode(t, w, &all)
	assert.Len(t, all, 2)
}

func TestProductController_CatalogPriceWins(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodPost, "/api/products", gin.H{"name": "平安符", "price": 150}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	body := amuletOrder()
	body["items"] = []gin.H{{"name": "平安符", "qty": 2, "price": 1}}
	body["total"] = 2
	order := createOrder(t, env, body)
	assert.Equal(t, "300", order.Total.String())
}

func TestProductController_Validation(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodPost, "/api/products", gin.H{"name": "", "price": 10}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/products", gin.H{"name": "香", "price": -1}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/products", gin.H{"name": "香", "price": 10}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/products/"+randomID(), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentController_Announcements(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodPost, "/api/announcements", gin.H{"date": "2024-02-10", "title": "春節法會"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/announcements", gin.H{"date": "10 Feb", "title": "錯誤日期"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/announcements", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.Announcement
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "2024/02/10", items[0].Date)
}

func TestContentController_FAQCategoryMustBeChinese(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodPost, "/api/faq", gin.H{"question": "幾點開門？", "answer": "早上七點", "category": "general"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), msgFAQCategoryInvalid)

	w = env.do(t, http.MethodPost, "/api/faq", gin.H{"question": "幾點開門？", "answer": "早上七點", "category": "參訪"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/faq/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["參訪"]`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/faq?category="+url.QueryEscape("參訪"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var faqs []model.FAQ
	decode(t, w, &faqs)
	assert.Len(t, faqs, 1)
}

func TestContentController_Links(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodPost, "/api/links", gin.H{"name": "youtube", "url": "https://youtube.com/@temple"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var link model.Link
	decode(t, w, &link)

	w = env.do(t, http.MethodPut, "/api/links/"+link.ID, gin.H{"url": "https://youtube.com/@temple2"}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/links", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "@temple2")
}

func TestContentController_FundSettings(t *testing.T) {
	env := setupContentControllerTest(t)
	admin := env.adminCookie(t)

	w := env.do(t, http.MethodGet, "/api/fund-settings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"goal_amount": 0, "current_amount": 0}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/fund-settings", gin.H{"goal_amount": 5000000, "current_amount": 1250000}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/fund-settings", gin.H{"goal_amount": -1, "current_amount": 0}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/fund-settings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings model.FundSettings
	decode(t, w, &settings)
	assert.Equal(t, "5000000", settings.GoalAmount.String())
	assert.Equal(t, "1250000", settings.CurrentAmount.String())
}
