package controller

import (
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductRequest accepts price as a JSON number or a numeric string.
type ProductRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	IsActive    *bool           `json:"isActive"`
	IsDonation  bool            `json:"isDonation"`
	Variants    []string        `json:"variants"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
		IsActive:    r.IsActive,
		IsDonation:  r.IsDonation,
		Variants:    r.Variants,
	}
}

// ListProducts returns active products, or every product for an admin session
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	products, err := ctrl.productService.ListProducts(!middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err, "List products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		respondError(c, err, "Create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct PUT /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err, "Update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	if err := ctrl.productService.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, err, "Delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
