package service

import (
	"errors"
	"strings"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

type ProductInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
	Image       string
	IsActive    *bool // nil keeps the current value, new products default to active
	IsDonation  bool
	Variants    []string
}

type ProductService interface {
	ListProducts(activeOnly bool) ([]model.Product, error)
	GetProduct(id string) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id string, input ProductInput) (*model.Product, error)
	DeleteProduct(id string) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(activeOnly bool) ([]model.Product, error) {
	if activeOnly {
		return s.productRepo.ListActive()
	}
	return s.productRepo.FindAll()
}

func (s *productService) GetProduct(id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func validateProduct(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" || input.Price.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}

func cleanVariants(variants []string) []string {
	result := make([]string, 0, len(variants))
	for _, v := range variants {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		Description: input.Description,
		Image:       input.Image,
		IsActive:    input.IsActive == nil || *input.IsActive,
		IsDonation:  input.IsDonation,
		Variants:    cleanVariants(input.Variants),
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id string, input ProductInput) (*model.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Category = strings.TrimSpace(input.Category)
	product.Price = input.Price
	product.Description = input.Description
	product.Image = input.Image
	product.IsDonation = input.IsDonation
	product.Variants = cleanVariants(input.Variants)
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
