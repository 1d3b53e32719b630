package repository

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

type FAQRepository interface {
	Create(faq *model.FAQ) error
	// FindAll filters by category when it is not empty.
	FindAll(category string) ([]model.FAQ, error)
	Categories() ([]string, error)
	Delete(id string) error
}

type faqRepository struct {
	db *gorm.DB
}

func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(faq *model.FAQ) error {
	if err := r.db.Create(faq).Error; err != nil {
		logger.Error("Failed to create FAQ in database", err, map[string]interface{}{
			"category": faq.Category,
		})
		return err
	}
	return nil
}

func (r *faqRepository) FindAll(category string) ([]model.FAQ, error) {
	query := r.db.Model(&model.FAQ{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []model.FAQ
	if err := query.Order("is_pinned DESC, created_at DESC").Find(&items).Error; err != nil {
		logger.Error("Failed to list FAQ", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return items, nil
}

func (r *faqRepository) Categories() ([]string, error) {
	var categories []string
	if err := r.db.Model(&model.FAQ{}).
		Where("category <> ?", "").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		logger.Error("Failed to list FAQ categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *faqRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.FAQ{})
	if result.Error != nil {
		logger.Error("Failed to delete FAQ", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
