package repository

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

type LinkRepository interface {
	FindAll() ([]model.Link, error)
	Create(link *model.Link) error
	UpdateURL(id, url string) error
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) FindAll() ([]model.Link, error) {
	var links []model.Link
	if err := r.db.Order("name ASC").Find(&links).Error; err != nil {
		logger.Error("Failed to list links", err, nil)
		return nil, err
	}
	return links, nil
}

func (r *linkRepository) Create(link *model.Link) error {
	if err := r.db.Create(link).Error; err != nil {
		logger.Error("Failed to create link", err, map[string]interface{}{
			"name": link.Name,
		})
		return err
	}
	return nil
}

func (r *linkRepository) UpdateURL(id, url string) error {
	result := r.db.Model(&model.Link{}).Where("id = ?", id).Update("url", url)
	if result.Error != nil {
		logger.Error("Failed to update link", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
