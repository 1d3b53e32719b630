package repository

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(announcement *model.Announcement) error
	// FindAll orders pinned entries first, then by date descending.
	FindAll() ([]model.Announcement, error)
	FindByID(id string) (*model.Announcement, error)
	Update(announcement *model.Announcement) error
	Delete(id string) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *model.Announcement) error {
	if err := r.db.Create(announcement).Error; err != nil {
		logger.Error("Failed to create announcement in database", err, map[string]interface{}{
			"title": announcement.Title,
		})
		return err
	}

	logger.Debug("Announcement created in database", map[string]interface{}{
		"id": announcement.ID,
	})
	return nil
}

func (r *announcementRepository) FindAll() ([]model.Announcement, error) {
	var items []model.Announcement
	if err := r.db.Order("is_pinned DESC, date DESC, created_at DESC").Find(&items).Error; err != nil {
		logger.Error("Failed to list announcements", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *announcementRepository) FindByID(id string) (*model.Announcement, error) {
	var item model.Announcement
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *announcementRepository) Update(announcement *model.Announcement) error {
	if err := r.db.Save(announcement).Error; err != nil {
		logger.Error("Failed to update announcement in database", err, map[string]interface{}{
			"id": announcement.ID,
		})
		return err
	}
	return nil
}

func (r *announcementRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Announcement{})
	if result.Error != nil {
		logger.Error("Failed to delete announcement", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
