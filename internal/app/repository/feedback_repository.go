package repository

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	FindByID(id string) (*model.Feedback, error)
	ListByStatus(status model.FeedbackStatus) ([]model.Feedback, error)
	ListPublic() ([]model.Feedback, error)
	Transition(id string, from model.FeedbackStatus, updates map[string]interface{}) (bool, error)
	SetMarked(id string, marked bool) error
	MarkAllApproved() (int64, error)
	FindApprovedUnmarked() ([]model.Feedback, error)
	Delete(id string) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *model.Feedback) error {
	logger.Debug("Creating feedback in database", map[string]interface{}{
		"line_id": feedback.LineID,
	})

	if err := r.db.Create(feedback).Error; err != nil {
		logger.Error("Failed to create feedback in database", err, map[string]interface{}{
			"line_id": feedback.LineID,
		})
		return err
	}

	logger.Debug("Feedback created in database", map[string]interface{}{
		"id": feedback.ID,
	})
	return nil
}

func (r *feedbackRepository) FindByID(id string) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.Where("id = ?", id).First(&feedback).Error; err != nil {
		logger.Error("Failed to find feedback by ID in database", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) ListByStatus(status model.FeedbackStatus) ([]model.Feedback, error) {
	logger.Debug("Listing feedback by status", map[string]interface{}{
		"status": status,
	})

	var items []model.Feedback
	if err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to list feedback by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return items, nil
}

// ListPublic returns approved and sent entries, newest first.
func (r *feedbackRepository) ListPublic() ([]model.Feedback, error) {
	var items []model.Feedback
	if err := r.db.Where("status IN ?", []model.FeedbackStatus{
		model.FeedbackStatusApproved, model.FeedbackStatusSent,
	}).Order("created_at DESC").Find(&items).Error; err != nil {
		logger.Error("Failed to list public feedback", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *feedbackRepository) Transition(id string, from model.FeedbackStatus, updates map[string]interface{}) (bool, error) {
	logger.Debug("Transitioning feedback status in database", map[string]interface{}{
		"id":   id,
		"from": from,
	})

	result := r.db.Model(&model.Feedback{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to transition feedback status", result.Error, map[string]interface{}{
			"id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *feedbackRepository) SetMarked(id string, marked bool) error {
	result := r.db.Model(&model.Feedback{}).Where("id = ?", id).Update("is_marked", marked)
	if result.Error != nil {
		logger.Error("Failed to update feedback mark", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *feedbackRepository) MarkAllApproved() (int64, error) {
	result := r.db.Model(&model.Feedback{}).
		Where("status = ? AND is_marked = ?", model.FeedbackStatusApproved, false).
		Update("is_marked", true)
	if result.Error != nil {
		logger.Error("Failed to mark approved feedback", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Approved feedback marked", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *feedbackRepository) FindApprovedUnmarked() ([]model.Feedback, error) {
	var items []model.Feedback
	if err := r.db.Where("status = ? AND is_marked = ?", model.FeedbackStatusApproved, false).
		Order("approved_at ASC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find unmarked feedback", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *feedbackRepository) Delete(id string) error {
	logger.Debug("Deleting feedback from database", map[string]interface{}{
		"id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.Feedback{})
	if result.Error != nil {
		logger.Error("Failed to delete feedback", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
