package repository

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// Upsert creates the user or overwrites the profile columns of the
	// existing row with the same LINE id.
	Upsert(user *model.User, columns ...string) error
	FindByLineID(lineID string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(user *model.User, columns ...string) error {
	logger.Debug("Upserting user in database", map[string]interface{}{
		"line_id": user.LineID,
		"columns": columns,
	})

	columns = append(columns, "updated_at")
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "line_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(user).Error; err != nil {
		logger.Error("Failed to upsert user in database", err, map[string]interface{}{
			"line_id": user.LineID,
		})
		return err
	}

	logger.Debug("User upserted in database", map[string]interface{}{
		"line_id": user.LineID,
	})
	return nil
}

func (r *userRepository) FindByLineID(lineID string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("line_id = ?", lineID).First(&user).Error; err != nil {
		logger.Error("Failed to find user by LINE ID in database", err, map[string]interface{}{
			"line_id": lineID,
		})
		return nil, err
	}
	return &user, nil
}
