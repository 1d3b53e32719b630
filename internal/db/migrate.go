package db

import (
	"encoding/json"
	"errors"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds the default rows.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := model.All()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := Seed(db); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// defaultLinks 관리 화면에서 URL만 수정하는 고정 링크
var defaultLinks = []model.Link{
	{Name: "line_official"},
	{Name: "facebook"},
	{Name: "youtube"},
	{Name: "donation_form"},
	{Name: "map"},
}

// Seed inserts missing default rows; it is safe to run repeatedly.
func Seed(db *gorm.DB) error {
	if err := seedLinks(db); err != nil {
		logger.Error("Failed to seed links", err)
		return err
	}
	if err := seedFundSettings(db); err != nil {
		logger.Error("Failed to seed fund settings", err)
		return err
	}
	return nil
}

func seedLinks(db *gorm.DB) error {
	inserted := 0
	for _, link := range defaultLinks {
		var existing model.Link
		err := db.Where("name = ?", link.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		l := link
		if err := db.Create(&l).Error; err != nil {
			return err
		}
		inserted++
	}

	if inserted > 0 {
		logger.Info("Links seeded successfully", map[string]interface{}{
			"inserted": inserted,
		})
	}
	return nil
}

func seedFundSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Setting{}).Where("setting_key = ?", model.SettingKeyFund).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	value, err := json.Marshal(model.FundSettings{
		GoalAmount:    decimal.Zero,
		CurrentAmount: decimal.Zero,
	})
	if err != nil {
		return err
	}
	return db.Create(&model.Setting{Key: model.SettingKeyFund, Value: string(value)}).Error
}
