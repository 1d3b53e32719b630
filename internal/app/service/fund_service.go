package service

import (
	"encoding/json"
	"errors"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidFundSettings = errors.New("fund amounts must not be negative")

// FundService reads and writes the building fund goal shown on the home page.
type FundService interface {
	Get() (model.FundSettings, error)
	Update(settings model.FundSettings) error
}

type fundService struct {
	settingRepo repository.SettingRepository
}

func NewFundService(settingRepo repository.SettingRepository) FundService {
	return &fundService{settingRepo: settingRepo}
}

func (s *fundService) Get() (model.FundSettings, error) {
	var settings model.FundSettings

	row, err := s.settingRepo.Get(model.SettingKeyFund)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings, nil
		}
		return settings, err
	}

	if err := json.Unmarshal([]byte(row.Value), &settings); err != nil {
		logger.Error("Stored fund settings are not valid JSON", err, nil)
		return model.FundSettings{}, err
	}
	return settings, nil
}

func (s *fundService) Update(settings model.FundSettings) error {
	if settings.GoalAmount.IsNegative() || settings.CurrentAmount.IsNegative() {
		return ErrInvalidFundSettings
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.settingRepo.Put(model.SettingKeyFund, string(value)); err != nil {
		return err
	}

	logger.Info("Fund settings updated", map[string]interface{}{
		"goal_amount":    settings.GoalAmount.String(),
		"current_amount": settings.CurrentAmount.String(),
	})
	return nil
}
