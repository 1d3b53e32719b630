package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const SettingKeyFund = "fund" // 건축 기금 목표/현황

// Setting is a key/value row; Value holds JSON.
type Setting struct {
	Key       string    `gorm:"column:setting_key;type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Setting) TableName() string {
	return "settings"
}

type FundSettings struct {
	GoalAmount    decimal.Decimal `json:"goal_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
}
