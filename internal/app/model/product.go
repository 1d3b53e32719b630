package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	Base
	Name        string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Category    string          `gorm:"type:varchar(50);index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Image       string          `gorm:"type:text" json:"image"` // URL 또는 base64
	IsActive    bool            `gorm:"index" json:"isActive"` // 판매 중 여부
	IsDonation  bool            `gorm:"default:false" json:"isDonation"`
	Variants    []string        `gorm:"type:text;serializer:json" json:"variants"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}
