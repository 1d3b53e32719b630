package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// 금액은 문자열이 아닌 숫자로 직렬화
	decimal.MarshalJSONWithoutQuotes = true
}

// Base carries the generated document identifier shared by every collection.
type Base struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"_id"` // UUID 문자열
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsValidID reports whether id has the shape of a generated identifier.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
