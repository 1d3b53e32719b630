package model

import "time"

// DateLayout is the storage format for calendar dates; it sorts lexically.
const DateLayout = "2006-01-02"

type ClothingItem struct {
	ID    string `json:"id"`    // 의류 번호
	Owner string `json:"owner"` // 소유자 이름
}

type Shipment struct {
	Base
	Name       string         `gorm:"type:varchar(100);not null" json:"name"`
	BirthYear  string         `gorm:"type:varchar(10)" json:"birthYear"`
	LineGroup  string         `gorm:"type:varchar(100)" json:"lineGroup"`
	LineName   string         `gorm:"type:varchar(100)" json:"lineName"`
	Clothes    []ClothingItem `gorm:"type:text;serializer:json" json:"clothes"`
	SubmitDate string         `gorm:"type:varchar(10);index" json:"submitDate"` // YYYY-MM-DD
	PickupDate string         `gorm:"type:varchar(10);index" json:"pickupDate"` // 접수일 + 영업일 2일
	CreatedAt  time.Time      `json:"createdAt"`
}

func (Shipment) TableName() string {
	return "shipments"
}
