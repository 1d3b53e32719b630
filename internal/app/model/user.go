package model

import "time"

// User is the latest self-reported profile of a LINE-authenticated visitor.
type User struct {
	Base
	LineID      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"lineId"`
	DisplayName string    `gorm:"type:varchar(100)" json:"displayName"`
	PictureURL  string    `gorm:"type:text" json:"pictureUrl,omitempty"`
	RealName    string    `gorm:"type:varchar(100)" json:"realName,omitempty"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// All lists every persisted model for migrations.
func All() []interface{} {
	return []interface{}{
		&Order{},
		&Feedback{},
		&Shipment{},
		&Product{},
		&Announcement{},
		&FAQ{},
		&Link{},
		&Setting{},
		&User{},
	}
}
