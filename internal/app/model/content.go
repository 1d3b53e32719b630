package model

import "time"

type Announcement struct {
	Base
	Date      string    `gorm:"type:varchar(10);index" json:"date"` // YYYY-MM-DD
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	IsPinned  bool      `gorm:"default:false" json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Announcement) TableName() string {
	return "announcements"
}

type FAQ struct {
	Base
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Category  string    `gorm:"type:varchar(50);index" json:"category"`
	IsPinned  bool      `gorm:"default:false" json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
}

func (FAQ) TableName() string {
	return "faq"
}

type Link struct {
	Base
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	URL       string    `gorm:"type:text" json:"url"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Link) TableName() string {
	return "links"
}
