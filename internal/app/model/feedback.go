package model

import "time"

type FeedbackStatus string // 후기 상태

const (
	FeedbackStatusPending  FeedbackStatus = "pending"  // 심사 대기
	FeedbackStatusApproved FeedbackStatus = "approved" // 승인, 답례품 준비
	FeedbackStatusSent     FeedbackStatus = "sent"     // 답례품 발송
)

var feedbackTransitions = map[FeedbackStatus][]FeedbackStatus{
	FeedbackStatusPending:  {FeedbackStatusApproved},
	FeedbackStatusApproved: {FeedbackStatusSent},
	FeedbackStatusSent:     {},
}

func (s FeedbackStatus) Valid() bool {
	_, ok := feedbackTransitions[s]
	return ok
}

func (s FeedbackStatus) CanTransitionTo(next FeedbackStatus) bool {
	for _, allowed := range feedbackTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Feedback struct {
	Base
	FeedbackID     string         `gorm:"type:varchar(32);index" json:"feedbackId,omitempty"` // 승인 시 발급
	LineID         string         `gorm:"type:varchar(64);index" json:"lineId"`
	RealName       string         `gorm:"type:varchar(100)" json:"realName"`
	Nickname       string         `gorm:"type:varchar(100);not null" json:"nickname"` // 공개 표시명
	Category       []string       `gorm:"type:text;serializer:json" json:"category"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Phone          string         `gorm:"type:varchar(30)" json:"phone"`
	Address        string         `gorm:"type:text" json:"address"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	Agreed         bool           `json:"agreed"` // 개인정보 이용 동의
	Status         FeedbackStatus `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	IsMarked       bool           `gorm:"default:false" json:"isMarked"` // 관리자 처리 표시
	TrackingNumber string         `gorm:"type:varchar(100)" json:"trackingNumber,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty"`
	SentAt         *time.Time     `json:"sentAt,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}
