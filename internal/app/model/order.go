package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string   // 주문 유형
type OrderStatus string // 주문 상태

const (
	OrderTypeShop     OrderType = "shop"     // 일반 상품
	OrderTypeDonation OrderType = "donation" // 건축 기금 등 후원

	OrderStatusPending OrderStatus = "pending" // 입금 대기
	OrderStatusPaid    OrderStatus = "paid"    // 입금 확인
	OrderStatusShipped OrderStatus = "shipped" // 발송 완료
)

// orderTransitions lists the legal next states. shipped -> shipped only
// rewrites the tracking number.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid},
	OrderStatusPaid:    {OrderStatusShipped},
	OrderStatusShipped: {OrderStatusShipped},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderStatusesLeadingTo returns every status from which next is reachable.
func OrderStatusesLeadingTo(next OrderStatus) []OrderStatus {
	var from []OrderStatus
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusShipped} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

type Customer struct {
	Name          string `gorm:"type:varchar(100);not null" json:"name"`     // 주문자 이름
	Phone         string `gorm:"type:varchar(30)" json:"phone"`              // 연락처
	Email         string `gorm:"type:varchar(255)" json:"email"`             // 알림 메일 주소
	Address       string `gorm:"type:text" json:"address"`                   // 배송지
	Last5         string `gorm:"type:varchar(5)" json:"last5"`               // 이체 계좌 끝 5자리
	LunarBirthday string `gorm:"type:varchar(50)" json:"lunarBirthday"`      // 음력 생일 (후원 증서용)
	Prayer        string `gorm:"type:text" json:"prayer,omitempty"`          // 기원 문구
}

// OrderItem is copied by value from the catalog at checkout.
type OrderItem struct {
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	Variant string          `json:"variant,omitempty"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

type Order struct {
	Base
	OrderID        string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderId"` // 사람이 읽는 주문 번호
	OrderType      OrderType       `gorm:"type:varchar(20);index;not null" json:"orderType"`
	Customer       Customer        `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items          []OrderItem     `gorm:"type:text;serializer:json" json:"items"` // 주문 시점 스냅샷
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status         OrderStatus     `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	TrackingNumber string          `gorm:"type:varchar(100)" json:"trackingNumber,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	PaidAt         *time.Time      `gorm:"index" json:"paidAt,omitempty"`
	ShippedAt      *time.Time      `gorm:"index" json:"shippedAt,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) IsDonation() bool {
	return o.OrderType == OrderTypeDonation
}

func (o *Order) ItemNames() []string {
	names := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		names = append(names, item.Name)
	}
	return names
}
