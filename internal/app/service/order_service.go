package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/notify"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/chengtian/temple-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrder           = errors.New("invalid order")
	ErrInvalidOrderTransition = errors.New("invalid order status transition")
	ErrTrackingNumberRequired = errors.New("tracking number required")
	ErrOrderEmailMissing      = errors.New("order has no customer email")
)

const (
	PendingOrderTTL      = 76 * time.Hour
	ShippedOrderTTL      = 14 * 24 * time.Hour
	PublicDonationsLimit = 30

	orderIDAttempts = 3
)

// donationMarkers classify an order as a donation when any item name contains one.
var donationMarkers = []string{"捐", "建廟基金", "護持"}

type CreateOrderInput struct {
	Customer model.Customer
	Items    []model.OrderItem
	Total    decimal.Decimal // declared by the client, checked against the recomputed sum
}

// PublicDonation is the redacted view shown on the donor wall.
type PublicDonation struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Items  []string        `json:"items"`
	Date   string          `json:"date"`
}

type OrderService interface {
	CreateOrder(input CreateOrderInput) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, error)
	GetOrder(id string) (*model.Order, error)
	ConfirmPayment(id string) (*model.Order, error)
	ShipOrder(id, trackingNumber string) (*model.Order, error)
	ResendEmail(id, email string) (*model.Order, error)
	DeleteOrder(id string) error
	CleanupPending() (int, error)
	CleanupShipped() (int64, error)
	PublicDonations() ([]PublicDonation, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	mail        notify.Sink
	composer    *notify.Composer
	events      EventPublisher
	loc         *time.Location
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	mail notify.Sink,
	composer *notify.Composer,
	events EventPublisher,
	loc *time.Location,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mail:        mail,
		composer:    composer,
		events:      publisherOrNop(events),
		loc:         loc,
		now:         time.Now,
	}
}

func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	if strings.TrimSpace(input.Customer.Name) == "" || len(input.Items) == 0 {
		return nil, ErrInvalidOrder
	}

	names := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" || item.Qty < 1 || item.Price.IsNegative() {
			logger.Warn("Order rejected: invalid item", map[string]interface{}{
				"item": item.Name,
				"qty":  item.Qty,
			})
			return nil, ErrInvalidOrder
		}
		names = append(names, item.Name)
	}

	catalog, err := s.productRepo.FindActiveByNames(names)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]model.Product, len(catalog))
	for _, p := range catalog {
		byName[p.Name] = p
	}

	orderType := model.OrderTypeShop
	items := make([]model.OrderItem, len(input.Items))
	total := decimal.Zero
	for i, item := range input.Items {
		product, inCatalog := byName[item.Name]
		if hasDonationMarker(item.Name) || (inCatalog && product.IsDonation) {
			orderType = model.OrderTypeDonation
		}
		// donation products are free-amount; everything else sells at catalog price
		if inCatalog && !product.IsDonation {
			item.Price = product.Price
		}
		items[i] = item
		total = total.Add(item.Subtotal())
	}

	if !total.Equal(input.Total) {
		logger.Warn("Declared order total differs from recomputed total", map[string]interface{}{
			"declared":   input.Total.String(),
			"recomputed": total.String(),
		})
	}

	now := s.now().UTC()
	order := &model.Order{
		OrderType: orderType,
		Customer:  input.Customer,
		Items:     items,
		Total:     total,
		Status:    model.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 1; ; attempt++ {
		order.ID = ""
		order.OrderID = s.generateOrderID(orderType, now)
		err = s.orderRepo.Create(order)
		if err == nil {
			break
		}
		if attempt >= orderIDAttempts || !isDuplicateKey(err) {
			return nil, err
		}
		logger.Warn("Order number collision, regenerating", map[string]interface{}{
			"order_id": order.OrderID,
			"attempt":  attempt,
		})
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":   order.OrderID,
		"order_type": order.OrderType,
		"total":      order.Total.String(),
	})

	s.send(s.composer.OrderCreated(order))
	s.events.Publish(EventOrderCreated, order)
	return order, nil
}

func (s *orderService) generateOrderID(orderType model.OrderType, now time.Time) string {
	prefix := "ORD"
	if orderType == model.OrderTypeDonation {
		prefix = "DON"
	}
	return fmt.Sprintf("%s%s%02d", prefix, now.In(s.loc).Format("20060102150405"), util.GenerateRandomNumber(0, 99))
}

func hasDonationMarker(name string) bool {
	for _, marker := range donationMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func isDuplicateKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.List(filter)
}

func (s *orderService) GetOrder(id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ConfirmPayment moves a pending order to paid. Confirming an order that is
// already paid succeeds without touching paidAt or sending mail again.
func (s *orderService) ConfirmPayment(id string) (*model.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if order.Status == model.OrderStatusPaid {
		logger.Info("Order already paid, nothing to confirm", map[string]interface{}{
			"order_id": order.OrderID,
		})
		return order, nil
	}
	if !order.Status.CanTransitionTo(model.OrderStatusPaid) {
		return nil, ErrInvalidOrderTransition
	}

	now := s.now().UTC()
	ok, err := s.orderRepo.TransitionStatus(id, model.OrderStatusesLeadingTo(model.OrderStatusPaid), map[string]interface{}{
		"status":  model.OrderStatusPaid,
		"paid_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a race; report whatever state won
		current, err := s.GetOrder(id)
		if err != nil {
			return nil, err
		}
		if current.Status == model.OrderStatusPaid {
			return current, nil
		}
		return nil, ErrInvalidOrderTransition
	}

	order.Status = model.OrderStatusPaid
	order.PaidAt = &now

	logger.Info("Order payment confirmed", map[string]interface{}{
		"order_id":   order.OrderID,
		"order_type": order.OrderType,
	})

	s.send(s.composer.OrderPaid(order))
	s.events.Publish(EventOrderUpdated, order)
	return order, nil
}

// ShipOrder records the tracking number. A shipped order may be shipped again
// to correct its tracking number; shippedAt keeps the first dispatch time.
func (s *orderService) ShipOrder(id, trackingNumber string) (*model.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrTrackingNumberRequired
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(model.OrderStatusShipped) {
		logger.Warn("Order cannot be shipped from current status", map[string]interface{}{
			"order_id": order.OrderID,
			"status":   order.Status,
		})
		return nil, ErrInvalidOrderTransition
	}

	updates := map[string]interface{}{
		"status":          model.OrderStatusShipped,
		"tracking_number": trackingNumber,
	}
	now := s.now().UTC()
	if order.ShippedAt == nil {
		updates["shipped_at"] = now
	}

	ok, err := s.orderRepo.TransitionStatus(id, []model.OrderStatus{order.Status}, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOrderTransition
	}

	order.Status = model.OrderStatusShipped
	order.TrackingNumber = trackingNumber
	if order.ShippedAt == nil {
		order.ShippedAt = &now
	}

	logger.Info("Order shipped", map[string]interface{}{
		"order_id":        order.OrderID,
		"tracking_number": trackingNumber,
	})

	s.send(s.composer.OrderShipped(order))
	s.events.Publish(EventOrderUpdated, order)
	return order, nil
}

// ResendEmail re-sends the message for the order's current status, optionally
// replacing the stored address first. It never changes the status.
func (s *orderService) ResendEmail(id, email string) (*model.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if email = strings.TrimSpace(email); email != "" && email != order.Customer.Email {
		if err := s.orderRepo.UpdateCustomerEmail(id, email); err != nil {
			return nil, err
		}
		order.Customer.Email = email
	}
	if order.Customer.Email == "" {
		return nil, ErrOrderEmailMissing
	}

	logger.Info("Resending order email", map[string]interface{}{
		"order_id": order.OrderID,
		"status":   order.Status,
	})
	s.send(s.composer.ForOrderStatus(order))
	return order, nil
}

func (s *orderService) DeleteOrder(id string) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}

	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": order.OrderID,
		"status":   order.Status,
	})

	if order.Customer.Email != "" {
		s.send(s.composer.OrderCancelled(order))
	}
	s.events.Publish(EventOrderDeleted, map[string]string{"_id": order.ID, "orderId": order.OrderID})
	return nil
}

// CleanupPending notifies and deletes orders left unpaid past PendingOrderTTL.
func (s *orderService) CleanupPending() (int, error) {
	cutoff := s.now().UTC().Add(-PendingOrderTTL)
	orders, err := s.orderRepo.FindPendingCreatedBefore(cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := range orders {
		order := &orders[i]
		if order.Customer.Email != "" {
			s.send(s.composer.OrderExpired(order))
		}
		if err := s.orderRepo.Delete(order.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			logger.Error("Failed to delete expired order", err, map[string]interface{}{
				"order_id": order.OrderID,
			})
			return deleted, err
		}
		deleted++
	}

	logger.Info("Expired pending orders removed", map[string]interface{}{
		"cutoff": cutoff,
		"count":  deleted,
	})
	return deleted, nil
}

// CleanupShipped silently deletes orders shipped more than ShippedOrderTTL ago.
func (s *orderService) CleanupShipped() (int64, error) {
	cutoff := s.now().UTC().Add(-ShippedOrderTTL)
	count, err := s.orderRepo.DeleteShippedBefore(cutoff)
	if err != nil {
		return 0, err
	}

	logger.Info("Old shipped orders removed", map[string]interface{}{
		"cutoff": cutoff,
		"count":  count,
	})
	return count, nil
}

func (s *orderService) PublicDonations() ([]PublicDonation, error) {
	orders, err := s.orderRepo.FindRecentPaidDonations(PublicDonationsLimit)
	if err != nil {
		return nil, err
	}

	result := make([]PublicDonation, 0, len(orders))
	for _, o := range orders {
		date := o.CreatedAt
		if o.PaidAt != nil {
			date = *o.PaidAt
		}
		result = append(result, PublicDonation{
			Name:   util.MaskName(o.Customer.Name),
			Amount: o.Total,
			Items:  o.ItemNames(),
			Date:   date.In(s.loc).Format("2006/01/02"),
		})
	}
	return result, nil
}

// send queues a composed message; composition errors and a full queue are
// logged and otherwise ignored.
func (s *orderService) send(msg notify.Message, err error) {
	if err != nil {
		logger.Error("Failed to compose order email", err, nil)
		return
	}
	if msg.To == "" {
		return
	}
	if !s.mail.Enqueue(msg) {
		logger.Warn("Order email dropped", map[string]interface{}{
			"kind": msg.Kind,
		})
	}
}
