package repository

import (
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows the admin order list; empty fields match everything.
type OrderFilter struct {
	Status    model.OrderStatus
	OrderType model.OrderType
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id string) (*model.Order, error)
	FindByOrderID(orderID string) (*model.Order, error)
	List(filter OrderFilter) ([]model.Order, error)
	TransitionStatus(id string, from []model.OrderStatus, updates map[string]interface{}) (bool, error)
	UpdateCustomerEmail(id, email string) error
	Delete(id string) error
	FindPendingCreatedBefore(cutoff time.Time) ([]model.Order, error)
	DeleteShippedBefore(cutoff time.Time) (int64, error)
	FindRecentPaidDonations(limit int) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_id":   order.OrderID,
		"order_type": order.OrderType,
		"total":      order.Total.String(),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_id": order.OrderID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"id":       order.ID,
		"order_id": order.OrderID,
	})
	return nil
}

func (r *orderRepository) FindByID(id string) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"id": id,
	})

	var order model.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"id":     order.ID,
		"status": order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByOrderID(orderID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		logger.Error("Failed to find order by order number in database", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(filter OrderFilter) ([]model.Order, error) {
	logger.Debug("Listing orders in database", map[string]interface{}{
		"status":     filter.Status,
		"order_type": filter.OrderType,
	})

	query := r.db.Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderType != "" {
		query = query.Where("order_type = ?", filter.OrderType)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders in database", err, nil)
		return nil, err
	}

	logger.Debug("Orders listed from database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// TransitionStatus applies updates only while the row is still in one of the
// from states. It reports false when no row matched.
func (r *orderRepository) TransitionStatus(id string, from []model.OrderStatus, updates map[string]interface{}) (bool, error) {
	logger.Debug("Transitioning order status in database", map[string]interface{}{
		"id":      id,
		"from":    from,
		"updates": updates,
	})

	result := r.db.Model(&model.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to transition order status in database", result.Error, map[string]interface{}{
			"id": id,
		})
		return false, result.Error
	}

	logger.Debug("Order status transition applied", map[string]interface{}{
		"id":            id,
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected == 1, nil
}

func (r *orderRepository) UpdateCustomerEmail(id, email string) error {
	logger.Debug("Updating order customer email in database", map[string]interface{}{
		"id": id,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("customer_email", email).Error; err != nil {
		logger.Error("Failed to update order customer email in database", err, map[string]interface{}{
			"id": id,
		})
		return err
	}
	return nil
}

func (r *orderRepository) Delete(id string) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.Order{})
	if result.Error != nil {
		logger.Error("Failed to delete order from database", result.Error, map[string]interface{}{
			"id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Order deleted from database", map[string]interface{}{
		"id": id,
	})
	return nil
}

func (r *orderRepository) FindPendingCreatedBefore(cutoff time.Time) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Where("status = ? AND created_at < ?", model.OrderStatusPending, cutoff).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find stale pending orders", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return nil, err
	}

	logger.Debug("Stale pending orders found", map[string]interface{}{
		"cutoff": cutoff,
		"count":  len(orders),
	})
	return orders, nil
}

func (r *orderRepository) DeleteShippedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("status = ? AND shipped_at < ?", model.OrderStatusShipped, cutoff).
		Delete(&model.Order{})
	if result.Error != nil {
		logger.Error("Failed to delete old shipped orders", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	logger.Debug("Old shipped orders deleted", map[string]interface{}{
		"cutoff": cutoff,
		"count":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *orderRepository) FindRecentPaidDonations(limit int) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Where("order_type = ? AND status IN ?", model.OrderTypeDonation,
		[]model.OrderStatus{model.OrderStatusPaid, model.OrderStatusShipped}).
		Order("paid_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find recent donations", err, nil)
		return nil, err
	}
	return orders, nil
}
