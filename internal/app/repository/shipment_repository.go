package repository

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShipmentRepository interface {
	Create(shipment *model.Shipment) error
	// FindPickupBetween takes inclusive YYYY-MM-DD bounds.
	FindPickupBetween(from, to string) ([]model.Shipment, error)
	ListAll() ([]model.Shipment, error)
}

type shipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) Create(shipment *model.Shipment) error {
	logger.Debug("Creating shipment in database", map[string]interface{}{
		"submit_date": shipment.SubmitDate,
		"pickup_date": shipment.PickupDate,
		"clothes":     len(shipment.Clothes),
	})

	if err := r.db.Create(shipment).Error; err != nil {
		logger.Error("Failed to create shipment in database", err, nil)
		return err
	}

	logger.Debug("Shipment created in database", map[string]interface{}{
		"id": shipment.ID,
	})
	return nil
}

func (r *shipmentRepository) FindPickupBetween(from, to string) ([]model.Shipment, error) {
	var shipments []model.Shipment
	if err := r.db.Where("pickup_date >= ? AND pickup_date <= ?", from, to).
		Order("pickup_date ASC, created_at ASC").
		Find(&shipments).Error; err != nil {
		logger.Error("Failed to find shipments by pickup date", err, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return nil, err
	}

	logger.Debug("Shipments found by pickup date", map[string]interface{}{
		"from":  from,
		"to":    to,
		"count": len(shipments),
	})
	return shipments, nil
}

func (r *shipmentRepository) ListAll() ([]model.Shipment, error) {
	var shipments []model.Shipment
	if err := r.db.Order("created_at DESC").Find(&shipments).Error; err != nil {
		logger.Error("Failed to list shipments", err, nil)
		return nil, err
	}
	return shipments, nil
}
