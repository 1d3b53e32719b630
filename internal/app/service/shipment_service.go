package service

import (
	"errors"
	"strings"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/chengtian/temple-backend/pkg/util"
)

var ErrInvalidShipment = errors.New("invalid shipment")

const (
	pickupBusinessDays = 2
	listWindowBefore   = 1 // days before today
	listWindowAfter    = 5 // days after today
)

type SubmitShipmentInput struct {
	Name      string
	BirthYear string
	LineGroup string
	LineName  string
	Clothes   []model.ClothingItem
}

// PublicShipment is a masked entry of the pickup board.
type PublicShipment struct {
	Name       string               `json:"name"`
	LineGroup  string               `json:"lineGroup"`
	Clothes    []model.ClothingItem `json:"clothes"`
	SubmitDate string               `json:"submitDate"`
	PickupDate string               `json:"pickupDate"`
}

type ShipmentService interface {
	// PickupDate is today plus two business days in the site timezone.
	PickupDate() time.Time
	Submit(input SubmitShipmentInput) (*model.Shipment, error)
	ListWindow() ([]PublicShipment, error)
	ListAll() ([]model.Shipment, error)
}

type shipmentService struct {
	shipmentRepo repository.ShipmentRepository
	events       EventPublisher
	loc          *time.Location
	now          func() time.Time
}

func NewShipmentService(shipmentRepo repository.ShipmentRepository, events EventPublisher, loc *time.Location) ShipmentService {
	return &shipmentService{
		shipmentRepo: shipmentRepo,
		events:       publisherOrNop(events),
		loc:          loc,
		now:          time.Now,
	}
}

func (s *shipmentService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

func (s *shipmentService) PickupDate() time.Time {
	return util.AddBusinessDays(s.today(), pickupBusinessDays)
}

func (s *shipmentService) Submit(input SubmitShipmentInput) (*model.Shipment, error) {
	if strings.TrimSpace(input.Name) == "" || len(input.Clothes) == 0 {
		return nil, ErrInvalidShipment
	}
	clothes := make([]model.ClothingItem, 0, len(input.Clothes))
	for _, item := range input.Clothes {
		item.ID = strings.TrimSpace(item.ID)
		item.Owner = strings.TrimSpace(item.Owner)
		if item.ID == "" {
			return nil, ErrInvalidShipment
		}
		clothes = append(clothes, item)
	}

	today := s.today()
	shipment := &model.Shipment{
		Name:       strings.TrimSpace(input.Name),
		BirthYear:  strings.TrimSpace(input.BirthYear),
		LineGroup:  strings.TrimSpace(input.LineGroup),
		LineName:   strings.TrimSpace(input.LineName),
		Clothes:    clothes,
		SubmitDate: today.Format(model.DateLayout),
		PickupDate: util.AddBusinessDays(today, pickupBusinessDays).Format(model.DateLayout),
		CreatedAt:  s.now().UTC(),
	}

	if err := s.shipmentRepo.Create(shipment); err != nil {
		return nil, err
	}

	logger.Info("Clothes return booked", map[string]interface{}{
		"id":          shipment.ID,
		"pickup_date": shipment.PickupDate,
		"clothes":     len(shipment.Clothes),
	})
	s.events.Publish(EventShipmentCreated, map[string]interface{}{
		"_id":        shipment.ID,
		"pickupDate": shipment.PickupDate,
		"clothes":    len(shipment.Clothes),
	})
	return shipment, nil
}

// ListWindow returns bookings picked up between yesterday and five days out,
// with every name masked.
func (s *shipmentService) ListWindow() ([]PublicShipment, error) {
	today := s.today()
	from := today.AddDate(0, 0, -listWindowBefore).Format(model.DateLayout)
	to := today.AddDate(0, 0, listWindowAfter).Format(model.DateLayout)

	shipments, err := s.shipmentRepo.FindPickupBetween(from, to)
	if err != nil {
		return nil, err
	}

	result := make([]PublicShipment, 0, len(shipments))
	for _, sh := range shipments {
		clothes := make([]model.ClothingItem, 0, len(sh.Clothes))
		for _, item := range sh.Clothes {
			clothes = append(clothes, model.ClothingItem{ID: item.ID, Owner: util.MaskName(item.Owner)})
		}
		result = append(result, PublicShipment{
			Name:       util.MaskName(sh.Name),
			LineGroup:  sh.LineGroup,
			Clothes:    clothes,
			SubmitDate: sh.SubmitDate,
			PickupDate: sh.PickupDate,
		})
	}
	return result, nil
}

func (s *shipmentService) ListAll() ([]model.Shipment, error) {
	return s.shipmentRepo.ListAll()
}
