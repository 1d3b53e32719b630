package controller

import (
	"net/http"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// ShipmentController handles clothes-return bookings and the captcha guarding them.
type ShipmentController struct {
	shipmentService service.ShipmentService
	captchaService  service.CaptchaService
}

func NewShipmentController(shipmentService service.ShipmentService, captchaService service.CaptchaService) *ShipmentController {
	return &ShipmentController{
		shipmentService: shipmentService,
		captchaService:  captchaService,
	}
}

type SubmitShipmentRequest struct {
	Name      string               `json:"name"`
	BirthYear string               `json:"birthYear"`
	LineGroup string               `json:"lineGroup"`
	LineName  string               `json:"lineName"`
	Clothes   []model.ClothingItem `json:"clothes"`
	Captcha   string               `json:"captcha"`
}

// Captcha issues an arithmetic challenge bound to the session
// GET /api/captcha
func (ctrl *ShipmentController) Captcha(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	question, err := ctrl.captchaService.Issue(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "Issue captcha")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"question": question})
}

// CalcDate GET /api/shipclothes/calc-date
func (ctrl *ShipmentController) CalcDate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pickupDate": util.FormatPickupDate(ctrl.shipmentService.PickupDate()),
	})
}

// Submit books a pickup after the captcha checks out. The stored answer is
// consumed whether or not it matches.
// POST /api/shipclothes
func (ctrl *ShipmentController) Submit(c *gin.Context) {
	var req SubmitShipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	if err := ctrl.captchaService.Verify(c.Request.Context(), sess, req.Captcha); err != nil {
		respondError(c, err, "Verify captcha")
		return
	}

	shipment, err := ctrl.shipmentService.Submit(service.SubmitShipmentInput{
		Name:      req.Name,
		BirthYear: req.BirthYear,
		LineGroup: req.LineGroup,
		LineName:  req.LineName,
		Clothes:   req.Clothes,
	})
	if err != nil {
		respondError(c, err, "Submit shipment")
		return
	}

	pickup := shipment.PickupDate
	if t, err := time.Parse(model.DateLayout, shipment.PickupDate); err == nil {
		pickup = util.FormatPickupDate(t)
	}

	middleware.GetLoggerFromContext(c).Info("Shipment submitted", map[string]interface{}{
		"shipment_id": shipment.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"pickupDate": pickup,
	})
}

// ListWindow returns the masked pickup board
// GET /api/shipclothes/list
func (ctrl *ShipmentController) ListWindow(c *gin.Context) {
	shipments, err := ctrl.shipmentService.ListWindow()
	if err != nil {
		respondError(c, err, "List shipments")
		return
	}
	c.JSON(http.StatusOK, shipments)
}

// ListAll GET /api/shipclothes
func (ctrl *ShipmentController) ListAll(c *gin.Context) {
	shipments, err := ctrl.shipmentService.ListAll()
	if err != nil {
		respondError(c, err, "List shipments")
		return
	}
	c.JSON(http.StatusOK, shipments)
}
