package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/service"
	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeText = "text/plain; charset=utf-8"
)

// ExportController streams admin downloads. Each file is rendered into memory
// first so a failure can still answer with a JSON error.
type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

func (ctrl *ExportController) attach(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

// ExportOrders GET /api/orders/export?format=csv|xlsx&status=&type=
func (ctrl *ExportController) ExportOrders(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		if err := ctrl.exportService.WriteOrdersCSV(&buf, filter); err != nil {
			respondError(c, err, "Export orders")
			return
		}
		ctrl.attach(c, ctrl.exportService.Filename("orders", "csv"), contentTypeCSV, buf.Bytes())
	case "xlsx":
		if err := ctrl.exportService.WriteOrdersXLSX(&buf, filter); err != nil {
			respondError(c, err, "Export orders")
			return
		}
		ctrl.attach(c, ctrl.exportService.Filename("orders", "xlsx"), contentTypeXLSX, buf.Bytes())
	default:
		apperrors.BadRequest(c, "")
	}
}

// ExportShipments GET /api/shipclothes/export
func (ctrl *ExportController) ExportShipments(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.exportService.WriteShipmentsCSV(&buf); err != nil {
		respondError(c, err, "Export shipments")
		return
	}
	ctrl.attach(c, ctrl.exportService.Filename("shipments", "csv"), contentTypeCSV, buf.Bytes())
}

// ExportUnmarkedFeedback GET /api/feedback/export-unmarked
func (ctrl *ExportController) ExportUnmarkedFeedback(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := ctrl.exportService.WriteUnmarkedFeedback(&buf); err != nil {
		respondError(c, err, "Export feedback")
		return
	}
	ctrl.attach(c, ctrl.exportService.Filename("feedback", "txt"), contentTypeText, buf.Bytes())
}
