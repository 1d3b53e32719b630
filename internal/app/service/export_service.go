package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// utf8BOM makes Excel open the CSV exports as UTF-8.
const utf8BOM = "\uFEFF"

var orderExportHeader = []string{
	"訂單編號", "類型", "狀態", "姓名", "電話", "Email", "地址", "帳號末五碼",
	"農曆生日", "祈願", "品項", "總金額", "建立時間", "付款時間", "出貨時間", "物流單號",
}

var shipmentExportHeader = []string{
	"姓名", "出生年", "LINE 群組", "LINE 名稱", "衣物", "送件日期", "取件日期",
}

type ExportService interface {
	// Filename builds "<kind>_<yyyyMMdd>.<ext>" in the site timezone.
	Filename(kind, ext string) string
	WriteOrdersCSV(w io.Writer, filter repository.OrderFilter) error
	WriteOrdersXLSX(w io.Writer, filter repository.OrderFilter) error
	WriteShipmentsCSV(w io.Writer) error
	// WriteUnmarkedFeedback lists approved entries not yet handled, for gift mailing.
	WriteUnmarkedFeedback(w io.Writer) (int, error)
}

type exportService struct {
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	feedbackRepo repository.FeedbackRepository
	loc          *time.Location
	now          func() time.Time
}

func NewExportService(
	orderRepo repository.OrderRepository,
	shipmentRepo repository.ShipmentRepository,
	feedbackRepo repository.FeedbackRepository,
	loc *time.Location,
) ExportService {
	return &exportService{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		feedbackRepo: feedbackRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *exportService) Filename(kind, ext string) string {
	return fmt.Sprintf("%s_%s.%s", kind, s.now().In(s.loc).Format("20060102"), ext)
}

func (s *exportService) formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(s.loc).Format("2006/01/02 15:04")
}

func (s *exportService) orderRows(filter repository.OrderFilter) ([][]string, error) {
	orders, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			label := item.Name
			if item.Variant != "" {
				label += "(" + item.Variant + ")"
			}
			items = append(items, fmt.Sprintf("%s x%d", label, item.Qty))
		}
		createdAt := o.CreatedAt
		rows = append(rows, []string{
			o.OrderID,
			string(o.OrderType),
			string(o.Status),
			o.Customer.Name,
			o.Customer.Phone,
			o.Customer.Email,
			o.Customer.Address,
			o.Customer.Last5,
			o.Customer.LunarBirthday,
			o.Customer.Prayer,
			strings.Join(items, "; "),
			o.Total.StringFixed(0),
			s.formatTime(&createdAt),
			s.formatTime(o.PaidAt),
			s.formatTime(o.ShippedAt),
			o.TrackingNumber,
		})
	}
	return rows, nil
}

// csvCell keeps spreadsheet apps from evaluating visitor text as a formula.
func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = csvCell(v)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) WriteOrdersCSV(w io.Writer, filter repository.OrderFilter) error {
	rows, err := s.orderRows(filter)
	if err != nil {
		return err
	}

	logger.Info("Exporting orders as CSV", map[string]interface{}{
		"count": len(rows),
	})
	return writeCSV(w, orderExportHeader, rows)
}

func (s *exportService) WriteOrdersXLSX(w io.Writer, filter repository.OrderFilter) error {
	rows, err := s.orderRows(filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "訂單"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	write := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := write(1, orderExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, values := range rows {
		if err := write(i+2, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	logger.Info("Exporting orders as XLSX", map[string]interface{}{
		"count": len(rows),
	})
	_, err = f.WriteTo(w)
	return err
}

func (s *exportService) WriteShipmentsCSV(w io.Writer) error {
	shipments, err := s.shipmentRepo.ListAll()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(shipments))
	for _, sh := range shipments {
		clothes := make([]string, 0, len(sh.Clothes))
		for _, item := range sh.Clothes {
			clothes = append(clothes, item.ID+":"+item.Owner)
		}
		rows = append(rows, []string{
			sh.Name,
			sh.BirthYear,
			sh.LineGroup,
			sh.LineName,
			strings.Join(clothes, "; "),
			sh.SubmitDate,
			sh.PickupDate,
		})
	}

	logger.Info("Exporting shipments as CSV", map[string]interface{}{
		"count": len(rows),
	})
	return writeCSV(w, shipmentExportHeader, rows)
}

func (s *exportService) WriteUnmarkedFeedback(w io.Writer) (int, error) {
	items, err := s.feedbackRepo.FindApprovedUnmarked()
	if err != nil {
		return 0, err
	}

	var b strings.Builder
	for i, f := range items {
		fmt.Fprintf(&b, "%d. 【%s】\n", i+1, f.FeedbackID)
		fmt.Fprintf(&b, "暱稱：%s\n", f.Nickname)
		fmt.Fprintf(&b, "姓名：%s\n", f.RealName)
		fmt.Fprintf(&b, "電話：%s\n", f.Phone)
		fmt.Fprintf(&b, "地址：%s\n", f.Address)
		fmt.Fprintf(&b, "Email：%s\n", f.Email)
		fmt.Fprintf(&b, "分類：%s\n", strings.Join(f.Category, "、"))
		fmt.Fprintf(&b, "核准時間：%s\n", s.formatTime(f.ApprovedAt))
		fmt.Fprintf(&b, "內容：\n%s\n", f.Content)
		b.WriteString("----------------------------------------\n")
	}
	if len(items) == 0 {
		b.WriteString("目前沒有待處理的回饋\n")
	} else {
		b.WriteString("共 " + strconv.Itoa(len(items)) + " 筆\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, err
	}
	return len(items), nil
}
