package opname

import (
	"fmt"
	"time"

	"opname-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	RowStatusMatch     = "MATCH"
	RowStatusMismatch  = "MISMATCH"
	RowStatusUncounted = "UNCOUNTED"
)

// ReportRow pairs one master-list product with its count entry for the
// session, if any. Variance is counted minus system stock: positive means
// surplus on the shelf, negative means shortage.
type ReportRow struct {
	ProductID   uint   `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	SystemStock int    `json:"system_stock"`
	QtyActual   *int   `json:"qty_actual"`
	Notes       string `json:"notes"`
	CountedAt   string `json:"counted_at,omitempty"`
	Status      string `json:"status"`
	Variance    *int   `json:"variance"`
}

type ReportSummary struct {
	TotalProducts int `json:"total_products"`
	Counted       int `json:"counted"`
	Matched       int `json:"matched"`
	Mismatched    int `json:"mismatched"`
	Uncounted     int `json:"uncounted"`
}

type ReportResponse struct {
	Session SessionResponse `json:"session"`
	Rows    []ReportRow     `json:"rows"`
	Summary ReportSummary   `json:"summary"`
}

// reportRowScan is the flat shape of the products LEFT JOIN entries query.
// Entry columns are pointers: nil means the product has no count yet.
type reportRowScan struct {
	ProductID   uint
	SKU         string
	ProductName string
	SystemStock int
	EntryID     *uint
	QtyActual   *int
	Notes       *string
	CountedAt   *time.Time
}

// buildReport returns one row per product in the master list, whether or
// not it has been counted in this session, ordered by product name.
func buildReport(sessionID int) ([]ReportRow, ReportSummary, error) {
	var scans []reportRowScan
	err := database.DB.Table("products").
		Select(`products.id AS product_id,
			products.sku AS sku,
			products.name AS product_name,
			products.system_stock AS system_stock,
			opname_entries.id AS entry_id,
			opname_entries.qty_actual AS qty_actual,
			opname_entries.notes AS notes,
			opname_entries.updated_at AS counted_at`).
		Joins(`LEFT JOIN opname_entries
			ON opname_entries.product_id = products.id
			AND opname_entries.session_id = ?`, sessionID).
		Order("products.name asc").
		Scan(&scans).Error
	if err != nil {
		return nil, ReportSummary{}, err
	}

	rows := make([]ReportRow, 0, len(scans))
	summary := ReportSummary{TotalProducts: len(scans)}
	for _, s := range scans {
		row := ReportRow{
			ProductID:   s.ProductID,
			SKU:         s.SKU,
			ProductName: s.ProductName,
			SystemStock: s.SystemStock,
			Status:      RowStatusUncounted,
		}
		if s.EntryID != nil && s.QtyActual != nil {
			qty := *s.QtyActual
			variance := qty - s.SystemStock
			row.QtyActual = &qty
			row.Variance = &variance
			if s.Notes != nil {
				row.Notes = *s.Notes
			}
			if s.CountedAt != nil {
				row.CountedAt = s.CountedAt.Format("2006-01-02 15:04:05")
			}
			summary.Counted++
			if variance == 0 {
				row.Status = RowStatusMatch
				summary.Matched++
			} else {
				row.Status = RowStatusMismatch
				summary.Mismatched++
			}
		} else {
			summary.Uncounted++
		}
		rows = append(rows, row)
	}

	return rows, summary, nil
}

// GET /api/sessions/:id/report
// Recomputed from the live tables on every call; nothing derived is stored.
func GetSessionReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}
		s, err := findSession(id)
		if err != nil {
			return err
		}

		rows, summary, err := buildReport(id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build session report")
		}

		return c.JSON(ReportResponse{
			Session: toSessionResponse(*s),
			Rows:    rows,
			Summary: summary,
		})
	}
}

// GET /api/sessions/:id/report/export
// Same rows as the report endpoint, rendered as an .xlsx download.
func ExportSessionReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}
		s, err := findSession(id)
		if err != nil {
			return err
		}

		rows, _, err := buildReport(id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build session report")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		headers := []string{"SKU", "Product", "System Stock", "Counted", "Variance", "Status", "Notes"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, row := range rows {
			rowNum := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.SKU)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.ProductName)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.SystemStock)
			if row.QtyActual != nil {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), *row.QtyActual)
			}
			if row.Variance != nil {
				f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), *row.Variance)
			}
			f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.Status)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.Notes)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write report file")
		}

		filename := fmt.Sprintf("opname-session-%d.xlsx", s.ID)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
