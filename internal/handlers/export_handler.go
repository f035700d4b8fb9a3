package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"stock-service/internal/repository"
)

// ExportHandler exports the movement ledger and stock list as spreadsheets
type ExportHandler struct {
	repo repository.StockRepository
}

func NewExportHandler(repo repository.StockRepository) *ExportHandler {
	return &ExportHandler{repo: repo}
}

const exportRowLimit = 10000

// ExportMovements writes the society's movement ledger as an XLSX download
func (h *ExportHandler) ExportMovements(c *gin.Context) {
	_, societyID := principal(c)

	movements, _, err := h.repo.ListMovements(c.Request.Context(), societyID, 1, exportRowLimit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	const sheetName = "Movements"
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	headers := []string{"Timestamp", "Item", "Type", "Quantity", "Moved By", "Drawer", "Notes"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for rowIdx, movement := range movements {
		itemName := ""
		if movement.StockItem != nil {
			itemName = movement.StockItem.Name
		}
		movedBy := ""
		if movement.MovedBy != nil {
			movedBy = movement.MovedBy.Username
		}
		drawer := ""
		if movement.Drawer != nil {
			drawer = movement.Drawer.Label()
		}

		values := []interface{}{
			movement.Timestamp.Format(time.RFC3339),
			itemName,
			string(movement.MovementType),
			movement.Quantity,
			movedBy,
			drawer,
			movement.Notes,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=movements_%s.xlsx", time.Now().Format("2006-01-02")))

	if err := f.Write(c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to write export file")
	}
}

// ExportStockItems writes the society's stock list as an XLSX download
func (h *ExportHandler) ExportStockItems(c *gin.Context) {
	_, societyID := principal(c)

	items, _, err := h.repo.ListItems(c.Request.Context(), societyID, false, 0, 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	const sheetName = "Stock"
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	headers := []string{"Name", "Kind", "Current Quantity", "Minimum Quantity", "Unit", "Location", "Active"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for rowIdx, item := range items {
		kindName := ""
		if item.Kind != nil {
			kindName = item.Kind.Name
		}

		values := []interface{}{
			item.Name,
			kindName,
			item.CurrentQuantity,
			item.MinimumQuantity,
			item.Unit,
			item.LocationDescription,
			item.IsActive,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=stock_items_%s.xlsx", time.Now().Format("2006-01-02")))

	if err := f.Write(c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to write export file")
	}
}
