package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportExportHandler moves data in and out as spreadsheets: URL lists
// come in as .xlsx uploads, the ledger goes out as .xlsx or .csv.
type ImportExportHandler struct {
	DB *gorm.DB
}

func NewImportExportHandler(db *gorm.DB) *ImportExportHandler {
	return &ImportExportHandler{DB: db}
}

// ---------- URL import ----------

// ImportUrlsXLSX reads the first column of the first sheet of an
// uploaded workbook and feeds the addresses into the same atomic
// insert-and-count path as the JSON bulk add.
func (h *ImportExportHandler) ImportUrlsXLSX(c *gin.Context) {
	domainName := c.Param("domainName")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, "failed to open upload")
		return
	}
	defer file.Close()

	wb, err := excelize.OpenReader(file)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "file is not a valid xlsx workbook")
		return
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows, err := wb.GetRows(sheet)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "failed to read worksheet")
		return
	}

	var addresses []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		// skip header rows and stray values
		if !strings.HasPrefix(cell, "http://") && !strings.HasPrefix(cell, "https://") && !strings.HasPrefix(cell, "/") {
			continue
		}
		addresses = append(addresses, cell)
	}
	if len(addresses) == 0 {
		util.Error(c, http.StatusBadRequest, "no urls found in the first column")
		return
	}

	var added []models.Url
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		added, err = insertUrls(tx, domainName, addresses)
		return err
	})
	switch {
	case err == errSiteNotFound:
		util.Error(c, http.StatusNotFound, "site not found")
		return
	case err != nil:
		util.Error(c, http.StatusInternalServerError, "failed to import urls")
		return
	}

	util.JSON(c, http.StatusOK, gin.H{
		"imported": len(added),
		"domain":   domainName,
	})
}

// ---------- ledger export ----------

func (h *ImportExportHandler) userEntries(c *gin.Context) ([]models.BalanceEntry, bool) {
	user := currentUserOrAbort(c)
	if user == nil {
		return nil, false
	}

	var entries []models.BalanceEntry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load entries")
		return nil, false
	}
	return entries, true
}

var exportHeaders = []string{"Kind", "Category", "Amount", "Date", "Installments", "Recurring", "Completed", "Note"}

func exportRow(e *models.BalanceEntry) []string {
	return []string{
		e.Kind,
		e.Category,
		e.Amount.StringFixed(2),
		e.Date.Format("2006-01-02"),
		fmt.Sprintf("%d", e.TotalInstallments),
		fmt.Sprintf("%t", e.IsRecurring),
		fmt.Sprintf("%t", e.IsCompleted),
		e.Note,
	}
}

// ExportBalancesCSV streams the caller's ledger as CSV.
func (h *ImportExportHandler) ExportBalancesCSV(c *gin.Context) {
	entries, ok := h.userEntries(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"balances_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeaders)
	for i := range entries {
		_ = writer.Write(exportRow(&entries[i]))
	}
}

// ExportBalancesXLSX streams the caller's ledger as a workbook.
func (h *ImportExportHandler) ExportBalancesXLSX(c *gin.Context) {
	entries, ok := h.userEntries(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Balances"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create worksheet")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, hdr := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, hdr)
	}
	for idx := range entries {
		row := exportRow(&entries[idx])
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "D", 14)
	_ = f.SetColWidth(sheetName, "H", "H", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"balances_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to write workbook")
	}
}
