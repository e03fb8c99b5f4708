package delivery

import (
	"fmt"
	"io"
	"time"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{"ID", "Name", "Slug", "Description", "Price", "CategoryID", "Category", "Rating", "ImageURL"}

// writeProductsXLSX renders rows as a single "Products" sheet.
func writeProductsXLSX(w io.Writer, rows []usecase.ProductExportRow) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("could not create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, r := range rows {
		p := r.Product
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.CategoryID)
		row.AddCell().SetValue(r.CategoryName)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.ImageURL)
	}

	return file.Write(w)
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	rows, err := h.useCase.ExportProducts(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, h.log, "export products", err)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := writeProductsXLSX(c.Writer, rows); err != nil {
		h.log.Errorf("Handler: Failed to write product export: %v", err)
		_ = c.Error(err)
		return
	}
	h.log.Infof("Handler: Exported %d products", len(rows))
}
