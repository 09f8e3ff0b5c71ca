package infra

// pdf.go: inventory export rendered with go-pdf/fpdf.
// A4 landscape table: serial, name, category, quantity, price, value,
// with a totals row and a page footer.

import (
	"bytes"
	"fmt"
	"time"

	"github.com/nb2912/inventory/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

type pdfColumn struct {
	title string
	width float64
	align string
}

var inventoryColumns = []pdfColumn{
	{"Serial No", 45, "L"},
	{"Name", 85, "L"},
	{"Category", 45, "L"},
	{"Quantity", 30, "R"},
	{"Price", 32, "R"},
	{"Value", 40, "R"},
}

// GenerateInventoryPDF renders the items table as a PDF document.
func GenerateInventoryPDF(items []model.Item, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Inventory Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range inventoryColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	// ── Rows ─────────────────────────────────────────────────────────────────
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	totalQty := 0
	totalValue := decimal.Zero
	_, pageH := pdf.GetPageSize()
	for _, it := range items {
		if pdf.GetY() > pageH-25 {
			pdf.AddPage()
			header()
		}
		category := ""
		if it.Category != nil {
			category = *it.Category
		}
		value := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		totalQty += it.Quantity
		totalValue = totalValue.Add(value)

		cells := []string{
			tr(it.SerialNo),
			tr(truncate(it.Name, 48)),
			tr(truncate(category, 24)),
			fmt.Sprintf("%d", it.Quantity),
			it.Price.StringFixed(2),
			value.StringFixed(2),
		}
		for i, c := range inventoryColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	lead := inventoryColumns[0].width + inventoryColumns[1].width + inventoryColumns[2].width
	pdf.CellFormat(lead, 7, fmt.Sprintf("Total (%d items)", len(items)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(inventoryColumns[3].width, 7, fmt.Sprintf("%d", totalQty), "1", 0, "R", false, 0, "")
	pdf.CellFormat(inventoryColumns[4].width, 7, "", "1", 0, "R", false, 0, "")
	pdf.CellFormat(inventoryColumns[5].width, 7, totalValue.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render inventory: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
