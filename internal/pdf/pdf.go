package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/01walid/goarabic"
	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// Receipt page geometry, in points. The width matches an 80mm thermal roll;
// the height grows with the number of order lines.
const (
	receiptWidth      = 164.0
	receiptBaseHeight = 100.0
	receiptLineHeight = 48.0
)

// ReceiptLine is one order line on a receipt
type ReceiptLine struct {
	ItemName  string
	Quantity  int
	UnitPrice float64
	Discount  float64
}

// ReceiptData is everything a receipt needs to render
type ReceiptData struct {
	Date         time.Time
	LiraRate     int
	CustomerName string
	DriverName   string
	AgentName    string
	Lines        []ReceiptLine
}

// Renderer produces the PDF documents. fontPath points to a TTF file with
// Arabic glyph coverage; when empty the built-in Helvetica is used, which
// only covers Latin text.
type Renderer struct {
	fontPath string
}

// NewRenderer creates a renderer using the given TTF font file
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// shape prepares text for right-to-left rendering: Arabic letters are
// substituted with their contextual glyph forms, then the string is reversed
// so a left-to-right text engine draws it in reading order.
func shape(s string) string {
	return goarabic.Reverse(goarabic.ToGlyph(s))
}

func (r *Renderer) font(doc *fpdf.Fpdf) string {
	if r.fontPath == "" {
		return "Helvetica"
	}
	doc.AddUTF8Font("receipt", "", r.fontPath)
	return "receipt"
}

// drawRight draws a string with its right edge at x
func drawRight(doc *fpdf.Fpdf, x, y float64, s string) {
	doc.Text(x-doc.GetStringWidth(s), y, s)
}

// Receipt renders a thermal receipt for the orders of one address and day
func (r *Renderer) Receipt(data ReceiptData) ([]byte, error) {
	height := receiptBaseHeight + receiptLineHeight*float64(len(data.Lines))
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	doc.SetAutoPageBreak(false, 0)
	family := r.font(doc)
	doc.AddPage()

	right := receiptWidth - 8.0
	y := 16.0

	doc.SetFont(family, "", 9)
	drawRight(doc, right, y, shape("ألو غاز"))
	y += 12

	doc.SetFont(family, "", 7)
	drawRight(doc, right, y, data.Date.Format("02/01/2006"))
	y += 10
	drawRight(doc, right, y, shape("الزبون: ")+shape(data.CustomerName))
	y += 10
	drawRight(doc, right, y, shape("السائق: ")+shape(data.DriverName))
	y += 10
	drawRight(doc, right, y, shape("الموظف: ")+shape(data.AgentName))
	y += 14

	total := 0.0
	for _, line := range data.Lines {
		lineTotal := float64(line.Quantity) * line.UnitPrice * (1 - line.Discount/100)
		total += lineTotal

		drawRight(doc, right, y, shape(line.ItemName))
		y += 11
		drawRight(doc, right, y, fmt.Sprintf("%d x %.2f$", line.Quantity, line.UnitPrice))
		y += 11
		if line.Discount > 0 {
			drawRight(doc, right, y, fmt.Sprintf("%.0f%% -", line.Discount))
			y += 11
		}
		drawRight(doc, right, y, fmt.Sprintf("= %.2f$", lineTotal))
		y += 15
	}

	doc.SetFont(family, "", 8)
	drawRight(doc, right, y, fmt.Sprintf("%s %.2f$", shape("المجموع:"), total))
	y += 11
	lira := total * float64(data.LiraRate)
	drawRight(doc, right, y, fmt.Sprintf("%s %.0f LBP", shape("بالليرة:"), lira))

	return output(doc)
}

// SalesSummary renders the yearly per-item sales report on A4
func (r *Renderer) SalesSummary(year int, rows []models.SalesSummaryRow) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	family := r.font(doc)
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	right := pageWidth - 40.0
	y := 50.0

	doc.SetFont(family, "", 14)
	drawRight(doc, right, y, fmt.Sprintf("%s %d", shape("تقرير المبيعات لسنة"), year))
	y += 30

	doc.SetFont(family, "", 10)
	drawRight(doc, right, y, shape("المنتج"))
	drawRight(doc, right-220, y, shape("الكمية"))
	drawRight(doc, right-340, y, shape("المجموع"))
	y += 8
	doc.Line(40, y, right, y)
	y += 16

	for _, row := range rows {
		if y > 790 {
			doc.AddPage()
			y = 50.0
		}
		drawRight(doc, right, y, shape(row.ItemName))
		drawRight(doc, right-220, y, fmt.Sprintf("%d", row.TotalQuantity))
		drawRight(doc, right-340, y, fmt.Sprintf("%.2f$", row.TotalSales))
		y += 16
	}

	return output(doc)
}

func output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render pdf")
	}
	return buf.Bytes(), nil
}
