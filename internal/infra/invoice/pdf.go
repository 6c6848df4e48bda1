package invoice

import (
	"bytes"
	"fmt"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Rendererは注文の請求書PDFを作る
type Renderer struct {
	shopName string
}

func NewRenderer(shopName string) *Renderer {
	return &Renderer{shopName: shopName}
}

func (r *Renderer) Render(order model.Order, items []model.OrderItem, customerName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", order.OrderNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.shopName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Invoice", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	line := func(label, value string) {
		pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}
	line("Order No.", order.OrderNumber)
	line("Order ID", fmt.Sprintf("%d", order.ID))
	line("Date", order.CreatedAt.Format("2006-01-02"))
	line("Status", string(order.Status))
	line("Customer", customerName)
	if order.PhoneNumber != "" {
		line("Phone", order.PhoneNumber)
	}
	line("Ship to", order.ShippingAddr)
	line("", fmt.Sprintf("%s %s %s", order.City, order.State, order.Pincode))
	pdf.Ln(4)

	//明細
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	total := decimal.Zero
	for _, it := range items {
		sub := it.Subtotal()
		total = total.Add(sub)
		pdf.CellFormat(90, 7, it.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, it.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, sub.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, total.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Thank you for your purchase.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
