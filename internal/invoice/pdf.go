package invoice

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/ianferguson/contracting-hours/internal/models"
)

// PDFRenderer renders invoices with gofpdf on A4 portrait pages.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(ctx Context, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Company header
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, ctx.CompanyName)
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 6, ctx.Address)
	pdf.Ln(5)
	pdf.Cell(40, 6, fmt.Sprintf("%s | %s", ctx.Phone, ctx.Email))
	pdf.Ln(12)

	// Invoice metadata
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(40, 8, fmt.Sprintf("Invoice %s", ctx.InvoiceNumber))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 6, fmt.Sprintf("Billed To: %s", ctx.ClientName))
	pdf.Ln(6)
	pdf.Cell(40, 6, fmt.Sprintf("Invoice Date: %s", ctx.Date))
	pdf.Ln(6)
	pdf.Cell(40, 6, fmt.Sprintf("Billing Period: %s", ctx.BillingPeriod))
	pdf.Ln(6)
	pdf.Cell(40, 6, fmt.Sprintf("Due Date: %s", ctx.DueDate))
	pdf.Ln(10)

	// Line item table, one row per aggregated category
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Hours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Rate", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, category := range ctx.Items.Categories() {
		hours := ctx.Items[category]
		amount := hours.Mul(ctx.HourlyRate)

		pdf.CellFormat(90, 7, category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, hours.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, formatMoney(ctx.HourlyRate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, formatMoney(amount), "1", 1, "R", false, 0, "")
	}

	// Totals
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(150, 8, "Subtotal:")
	pdf.CellFormat(40, 8, formatMoney(ctx.Subtotal), "", 1, "R", false, 0, "")

	if !ctx.TaxRate.IsZero() {
		pdf.Cell(150, 8, fmt.Sprintf("Tax (%s%%):", ctx.TaxRate.String()))
		pdf.CellFormat(40, 8, formatMoney(ctx.Total.Sub(ctx.Subtotal)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(150, 10, "Total:")
	pdf.CellFormat(40, 10, formatMoney(ctx.Total), "", 1, "R", false, 0, "")

	// Payment details
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 6, fmt.Sprintf("Payment Method: %s", ctx.PaymentMethod))

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("%w: %v", models.ErrRenderFailed, err)
	}
	return nil
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
