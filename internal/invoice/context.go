// Package invoice assembles the render context for a single invoice and
// defines the renderer boundary. The renderer is trusted to produce a
// valid PDF; any failure it reports means no PDF was produced.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/models"
)

const (
	// DefaultPaymentMethod is used when a client profile doesn't name one.
	DefaultPaymentMethod = "Bank Transfer"

	// invoiceDateFormat matches the format used on the printed invoice,
	// e.g. JAN 13, 2025 after uppercasing.
	invoiceDateFormat = "Jan 02, 2006"

	dueDateDays = 30
)

// Context is the immutable input to a single invoice render.
type Context struct {
	CompanyName   string
	Address       string
	Phone         string
	Email         string
	InvoiceNumber string
	ClientName    string
	HourlyRate    decimal.Decimal
	Date          string
	BillingPeriod string
	DueDate       string
	Items         models.CategoryTotals
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
}

// Renderer turns a render context into a PDF file at the given path.
type Renderer interface {
	Render(ctx Context, outputPath string) error
}

// Params carries everything needed to assemble a render context.
// Ref is the pipeline's fixed reference time; the invoice date, billing
// period and due date are all derived from it so a run crossing midnight
// stays self-consistent.
type Params struct {
	Company       config.Company
	InvoiceNumber string
	ClientName    string
	Totals        models.CategoryTotals
	HourlyRate    decimal.Decimal
	TaxRate       decimal.Decimal
	PaymentMethod string
	DaysBack      int
	Ref           time.Time
}

// NewContext computes the invoice totals and dates.
//
//	subtotal = sum(hours) * hourly rate
//	total    = subtotal * (1 + tax rate / 100)
//	due date = reference date + 30 calendar days
func NewContext(p Params) Context {
	subtotal := p.Totals.TotalHours().Mul(p.HourlyRate)
	taxMultiplier := decimal.NewFromInt(1).Add(p.TaxRate.Div(decimal.NewFromInt(100)))
	total := subtotal.Mul(taxMultiplier)

	paymentMethod := p.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	periodStart := formatInvoiceDate(p.Ref.AddDate(0, 0, -p.DaysBack))
	periodEnd := formatInvoiceDate(p.Ref)

	return Context{
		CompanyName:   p.Company.Name,
		Address:       fmt.Sprintf("%s, %s, %s %s", p.Company.Address, p.Company.City, p.Company.State, p.Company.Zip),
		Phone:         p.Company.Phone,
		Email:         p.Company.Email,
		InvoiceNumber: p.InvoiceNumber,
		ClientName:    p.ClientName,
		HourlyRate:    p.HourlyRate,
		Date:          periodEnd,
		BillingPeriod: fmt.Sprintf("%s to %s", periodStart, periodEnd),
		DueDate:       formatInvoiceDate(p.Ref.AddDate(0, 0, dueDateDays)),
		Items:         p.Totals,
		Subtotal:      subtotal,
		TaxRate:       p.TaxRate,
		Total:         total,
		PaymentMethod: paymentMethod,
	}
}

func formatInvoiceDate(t time.Time) string {
	return strings.ToUpper(t.Format(invoiceDateFormat))
}
