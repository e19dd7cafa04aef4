package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ianferguson/contracting-hours/internal/utils"
)

// TimesheetRow is one line of contracting hours as returned by the
// warehouse. Purpose is only populated by the production schema.
type TimesheetRow struct {
	Period       string
	Day          time.Time
	Hours        decimal.Decimal
	Category     string
	Purpose      *string
	Accomplished string
}

// Schema is the ordered column set a warehouse table exposes. The CSV
// header and the warehouse column mapping both follow it.
type Schema []string

var (
	// SchemaProduction includes the Purpose column.
	SchemaProduction = Schema{"Period", "Day", "Hours", "Category", "Purpose", "Accomplished"}

	// SchemaDevelopment is the reduced column set used outside production.
	SchemaDevelopment = Schema{"Period", "Day", "Hours", "Category", "Accomplished"}
)

// HasPurpose reports whether the schema carries the optional Purpose column.
func (s Schema) HasPurpose() bool {
	for _, col := range s {
		if col == "Purpose" {
			return true
		}
	}
	return false
}

// Values returns the row's column values in schema order.
func (s Schema) Values(row TimesheetRow) []string {
	values := make([]string, 0, len(s))
	for _, col := range s {
		switch col {
		case "Period":
			values = append(values, row.Period)
		case "Day":
			values = append(values, row.Day.Format("2006-01-02"))
		case "Hours":
			values = append(values, row.Hours.String())
		case "Category":
			values = append(values, row.Category)
		case "Purpose":
			values = append(values, utils.FromPtr(row.Purpose))
		case "Accomplished":
			values = append(values, row.Accomplished)
		}
	}
	return values
}

// CategoryTotals maps a normalized category label to its summed hours.
type CategoryTotals map[string]decimal.Decimal

// TotalHours sums every category's hours.
func (t CategoryTotals) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, hours := range t {
		total = total.Add(hours)
	}
	return total
}

// Categories returns the category labels in lexical order, for
// deterministic invoice line ordering.
func (t CategoryTotals) Categories() []string {
	categories := make([]string, 0, len(t))
	for category := range t {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func NewUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
