package assets

import (
	"fmt"
	"strings"

	"github.com/ianferguson/contracting-hours/internal/models"
)

// AggregateHours collapses timesheet rows into per-category totals.
// Category labels differing only in case or surrounding whitespace merge
// into one entry. A row without a category is malformed and fails the
// whole aggregation; a wrong invoice line is worse than no invoice.
func AggregateHours(rows []models.TimesheetRow) (models.CategoryTotals, error) {
	totals := make(models.CategoryTotals, len(rows))
	for i, row := range rows {
		category := strings.ToUpper(strings.TrimSpace(row.Category))
		if category == "" {
			return nil, fmt.Errorf("%w: row %d has no category", models.ErrMissingField, i)
		}
		totals[category] = totals[category].Add(row.Hours)
	}
	return totals, nil
}
