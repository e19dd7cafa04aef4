// Package warehouse reads contracting hours from the data warehouse.
// Production queries BigQuery; development reads a local SQLite database
// with the reduced column set.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ianferguson/contracting-hours/internal/models"
	"github.com/ianferguson/contracting-hours/internal/utils"
)

type Warehouse interface {
	Close() error

	// ContractingHours returns the rows recorded in the trailing daysBack
	// window of the named table, newest first. An empty result is not an
	// error; it means there is nothing to bill.
	ContractingHours(ctx context.Context, tableName string, daysBack int) ([]models.TimesheetRow, error)
}

// dayLayouts covers the formats a warehouse Day column shows up in.
var dayLayouts = []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339, "1/2/2006"}

// rowFromValues builds a row from string column values in schema order.
func rowFromValues(schema models.Schema, values []string) (models.TimesheetRow, error) {
	if len(values) != len(schema) {
		return models.TimesheetRow{}, fmt.Errorf("%w: expected %d columns, got %d", models.ErrMissingField, len(schema), len(values))
	}

	var row models.TimesheetRow
	for i, col := range schema {
		value := values[i]
		switch col {
		case "Period":
			row.Period = value
		case "Day":
			day, err := parseDay(value)
			if err != nil {
				return models.TimesheetRow{}, err
			}
			row.Day = day
		case "Hours":
			hours, err := decimal.NewFromString(value)
			if err != nil {
				return models.TimesheetRow{}, fmt.Errorf("%w: unparseable hours %q", models.ErrMissingField, value)
			}
			row.Hours = hours
		case "Category":
			row.Category = value
		case "Purpose":
			row.Purpose = utils.ToPtrNil(value)
		case "Accomplished":
			row.Accomplished = value
		}
	}
	return row, nil
}

func parseDay(value string) (time.Time, error) {
	for _, layout := range dayLayouts {
		if day, err := time.Parse(layout, value); err == nil {
			return day, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable day %q", models.ErrMissingField, value)
}
