package warehouse

import (
	"context"
	"fmt"

	bigquery "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ianferguson/contracting-hours/internal/logger"
	"github.com/ianferguson/contracting-hours/internal/models"
)

// BigQuery is the production warehouse. Credentials come from application
// default credentials; the scopes match what the hours tables need.
type BigQuery struct {
	service   *bigquery.Service
	projectID string
	schema    models.Schema
}

func NewBigQuery(ctx context.Context, projectID string, schema models.Schema) (*BigQuery, error) {
	service, err := bigquery.NewService(ctx,
		option.WithScopes(
			bigquery.BigqueryScope,
			bigquery.CloudPlatformScope,
			"https://www.googleapis.com/auth/drive",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery service: %w", err)
	}

	return &BigQuery{
		service:   service,
		projectID: projectID,
		schema:    schema,
	}, nil
}

func (w *BigQuery) Close() error {
	return nil
}

func (w *BigQuery) ContractingHours(ctx context.Context, tableName string, daysBack int) ([]models.TimesheetRow, error) {
	logger.Debug("Reading hours from %s", tableName)

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE DATE_DIFF(CURRENT_DATE(), CAST(Day AS DATE), DAY) < %d ORDER BY Day DESC",
		tableName, daysBack,
	)

	resp, err := w.service.Jobs.Query(w.projectID, &bigquery.QueryRequest{
		Query:        query,
		UseLegacySql: googleapi.Bool(false),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}

	if len(resp.Rows) == 0 {
		return nil, nil
	}

	// Map the response columns onto the expected schema by name so an
	// environment without the Purpose column still parses.
	indexes := make([]int, len(w.schema))
	for i, col := range w.schema {
		indexes[i] = -1
		for j, field := range resp.Schema.Fields {
			if field.Name == col {
				indexes[i] = j
				break
			}
		}
		if indexes[i] == -1 && col != "Purpose" {
			return nil, fmt.Errorf("%w: %s has no %s column", models.ErrMissingField, tableName, col)
		}
	}

	rows := make([]models.TimesheetRow, 0, len(resp.Rows))
	for _, tableRow := range resp.Rows {
		values := make([]string, len(w.schema))
		for i, j := range indexes {
			if j < 0 || j >= len(tableRow.F) {
				continue
			}
			if cell := tableRow.F[j].V; cell != nil {
				values[i] = fmt.Sprintf("%v", cell)
			}
		}

		row, err := rowFromValues(w.schema, values)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}
