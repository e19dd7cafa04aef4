package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/ianferguson/contracting-hours/internal/logger"
	"github.com/ianferguson/contracting-hours/internal/models"
)

// SQL is the development warehouse: a local SQLite (or libsql) database
// holding hours tables with the reduced column set.
type SQL struct {
	conn   *sql.DB
	schema models.Schema
}

func NewSQL(driver, url string, schema models.Schema) (*SQL, error) {
	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQL{
		conn:   conn,
		schema: schema,
	}, nil
}

func (w *SQL) Close() error {
	return w.conn.Close()
}

func (w *SQL) ContractingHours(ctx context.Context, tableName string, daysBack int) ([]models.TimesheetRow, error) {
	logger.Debug("Reading hours from %s", tableName)

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE julianday('now') - julianday(Day) < ? ORDER BY Day DESC",
		strings.Join(w.schema, ", "), tableName,
	)

	queryRows, err := w.conn.QueryContext(ctx, query, daysBack)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer queryRows.Close()

	var rows []models.TimesheetRow
	for queryRows.Next() {
		values := make([]sql.NullString, len(w.schema))
		scanTargets := make([]any, len(values))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := queryRows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}

		stringValues := make([]string, len(values))
		for i, value := range values {
			stringValues[i] = value.String
		}

		row, err := rowFromValues(w.schema, stringValues)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if err := queryRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", tableName, err)
	}
	return rows, nil
}
