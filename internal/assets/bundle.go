// Package assets builds the per-run email attachments: the raw hours CSV,
// the aggregated PDF invoice, and optionally a zip of both. Every run gets
// its own uniquely named directory so concurrent runs can never collide.
package assets

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/invoice"
	"github.com/ianferguson/contracting-hours/internal/logger"
	"github.com/ianferguson/contracting-hours/internal/models"
)

const (
	// CSVFileName is the raw hours attachment inside a bundle directory.
	CSVFileName = "contracting_hours.csv"

	// PDFFileName is the rendered invoice inside a bundle directory.
	PDFFileName = "invoice.pdf"
)

// Bundle is the set of artifacts generated for one client for one run.
// The directory is owned by whoever built the bundle until Cleanup.
type Bundle struct {
	Dir           string
	CSVPath       string
	PDFPath       string
	InvoiceNumber string
}

// Builder writes attachment bundles under a parent directory.
type Builder struct {
	renderer  invoice.Renderer
	parentDir string
	schema    models.Schema
}

func NewBuilder(renderer invoice.Renderer, parentDir string, schema models.Schema) *Builder {
	return &Builder{
		renderer:  renderer,
		parentDir: parentDir,
		schema:    schema,
	}
}

// Build creates a fresh bundle directory, writes the CSV, and renders the
// invoice PDF. No step is retried; a failure leaves the uniquely named
// directory partially populated for the owner to clean up.
func (b *Builder) Build(rows []models.TimesheetRow, daysBack int, company config.Company, client config.ClientProfile, ref time.Time) (*Bundle, error) {
	if err := os.MkdirAll(b.parentDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create assets parent directory: %w", err)
	}

	runID := strings.ReplaceAll(uuid.NewString(), "-", "")
	dir := filepath.Join(b.parentDir, "attachments_"+runID)
	logger.Debug("Creating bundle directory at %s", dir)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bundle directory: %w", err)
	}

	bundle := &Bundle{
		Dir:           dir,
		CSVPath:       filepath.Join(dir, CSVFileName),
		PDFPath:       filepath.Join(dir, PDFFileName),
		InvoiceNumber: newInvoiceNumber(ref),
	}

	logger.Debug("Writing contracting hours CSV to %s", bundle.CSVPath)
	if err := writeCSV(bundle.CSVPath, b.schema, rows); err != nil {
		return nil, err
	}

	totals, err := AggregateHours(rows)
	if err != nil {
		return nil, err
	}

	renderCtx := invoice.NewContext(invoice.Params{
		Company:       company,
		InvoiceNumber: bundle.InvoiceNumber,
		ClientName:    client.BilledTo,
		Totals:        totals,
		HourlyRate:    decimal.NewFromFloat(client.HourlyRate),
		TaxRate:       decimal.NewFromFloat(client.TaxRate),
		PaymentMethod: client.PaymentMethod,
		DaysBack:      daysBack,
		Ref:           ref,
	})

	logger.Debug("Writing invoice PDF to %s", bundle.PDFPath)
	if err := b.renderer.Render(renderCtx, bundle.PDFPath); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", bundle.InvoiceNumber, err)
	}

	return bundle, nil
}

// newInvoiceNumber is unique per run: INV-<YYYYMMDD>-<6 hex chars>.
func newInvoiceNumber(ref time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", ref.Format("20060102"), suffix)
}

func writeCSV(path string, schema models.Schema, rows []models.TimesheetRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(schema); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(schema.Values(row)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// Archive zips the bundle's artifacts into a sibling file named by the
// attachment naming convention and returns its path.
func (b *Bundle) Archive(org, client string, daysBack int, ref time.Time) (string, error) {
	baseName, err := AttachmentName(org, client, daysBack, ref)
	if err != nil {
		return "", err
	}

	zipPath := filepath.Join(filepath.Dir(b.Dir), baseName+".zip")
	logger.Debug("Creating zip archive at %s", zipPath)

	zipFile, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to create zip file: %w", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	for _, path := range []string{b.CSVPath, b.PDFPath} {
		if err := addToZip(zipWriter, path); err != nil {
			zipWriter.Close()
			return "", err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize zip file: %w", err)
	}
	return zipPath, nil
}

func addToZip(zipWriter *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for zipping: %w", path, err)
	}
	defer file.Close()

	entry, err := zipWriter.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to add %s to zip: %w", path, err)
	}

	if _, err := io.Copy(entry, file); err != nil {
		return fmt.Errorf("failed to write %s into zip: %w", path, err)
	}
	return nil
}

// Cleanup removes the bundle directory and everything in it.
func (b *Bundle) Cleanup() error {
	logger.Debug("Removing bundle directory %s", b.Dir)
	return os.RemoveAll(b.Dir)
}
