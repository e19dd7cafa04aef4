package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianferguson/contracting-hours/internal/assets"
	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/email"
	"github.com/ianferguson/contracting-hours/internal/invoice"
	"github.com/ianferguson/contracting-hours/internal/models"
)

type fakeWarehouse struct {
	rows map[string][]models.TimesheetRow
	err  error
}

func (w *fakeWarehouse) Close() error { return nil }

func (w *fakeWarehouse) ContractingHours(ctx context.Context, tableName string, daysBack int) ([]models.TimesheetRow, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.rows[tableName], nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (s *fakeSender) Send(ctx context.Context, msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type fakeUploader struct {
	keys []string
	err  error
}

func (u *fakeUploader) Upload(ctx context.Context, localPath, objectKey string) error {
	if u.err != nil {
		return u.err
	}
	u.keys = append(u.keys, objectKey)
	return nil
}

type fakeRenderer struct{}

func (r *fakeRenderer) Render(ctx invoice.Context, outputPath string) error {
	return os.WriteFile(outputPath, []byte("%PDF-fake"), 0o644)
}

func testBilling() *config.Billing {
	return &config.Billing{
		Clients: map[string]config.ClientProfile{
			"ACLU": {
				TableName:    "aclu_hours",
				BilledTo:     "ACLU Foundation",
				ContactName:  "Jordan Smith",
				ContactEmail: "jordan@example.org",
				HourlyRate:   100,
			},
			"Sierra Club": {
				TableName:    "sierra_hours",
				BilledTo:     "Sierra Club",
				ContactName:  "Sam Lee",
				ContactEmail: "sam@example.org",
				HourlyRate:   90,
			},
		},
		Company: config.Company{
			Name:      "Ian Ferguson Consulting",
			ShortName: "Ferguson",
			Address:   "123 Main St",
			City:      "New York",
			State:     "NY",
			Zip:       "10001",
			Phone:     "555-0100",
			Email:     "billing@example.dev",
		},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Stage:      "development",
		BucketName: "assets-bucket",
		TestInbox:  "inbox@example.dev",
		AssetsDir:  t.TempDir(),
	}
}

func testRows() []models.TimesheetRow {
	return []models.TimesheetRow{
		{
			Period:       "2025-W02",
			Day:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Hours:        decimal.RequireFromString("2.5"),
			Category:     "Admin",
			Accomplished: "Prepared board materials",
		},
	}
}

func newTestService(t *testing.T, wh *fakeWarehouse, sender *fakeSender, uploader *fakeUploader) *BillingService {
	t.Helper()
	cfg := testConfig(t)
	builder := assets.NewBuilder(&fakeRenderer{}, cfg.AssetsDir, models.SchemaDevelopment)
	return NewBillingService(wh, builder, sender, uploader, cfg, testBilling())
}

func TestRun_ProcessesClientsAndSkipsEmpty(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{
		"aclu_hours": testRows(),
		// sierra_hours has no rows this period
	}}
	sender := &fakeSender{}
	uploader := &fakeUploader{}

	svc := newTestService(t, wh, sender, uploader)
	ref := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: ref}))

	// Only ACLU had hours to bill.
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "[AUTOMATED] Ferguson x ACLU Hours - January 13, 2025", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Hi Jordan,")
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "hours.csv", msg.Attachments[0].Filename)
	assert.Equal(t, "invoice.pdf", msg.Attachments[1].Filename)

	assert.Equal(t, []string{
		"aclu/2025-01-13/contracting_hours.csv",
		"aclu/2025-01-13/invoice.pdf",
	}, uploader.keys)
}

func TestRun_RedirectsToTestInboxOutsideProduction(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{"aclu_hours": testRows()}}
	sender := &fakeSender{}

	svc := newTestService(t, wh, sender, &fakeUploader{})
	require.NoError(t, svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: time.Now()}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "inbox@example.dev", sender.sent[0].Recipient)
}

func TestRun_UsesContactEmailInProduction(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{"aclu_hours": testRows()}}
	sender := &fakeSender{}
	uploader := &fakeUploader{}

	cfg := testConfig(t)
	cfg.Stage = "production"
	builder := assets.NewBuilder(&fakeRenderer{}, cfg.AssetsDir, models.SchemaProduction)
	svc := NewBillingService(wh, builder, sender, uploader, cfg, testBilling())

	require.NoError(t, svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: time.Now()}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jordan@example.org", sender.sent[0].Recipient)
}

func TestRun_CleansUpBundleDirectories(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{"aclu_hours": testRows()}}
	cfg := testConfig(t)
	builder := assets.NewBuilder(&fakeRenderer{}, cfg.AssetsDir, models.SchemaDevelopment)
	svc := NewBillingService(wh, builder, &fakeSender{}, &fakeUploader{}, cfg, testBilling())

	require.NoError(t, svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: time.Now()}))

	entries, err := os.ReadDir(cfg.AssetsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "bundle directories must be removed after a successful run")
}

func TestRun_KeepAssetsLeavesDirectories(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{"aclu_hours": testRows()}}
	cfg := testConfig(t)
	builder := assets.NewBuilder(&fakeRenderer{}, cfg.AssetsDir, models.SchemaDevelopment)
	svc := NewBillingService(wh, builder, &fakeSender{}, &fakeUploader{}, cfg, testBilling())

	require.NoError(t, svc.Run(context.Background(), RunOptions{DaysBack: 7, KeepAssets: true, Ref: time.Now()}))

	entries, err := os.ReadDir(cfg.AssetsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_SendFailureSurfacesAndCleansUp(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{"aclu_hours": testRows()}}
	sendErr := errors.New("transport rejected the message")
	uploader := &fakeUploader{}

	cfg := testConfig(t)
	builder := assets.NewBuilder(&fakeRenderer{}, cfg.AssetsDir, models.SchemaDevelopment)
	svc := NewBillingService(wh, builder, &fakeSender{err: sendErr}, uploader, cfg, testBilling())

	err := svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	assert.Contains(t, err.Error(), "client ACLU")

	// Delivery failed, so nothing gets archived for that client.
	assert.Empty(t, uploader.keys)

	// The bundle directory is still cleaned up on the failure path.
	entries, readDirErr := os.ReadDir(cfg.AssetsDir)
	require.NoError(t, readDirErr)
	assert.Empty(t, entries)
}

func TestRun_OneClientFailureDoesNotStopOthers(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{
		"aclu_hours": {{
			Period: "2025-W02",
			Day:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Hours:  decimal.NewFromInt(2),
			// Category missing: aggregation fails for ACLU only
		}},
		"sierra_hours": testRows(),
	}}
	sender := &fakeSender{}

	svc := newTestService(t, wh, sender, &fakeUploader{})
	err := svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: time.Now()})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingField)

	// Sierra Club still got its email.
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Sierra Club")
}

func TestRun_WarehouseErrorAbortsClient(t *testing.T) {
	queryErr := errors.New("warehouse unavailable")
	svc := newTestService(t, &fakeWarehouse{err: queryErr}, &fakeSender{}, &fakeUploader{})

	err := svc.Run(context.Background(), RunOptions{DaysBack: 7, Ref: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, queryErr)
}

func TestPreview(t *testing.T) {
	wh := &fakeWarehouse{rows: map[string][]models.TimesheetRow{"aclu_hours": testRows()}}
	svc := newTestService(t, wh, nil, nil)
	ref := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	bundle, zipPath, err := svc.Preview(context.Background(), "ACLU", 7, ref, true)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.FileExists(t, bundle.CSVPath)
	assert.FileExists(t, bundle.PDFPath)
	assert.FileExists(t, zipPath)
	assert.Contains(t, zipPath, "FERGUSON_ACLU_hours__2025-01-06__2025-01-13.zip")
}

func TestPreview_NoRows(t *testing.T) {
	svc := newTestService(t, &fakeWarehouse{}, nil, nil)

	bundle, zipPath, err := svc.Preview(context.Background(), "ACLU", 7, time.Now(), false)
	require.NoError(t, err)
	assert.Nil(t, bundle)
	assert.Empty(t, zipPath)
}

func TestPreview_UnknownClient(t *testing.T) {
	svc := newTestService(t, &fakeWarehouse{}, nil, nil)

	_, _, err := svc.Preview(context.Background(), "Nobody", 7, time.Now(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
