package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/ianferguson/contracting-hours/internal/assets"
	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/email"
	"github.com/ianferguson/contracting-hours/internal/logger"
	"github.com/ianferguson/contracting-hours/internal/storage"
	"github.com/ianferguson/contracting-hours/internal/warehouse"
	"github.com/ianferguson/contracting-hours/pkg/resend"
)

// BillingService runs the billing pipeline: query hours, build the
// attachment bundle, email the client contact, archive copies.
type BillingService struct {
	warehouse warehouse.Warehouse
	builder   *assets.Builder
	sender    email.Sender
	uploader  storage.Uploader
	cfg       *config.Config
	billing   *config.Billing
}

func NewBillingService(
	wh warehouse.Warehouse,
	builder *assets.Builder,
	sender email.Sender,
	uploader storage.Uploader,
	cfg *config.Config,
	billing *config.Billing,
) *BillingService {
	return &BillingService{
		warehouse: wh,
		builder:   builder,
		sender:    sender,
		uploader:  uploader,
		cfg:       cfg,
		billing:   billing,
	}
}

// RunOptions fixes the parameters of one pipeline run. Ref is captured
// once by the caller so the invoice date, due date, and billing period
// stay consistent even if the run crosses a day boundary.
type RunOptions struct {
	DaysBack   int
	KeepAssets bool
	Ref        time.Time
}

// Run processes every configured client sequentially. A client's failure
// does not stop the loop; all failures are joined into the returned error.
func (s *BillingService) Run(ctx context.Context, opts RunOptions) error {
	var failures []error
	for _, clientName := range s.clientNames() {
		if err := s.processClient(ctx, clientName, s.billing.Clients[clientName], opts); err != nil {
			logger.Warn("Failed to process %s: %v", clientName, err)
			failures = append(failures, fmt.Errorf("client %s: %w", clientName, err))
		}
	}
	return errors.Join(failures...)
}

func (s *BillingService) clientNames() []string {
	names := make([]string, 0, len(s.billing.Clients))
	for name := range s.billing.Clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *BillingService) processClient(ctx context.Context, clientName string, profile config.ClientProfile, opts RunOptions) error {
	logger.Info("* Processing client: %s", clientName)

	rows, err := s.warehouse.ContractingHours(ctx, profile.TableName, opts.DaysBack)
	if err != nil {
		return fmt.Errorf("failed to get contracting hours: %w", err)
	}

	// Nothing to bill is a normal outcome, not an error.
	if len(rows) == 0 {
		logger.Warn("* No contracting hours found for the specified period.")
		return nil
	}

	logger.Info("** Generating email assets")
	bundle, err := s.builder.Build(rows, opts.DaysBack, s.billing.Company, profile, opts.Ref)
	if err != nil {
		return err
	}
	if !opts.KeepAssets {
		defer func() {
			if err := bundle.Cleanup(); err != nil {
				logger.Warn("Failed to clean up %s: %v", bundle.Dir, err)
			}
		}()
	}

	logger.Info("** Sending email to client")
	if err := s.sendHoursEmail(ctx, clientName, profile, bundle, opts.DaysBack, opts.Ref); err != nil {
		return err
	}

	logger.Info("** Uploading assets to storage")
	for _, localPath := range []string{bundle.CSVPath, bundle.PDFPath} {
		key := storage.ObjectKey(clientName, opts.Ref, filepath.Base(localPath))
		if err := s.uploader.Upload(ctx, localPath, key); err != nil {
			return err
		}
	}

	return nil
}

func (s *BillingService) sendHoursEmail(ctx context.Context, clientName string, profile config.ClientProfile, bundle *assets.Bundle, daysBack int, ref time.Time) error {
	csvAttachment, err := resend.NewAttachmentFromFile(bundle.CSVPath, "hours.csv")
	if err != nil {
		return err
	}
	pdfAttachment, err := resend.NewAttachmentFromFile(bundle.PDFPath, "invoice.pdf")
	if err != nil {
		return err
	}

	// Outside production every email goes to the test inbox.
	recipient := profile.ContactEmail
	if !s.cfg.IsProduction() {
		recipient = s.cfg.TestInbox
	}

	org := s.billing.Company.Short()
	return s.sender.Send(ctx, email.Message{
		Recipient:   recipient,
		Subject:     email.Subject(org, clientName, ref),
		HTMLBody:    email.Body(profile.ContactName, clientName, s.billing.Company.Email, daysBack),
		Attachments: []resend.Attachment{csvAttachment, pdfAttachment},
	})
}

// Preview builds the attachment bundle for a single client without
// emailing or archiving anything. Returns the bundle and, when archive is
// set, the path to the zip.
func (s *BillingService) Preview(ctx context.Context, clientName string, daysBack int, ref time.Time, archive bool) (*assets.Bundle, string, error) {
	profile, ok := s.billing.Clients[clientName]
	if !ok {
		return nil, "", fmt.Errorf("client '%s' is not configured", clientName)
	}

	rows, err := s.warehouse.ContractingHours(ctx, profile.TableName, daysBack)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get contracting hours: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", nil
	}

	bundle, err := s.builder.Build(rows, daysBack, s.billing.Company, profile, ref)
	if err != nil {
		return nil, "", err
	}

	var zipPath string
	if archive {
		zipPath, err = bundle.Archive(s.billing.Company.Short(), clientName, daysBack, ref)
		if err != nil {
			return nil, "", err
		}
	}

	return bundle, zipPath, nil
}
