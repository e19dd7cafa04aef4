// Package email composes and delivers the weekly hours email. Delivery
// failures are returned like any other step failure; nothing is swallowed
// into a log line.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ianferguson/contracting-hours/internal/logger"
	"github.com/ianferguson/contracting-hours/pkg/resend"
)

// Message is one outgoing email with its attachments.
type Message struct {
	Recipient   string
	Subject     string
	HTMLBody    string
	Attachments []resend.Attachment
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Subject follows the convention
// [AUTOMATED] <Org> x <Client> Hours - <Month DD, YYYY>.
func Subject(org, client string, ref time.Time) string {
	return fmt.Sprintf("[AUTOMATED] %s x %s Hours - %s", org, client, ref.Format("January 02, 2006"))
}

// Body builds the HTML body greeting the contact by first name.
func Body(contactName, client, replyTo string, daysBack int) string {
	return fmt.Sprintf(`
	Hi %s,
	<br><br>
	I hope you're well!
	<br><br>
	Please see attached for my <b>%s</b> hours from the last %d days.
	<br><br>
	If you have any questions or concerns please <a href='mailto:%s'>contact me at my monitored inbox</a>.
	<br><br>
	Thanks a bunch
	`, FirstName(contactName), client, daysBack, replyTo)
}

// FirstName extracts the leading name from a full contact name.
func FirstName(contactName string) string {
	fields := strings.Fields(contactName)
	if len(fields) == 0 {
		return contactName
	}
	return fields[0]
}

// ResendSender delivers messages through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(client *resend.Client, from string) *ResendSender {
	return &ResendSender{
		client: client,
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	resp, err := s.client.SendEmail(ctx, resend.SendEmailRequest{
		From:        s.from,
		To:          []string{msg.Recipient},
		Subject:     msg.Subject,
		HTML:        msg.HTMLBody,
		Attachments: msg.Attachments,
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.Recipient, err)
	}

	logger.Debug("Sent email %s to %s", resp.ID, msg.Recipient)
	return nil
}
