package assets

import (
	"fmt"
	"strings"
	"time"

	"github.com/ianferguson/contracting-hours/internal/models"
)

// AttachmentName derives the base filename shared by the zip bundle and
// the archived copies, e.g. FERGUSON_ACLU_hours__2025-01-06__2025-01-13.
// It is a pure function of its inputs; the reference date is the window's
// trailing boundary.
func AttachmentName(org, client string, daysBack int, ref time.Time) (string, error) {
	if daysBack < 0 {
		return "", fmt.Errorf("%w: days back must be non-negative, got %d", models.ErrInvalidInput, daysBack)
	}

	orgPart := normalizeName(org)
	if orgPart == "" {
		return "", fmt.Errorf("%w: organization name is empty", models.ErrInvalidInput)
	}

	clientPart := normalizeName(client)
	if clientPart == "" {
		return "", fmt.Errorf("%w: client name is empty", models.ErrInvalidInput)
	}

	start := ref.AddDate(0, 0, -daysBack)
	window := fmt.Sprintf("%s__%s", start.Format("2006-01-02"), ref.Format("2006-01-02"))

	return fmt.Sprintf("%s_%s_hours__%s", orgPart, clientPart, window), nil
}

// normalizeName uppercases, trims, and replaces internal whitespace runs
// with single underscores.
func normalizeName(name string) string {
	fields := strings.Fields(strings.ToUpper(name))
	return strings.Join(fields, "_")
}
