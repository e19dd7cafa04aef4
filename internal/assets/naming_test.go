package assets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianferguson/contracting-hours/internal/models"
)

func TestAttachmentName(t *testing.T) {
	ref := time.Date(2025, 1, 13, 9, 30, 0, 0, time.UTC)

	name, err := AttachmentName("Ferguson", "ACLU", 7, ref)
	require.NoError(t, err)
	assert.Equal(t, "FERGUSON_ACLU_hours__2025-01-06__2025-01-13", name)
}

func TestAttachmentName_Deterministic(t *testing.T) {
	ref := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	first, err := AttachmentName("Ferguson", "ACLU", 7, ref)
	require.NoError(t, err)
	second, err := AttachmentName("Ferguson", "ACLU", 7, ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAttachmentName_NormalizesClient(t *testing.T) {
	ref := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	name, err := AttachmentName("Ferguson", "  Mixed Case   Client ", 0, ref)
	require.NoError(t, err)
	assert.Equal(t, "FERGUSON_MIXED_CASE_CLIENT_hours__2025-01-13__2025-01-13", name)
}

func TestAttachmentName_CrossesMonthBoundary(t *testing.T) {
	ref := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	name, err := AttachmentName("Ferguson", "ACLU", 7, ref)
	require.NoError(t, err)
	assert.Equal(t, "FERGUSON_ACLU_hours__2025-02-24__2025-03-03", name)
}

func TestAttachmentName_EmptyClient(t *testing.T) {
	ref := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	_, err := AttachmentName("Ferguson", "   ", 7, ref)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAttachmentName_EmptyOrg(t *testing.T) {
	ref := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	_, err := AttachmentName("", "ACLU", 7, ref)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAttachmentName_NegativeDaysBack(t *testing.T) {
	ref := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	_, err := AttachmentName("Ferguson", "ACLU", -1, ref)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
