package invoice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRenderer_Render(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "invoice.pdf")

	renderer := NewPDFRenderer()
	require.NoError(t, renderer.Render(NewContext(testParams()), outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFRenderer_RenderFailurePropagates(t *testing.T) {
	// An unwritable output path must surface as a render failure.
	outputPath := filepath.Join(t.TempDir(), "missing", "nested", "invoice.pdf")

	renderer := NewPDFRenderer()
	err := renderer.Render(NewContext(testParams()), outputPath)
	require.Error(t, err)
}
