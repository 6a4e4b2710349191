package docextract

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/taskreview/internal/models"
)

func newTestExtractor() *Extractor {
	return New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestExtractText_Markdown(t *testing.T) {
	e := newTestExtractor()

	text, err := e.ExtractText(context.Background(), "notes.md", []byte("\n# Title\n\nBody text.\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody text.", text)
}

func TestExtractText_NoExtension(t *testing.T) {
	e := newTestExtractor()

	text, err := e.ExtractText(context.Background(), "README", []byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", text)
}

func TestExtractText_Empty(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText(context.Background(), "a.txt", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.ErrorIs(t, err, models.ErrCorruptInput)
}

func TestExtractText_WhitespaceOnly(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText(context.Background(), "a.txt", []byte(" \n\t "))
	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestExtractText_BinaryText(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText(context.Background(), "a.txt", []byte{0xff, 0xfe, 0x00, 0x41})
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestExtractText_PDFExtensionWithoutPDFContent(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText(context.Background(), "report.pdf", []byte("not a pdf"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestExtractText_TruncatedPDF(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText(context.Background(), "report.pdf", []byte("%PDF-1.4\n1 0 obj\n<<"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrCorruptInput))
}

func TestExtractText_UnsupportedType(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText(context.Background(), "slides.pptx", []byte("data"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorIs(t, err, models.ErrValidation)
}
