// Package docextract turns an uploaded document into plain text for scoring.
// PDFs are read with github.com/ledongthuc/pdf (no OCR); plain text and
// markdown are passed through after validation.
package docextract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/joescharf/taskreview/internal/models"
)

// Extraction failures. All wrap models.ErrCorruptInput except
// ErrUnsupportedType, which is a caller input problem.
var (
	ErrEmptyInput        = fmt.Errorf("%w: the uploaded document is empty", models.ErrCorruptInput)
	ErrCorrupt           = fmt.Errorf("%w: the document appears to be corrupted or invalid", models.ErrCorruptInput)
	ErrNoExtractableText = fmt.Errorf("%w: could not extract any text from the document", models.ErrCorruptInput)
	ErrUnsupportedType   = fmt.Errorf("%w: only PDF, text and markdown documents are allowed", models.ErrValidation)
)

var pdfMagic = []byte("%PDF-")

var textExtensions = map[string]bool{
	"":          true,
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// Extractor extracts document text. It holds no per-call state.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractText returns the trimmed text content of data. name is the uploaded
// file name and only selects the format when the content is not a PDF.
func (e *Extractor) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		e.logger.Error("empty document uploaded", "name", name)
		return "", ErrEmptyInput
	}

	ext := strings.ToLower(filepath.Ext(name))

	var (
		text string
		err  error
	)
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		text, err = e.extractPDF(ctx, data)
	case ext == ".pdf":
		err = ErrCorrupt
	case textExtensions[ext]:
		text, err = extractPlain(data)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		e.logger.Error("failed to process document", "name", name, "error", err)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		e.logger.Warn("no text extracted from document", "name", name)
		return "", ErrNoExtractableText
	}

	e.logger.Info("extracted document text", "name", name, "chars", len(text))
	return text, nil
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", ErrCorrupt
	}
	return string(data), nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrCorrupt, i, err)
		}
		content = strings.TrimSpace(content)
		if content == "" {
			e.logger.Debug("no text found on page", "page", i)
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}
