package forms

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Extractor produces FormInfo from a PDF file on disk.
type Extractor interface {
	Extract(path string) (*FormInfo, error)
}

type pdfExtractor struct {
	logger *slog.Logger
}

// NewExtractor creates the PDF-backed extractor.
func NewExtractor(logger *slog.Logger) Extractor {
	return &pdfExtractor{
		logger: logger.With("system", "forms"),
	}
}

// Extract validates the PDF, pulls its plain text, and parses form
// identifiers out of it. A file that fails validation returns ErrNotPDF;
// a valid PDF whose text cannot be read returns ErrExtractFailed. A
// parse that finds no identifiers is not an error; the caller inspects
// FormInfo.HasIdentifiers.
func (e *pdfExtractor) Extract(path string) (*FormInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %w", ErrNotPDF, err)
	}

	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotPDF, err)
	}

	text, err := extractText(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	info := Parse(text)
	info.PageCount = pageCount

	e.logger.Debug(
		"form extracted",
		"path", path,
		"form_type", info.FormType,
		"application_number", info.ApplicationNumber,
		"page_count", pageCount,
	)

	return info, nil
}

func extractText(path string) (string, error) {
	f, reader, err := ltpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	text, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	return string(text), nil
}
