package forms

import "errors"

var (
	// ErrNotPDF indicates the file failed PDF validation.
	ErrNotPDF = errors.New("file is not a readable pdf")
	// ErrExtractFailed indicates text extraction failed on a valid PDF.
	ErrExtractFailed = errors.New("text extraction failed")
)
