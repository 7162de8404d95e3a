// Package forms extracts FCC form identifiers from PDF documents.
// pdfcpu validates the document and reports its page count; plain text
// comes from ledongthuc/pdf; identifiers are recovered with pattern
// matching over the extracted text.
package forms

// Form types recognized in extracted text.
const (
	FormType470     = "470"
	FormType471     = "471"
	FormTypeUnknown = "unknown"
)

// FormInfo carries the identifiers extracted from a single form PDF.
// It is transient: derived during one processing pass and never persisted.
type FormInfo struct {
	FormType            string `json:"form_type"`
	ApplicationNumber   string `json:"application_number"`
	BilledEntityName    string `json:"billed_entity_name"`
	EstablishingForm470 string `json:"establishing_form470_number,omitempty"`
	PageCount           int    `json:"page_count"`
}

// HasIdentifiers reports whether at least one of the two identifiers the
// registry search depends on was found.
func (f *FormInfo) HasIdentifiers() bool {
	return f.ApplicationNumber != "" || f.BilledEntityName != ""
}

// SearchNumber returns the number to query the registry with. A Form 471
// links to its Form 470 through the establishing form number; the
// application number is the fallback.
func (f *FormInfo) SearchNumber() string {
	if f.FormType == FormType471 && f.EstablishingForm470 != "" {
		return f.EstablishingForm470
	}
	return f.ApplicationNumber
}
