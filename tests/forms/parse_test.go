package forms_test

import (
	"testing"

	"github.com/JaimeStill/relay/internal/forms"
)

func TestParseForm470(t *testing.T) {
	text := `FCC Form 470
Application Number: 190012345
Billed Entity Name: Springfield Unified School District
Category One services requested.`

	info := forms.Parse(text)

	if info.FormType != forms.FormType470 {
		t.Errorf("form type: got %s, want %s", info.FormType, forms.FormType470)
	}
	if info.ApplicationNumber != "190012345" {
		t.Errorf("application number: got %s, want 190012345", info.ApplicationNumber)
	}
	if info.BilledEntityName != "Springfield Unified School District" {
		t.Errorf("billed entity: got %q", info.BilledEntityName)
	}
	if info.EstablishingForm470 != "" {
		t.Errorf("establishing number should be empty for a 470, got %s", info.EstablishingForm470)
	}
}

func TestParseForm471WithEstablishing(t *testing.T) {
	text := `FCC Form 471
Application Number: 221000456
Billed Entity Name: Riverdale Public Library
Establishing FCC Form 470: 220000789012345`

	info := forms.Parse(text)

	if info.FormType != forms.FormType471 {
		t.Errorf("form type: got %s, want %s", info.FormType, forms.FormType471)
	}
	if info.EstablishingForm470 != "220000789012345" {
		t.Errorf("establishing number: got %s, want 220000789012345", info.EstablishingForm470)
	}
	if got := info.SearchNumber(); got != "220000789012345" {
		t.Errorf("search number should prefer establishing form: got %s", got)
	}
}

func TestParseFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		appNumber string
		formType  string
		hasIdent  bool
	}{
		{
			name:      "bare nine digit run",
			text:      "Form 470 receipt acknowledged 190054321 thank you",
			appNumber: "190054321",
			formType:  forms.FormType470,
			hasIdent:  true,
		},
		{
			name:      "no identifiers",
			text:      "A scanned cover letter with no form fields.",
			appNumber: "",
			formType:  forms.FormTypeUnknown,
			hasIdent:  false,
		},
		{
			name:      "entity name only",
			text:      "Form 471 filing\nBilled Entity Name: Oakdale Charter",
			appNumber: "",
			formType:  forms.FormType471,
			hasIdent:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := forms.Parse(tt.text)
			if info.ApplicationNumber != tt.appNumber {
				t.Errorf("application number: got %q, want %q", info.ApplicationNumber, tt.appNumber)
			}
			if info.FormType != tt.formType {
				t.Errorf("form type: got %s, want %s", info.FormType, tt.formType)
			}
			if info.HasIdentifiers() != tt.hasIdent {
				t.Errorf("has identifiers: got %v, want %v", info.HasIdentifiers(), tt.hasIdent)
			}
		})
	}
}

func TestParseEstablishingFallbackLabel(t *testing.T) {
	text := "Form 471\nEstablishing form: see Form 470: 220011223344556 above"

	info := forms.Parse(text)
	if info.EstablishingForm470 != "220011223344556" {
		t.Errorf("establishing number: got %s, want 220011223344556", info.EstablishingForm470)
	}
}

func TestSearchNumberFallsBackToApplication(t *testing.T) {
	info := &forms.FormInfo{
		FormType:          forms.FormType471,
		ApplicationNumber: "221000456",
	}

	if got := info.SearchNumber(); got != "221000456" {
		t.Errorf("search number: got %s, want 221000456", got)
	}
}

func TestSearchNumberEmpty(t *testing.T) {
	info := &forms.FormInfo{FormType: forms.FormTypeUnknown}
	if got := info.SearchNumber(); got != "" {
		t.Errorf("search number: got %q, want empty", got)
	}
}
