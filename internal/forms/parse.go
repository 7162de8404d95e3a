package forms

import (
	"regexp"
	"strings"
)

var (
	appNumberPattern   = regexp.MustCompile(`(?i)Application Number[:\s]*(\d+)`)
	appNumberFallback  = regexp.MustCompile(`\d{9}`)
	entityNamePattern  = regexp.MustCompile(`(?i)Billed Entity Name[:\s]*([^\n]+)`)
	establishPattern   = regexp.MustCompile(`(?i)Establishing FCC Form 470[:\s]*(\d+)`)
	establishFallback  = regexp.MustCompile(`(?i)Establishing[^\n]*?Form 470[:\s]*(\d+)`)
	establishDigitRun  = regexp.MustCompile(`\d{15}`)
)

// Parse recovers form identifiers from extracted PDF text.
// Labeled fields are preferred; digit-run fallbacks match the shapes the
// forms use in practice (9 digits for application numbers, 15 digits for
// establishing Form 470 numbers).
func Parse(text string) *FormInfo {
	info := &FormInfo{FormType: detectFormType(text)}

	if m := appNumberPattern.FindStringSubmatch(text); m != nil {
		info.ApplicationNumber = m[1]
	} else if m := appNumberFallback.FindString(text); m != "" {
		info.ApplicationNumber = m
	}

	if m := entityNamePattern.FindStringSubmatch(text); m != nil {
		info.BilledEntityName = strings.TrimSpace(m[1])
	}

	if info.FormType == FormType471 {
		info.EstablishingForm470 = findEstablishing(text)
	}

	return info
}

func detectFormType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "form 471"):
		return FormType471
	case strings.Contains(lower, "form 470"):
		return FormType470
	case strings.Contains(lower, "471"):
		return FormType471
	case strings.Contains(lower, "470"):
		return FormType470
	default:
		return FormTypeUnknown
	}
}

func findEstablishing(text string) string {
	if m := establishPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := establishFallback.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return establishDigitRun.FindString(text)
}
