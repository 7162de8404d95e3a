package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/relay/internal/board"
)

// Sections holds the resolved workflow sections of the project board.
// GIDs are resolved once at engine construction; a missing section is a
// configuration failure, not something to discover mid-pass.
type Sections struct {
	Intake     board.Section
	Processing board.Section
	Issues     board.Section
	Manual     board.Section
}

// ResolveSections maps workflow section roles to board sections. The
// intake section is matched by its configured display name; the others
// are matched by naming convention within the project ("processing",
// "issues", "manual").
func ResolveSections(ctx context.Context, b board.System, intakeName string) (*Sections, error) {
	sections, err := b.Sections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list project sections: %w", err)
	}

	resolved := &Sections{}

	for _, s := range sections {
		name := strings.ToLower(s.Name)
		switch {
		case strings.EqualFold(s.Name, intakeName):
			resolved.Intake = s
		case strings.Contains(name, "processing"):
			resolved.Processing = s
		case strings.Contains(name, "issues"):
			resolved.Issues = s
		case strings.Contains(name, "manual"):
			resolved.Manual = s
		}
	}

	switch {
	case resolved.Intake.GID == "":
		return nil, fmt.Errorf("%w: %q", ErrSectionMissing, intakeName)
	case resolved.Processing.GID == "":
		return nil, fmt.Errorf("%w: processing", ErrSectionMissing)
	case resolved.Issues.GID == "":
		return nil, fmt.Errorf("%w: issues", ErrSectionMissing)
	case resolved.Manual.GID == "":
		return nil, fmt.Errorf("%w: manual follow-up", ErrSectionMissing)
	}

	return resolved, nil
}
