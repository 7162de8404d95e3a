package workflow

import (
	"log/slog"

	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/forms"
	"github.com/JaimeStill/relay/internal/registry"
)

// Runtime bundles the collaborators that workflow nodes require.
// It is constructed by the engine from infrastructure and domain systems.
type Runtime struct {
	Board      board.System
	Extractor  forms.Extractor
	Registry   registry.System
	Fetcher    URLFetcher
	ScratchDir string
	Logger     *slog.Logger
}
