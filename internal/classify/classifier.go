package classify

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/patterns"
)

// Classifier assigns exactly one DocumentType to a piece of OCR text.
type Classifier struct {
	triggers []patterns.Trigger
	logger   *slog.Logger
}

// NewClassifier builds a classifier over the library's triggers. A nil library uses patterns.Default().
func NewClassifier(lib *patterns.Library, logger *slog.Logger) *Classifier {
	if lib == nil {
		lib = patterns.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{triggers: lib.Triggers(), logger: logger}
}

// Classify returns the first type, in priority order, whose keywords occur in text,
// or constants.Other when none do.
func (c *Classifier) Classify(text string) constants.DocumentType {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return constants.Other
	}
	for _, t := range c.triggers {
		if t.Matches(lower) {
			c.logger.Debug("document classified", "document_type", t.Type)
			return t.Type
		}
	}
	return constants.Other
}
