package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/patterns"
)

// Set routes text to the extractor registered for a document type.
type Set struct {
	extractors map[constants.DocumentType]FieldExtractor
	logger     *slog.Logger
}

// NewSet registers one RuleExtractor per document type that has rules in lib.
// A nil library uses patterns.Default().
func NewSet(lib *patterns.Library, logger *slog.Logger) *Set {
	if lib == nil {
		lib = patterns.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Set{extractors: make(map[constants.DocumentType]FieldExtractor), logger: logger}
	for _, t := range constants.AllDocumentTypes() {
		if rules, ok := lib.Rules(t); ok {
			s.Register(NewRuleExtractor(t, rules))
		}
	}
	return s
}

// Register adds or replaces the extractor for fe.Type().
func (s *Set) Register(fe FieldExtractor) {
	s.extractors[fe.Type()] = fe
}

// Extract returns the key fields for a document already classified as t.
// Types without an extractor, such as Other, yield an empty map.
func (s *Set) Extract(t constants.DocumentType, text string) entity.FieldMap {
	fe, ok := s.extractors[t]
	if !ok {
		return entity.FieldMap{}
	}
	fields := fe.Extract(text)
	s.logger.Debug("fields extracted", "document_type", t, "fields", fields.Keys())
	return fields
}
