package extract

import (
	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/patterns"
)

// RuleExtractor interprets the ordered field rules of one document type.
type RuleExtractor struct {
	docType constants.DocumentType
	rules   []patterns.Rule
}

func NewRuleExtractor(t constants.DocumentType, rules []patterns.Rule) *RuleExtractor {
	return &RuleExtractor{docType: t, rules: rules}
}

func (e *RuleExtractor) Type() constants.DocumentType { return e.docType }

// Extract evaluates every rule against text. Fields appear in rule order;
// a rule whose chain finds nothing contributes no key.
func (e *RuleExtractor) Extract(text string) entity.FieldMap {
	var fields entity.FieldMap
	for _, r := range e.rules {
		if v, ok := r.Apply(text); ok {
			fields.Set(r.Field, v)
		}
	}
	return fields
}
