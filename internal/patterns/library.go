// Package patterns holds the static knowledge used to classify documents and
// pull key fields out of OCR text: type triggers in priority order and, per
// document type, the ordered fallback chains for every field.
package patterns

import (
	"github.com/joseph-ayodele/docclassify/constants"
)

// Library is an immutable registry of triggers and field rules. It is safe for concurrent use.
type Library struct {
	triggers []Trigger
	rules    map[constants.DocumentType][]Rule
}

// Default returns the built-in library.
func Default() *Library {
	return &Library{
		triggers: defaultTriggers(),
		rules: map[constants.DocumentType][]Rule{
			constants.Paystub:          paystubRules(),
			constants.DrivingLicense:   drivingLicenseRules(),
			constants.W2:               w2Rules(),
			constants.Passport:         passportRules(),
			constants.FloodCertificate: floodCertificateRules(),
		},
	}
}

// Triggers returns the type triggers in priority order.
func (l *Library) Triggers() []Trigger {
	out := make([]Trigger, len(l.triggers))
	copy(out, l.triggers)
	return out
}

// Rules returns the ordered field rules for t; ok is false for types without rules (Other).
func (l *Library) Rules(t constants.DocumentType) ([]Rule, bool) {
	rules, ok := l.rules[t]
	if !ok {
		return nil, false
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out, true
}

// Fields lists the field names produced for t, in output order.
func (l *Library) Fields(t constants.DocumentType) []string {
	rules := l.rules[t]
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Field
	}
	return names
}
