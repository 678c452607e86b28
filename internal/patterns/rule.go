package patterns

import "strings"

// Rule names one output field and the ordered strategies that may fill it.
type Rule struct {
	Field string
	Chain []Strategy
}

// Apply tries each strategy in order and returns the first non-empty value.
// Later strategies are not attempted once one succeeds.
func (r Rule) Apply(text string) (string, bool) {
	for _, s := range r.Chain {
		if v, ok := s.Apply(text); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}
