package patterns

import (
	"regexp"
	"strings"
)

// Strategy produces one candidate value for a field from document text.
// Implementations never fail; ok=false means the strategy did not find anything.
type Strategy interface {
	Apply(text string) (value string, ok bool)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(text string) (string, bool)

func (f StrategyFunc) Apply(text string) (string, bool) { return f(text) }

// Regex captures from the first (or, with Last, the final) match of Pattern.
type Regex struct {
	Pattern *regexp.Regexp
	// Groups are joined with a single space. Nil selects group 1, or the whole
	// match when the pattern has no capture groups.
	Groups []int
	Last   bool
	// Map rewrites the captured value, Check rejects implausible results.
	Map   func(string) string
	Check func(string) bool
}

func (r Regex) Apply(text string) (string, bool) {
	var m []string
	if r.Last {
		all := r.Pattern.FindAllStringSubmatch(text, -1)
		if len(all) == 0 {
			return "", false
		}
		m = all[len(all)-1]
	} else {
		m = r.Pattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
	}

	groups := r.Groups
	if groups == nil {
		groups = []int{0}
		if len(m) > 1 {
			groups = []int{1}
		}
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if g < len(m) {
			if p := strings.TrimSpace(m[g]); p != "" {
				parts = append(parts, p)
			}
		}
	}
	return finish(strings.Join(parts, " "), r.Map, r.Check)
}

// After narrows the text to what follows the first match of Label.
type After struct {
	Label *regexp.Regexp
	Then  Strategy
}

func (a After) Apply(text string) (string, bool) {
	loc := a.Label.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return a.Then.Apply(text[loc[1]:])
}

// Region narrows the text to the span after Start and before End.
// Without a Start match the whole text is searched; End is only honoured after Start.
type Region struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
	Then  Strategy
}

func (r Region) Apply(text string) (string, bool) {
	region := text
	if loc := r.Start.FindStringIndex(text); loc != nil {
		region = text[loc[1]:]
		if r.End != nil {
			if end := r.End.FindStringIndex(region); end != nil {
				region = region[:end[0]]
			}
		}
	}
	return r.Then.Apply(region)
}

// LineScan picks the first upper-case, digit-free line with a token count in
// [MinTokens, MaxTokens] that contains none of StopWords (lower-case substrings).
type LineScan struct {
	MinTokens int
	MaxTokens int
	StopWords []string
	Title     bool
}

func (s LineScan) Apply(text string) (string, bool) {
	for _, line := range Lines(text) {
		if hasDigit(line) || !isUpperLine(line) {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < s.MinTokens || len(tokens) > s.MaxTokens {
			continue
		}
		if containsAny(strings.ToLower(line), s.StopWords) {
			continue
		}
		v := strings.Join(tokens, " ")
		if s.Title {
			v = TitleCase(v)
		}
		return v, true
	}
	return "", false
}

// Literal yields Value whenever Pattern matches anywhere in the text.
type Literal struct {
	Pattern *regexp.Regexp
	Value   string
}

func (l Literal) Apply(text string) (string, bool) {
	if l.Pattern.MatchString(text) {
		return l.Value, l.Value != ""
	}
	return "", false
}

func finish(v string, mapFn func(string) string, check func(string) bool) (string, bool) {
	if mapFn != nil {
		v = mapFn(v)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if check != nil && !check(v) {
		return "", false
	}
	return v, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
