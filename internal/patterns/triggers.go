package patterns

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/docclassify/constants"
)

// Keyword is a case-insensitive trigger. Word keywords must start at a word
// boundary but may run into the text that follows, as OCR often drops spaces.
type Keyword struct {
	Text string
	Word bool

	word *regexp.Regexp
}

// Matches reports whether the keyword occurs in lower, which must already be lower-cased.
func (k Keyword) Matches(lower string) bool {
	if !k.Word {
		return strings.Contains(lower, k.Text)
	}
	if k.word == nil {
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(k.Text)).MatchString(lower)
	}
	return k.word.MatchString(lower)
}

func word(text string) Keyword {
	return Keyword{Text: text, Word: true, word: regexp.MustCompile(`\b` + regexp.QuoteMeta(text))}
}

func substr(texts ...string) []Keyword {
	out := make([]Keyword, len(texts))
	for i, t := range texts {
		out[i] = Keyword{Text: t}
	}
	return out
}

// Trigger lists the keywords that identify one document type.
type Trigger struct {
	Type     constants.DocumentType
	Keywords []Keyword
}

// Matches reports whether any keyword occurs in the lower-cased text.
func (t Trigger) Matches(lower string) bool {
	for _, k := range t.Keywords {
		if k.Matches(lower) {
			return true
		}
	}
	return false
}

// defaultTriggers is ordered by priority: the first matching trigger decides the type.
func defaultTriggers() []Trigger {
	return []Trigger{
		{
			Type: constants.W2,
			Keywords: substr(
				"form w-2",
				"w-2 wage and tax",
				"wage and tax statement",
				"employer identification number",
				"wages, tips, other compensation",
			),
		},
		{
			Type: constants.Paystub,
			Keywords: substr(
				"pay stub",
				"paystub",
				"earnings statement",
				"net pay",
				"employee name/address",
			),
		},
		{
			Type: constants.DrivingLicense,
			Keywords: append(substr(
				"driver license",
				"driver's license",
				"driver licence",
			), word("dln")),
		},
		{
			Type: constants.Passport,
			Keywords: substr(
				"passport",
				"united states of america",
				"p<usa",
				"p<",
			),
		},
		{
			Type: constants.FloodCertificate,
			Keywords: substr(
				"flood hazard determination",
				"standard flood hazard determination form",
			),
		},
	}
}
