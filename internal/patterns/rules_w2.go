package patterns

import (
	"regexp"
	"strings"
)

// ocrDigits repairs the letter O read in place of a zero.
var ocrDigits = strings.NewReplacer("O", "0", "o", "0")

func plausibleYear(v string) bool {
	return len(v) == 4 && strings.HasPrefix(v, "20")
}

func w2Rules() []Rule {
	return []Rule{
		{
			Field: "EIN",
			Chain: []Strategy{
				After{
					Label: regexp.MustCompile(`(?i)Employer identification number`),
					Then:  Regex{Pattern: regexp.MustCompile(`([0-9][0-9\-]{8,})`)},
				},
				Regex{Pattern: regexp.MustCompile(`\b\d{2}-\d{7}\b`)},
			},
		},
		{
			Field: "Year",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`\b(20\d{2})\b`), Last: true},
				Regex{
					Pattern: regexp.MustCompile(`\b2[0O][0-9O]{2}\b`),
					Last:    true,
					Map:     ocrDigits.Replace,
					Check:   plausibleYear,
				},
			},
		},
		{
			Field: "Employee_Name",
			Chain: []Strategy{
				Region{
					Start: regexp.MustCompile(`(?i)Employee['’]?s first name and initial`),
					End:   regexp.MustCompile(`(?i)Employee['’]?s address and ZIP code`),
					Then: Regex{
						Pattern: regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`),
						Groups:  []int{1, 2},
					},
				},
			},
		},
	}
}
