package patterns

import "regexp"

func passportRules() []Rule {
	return []Rule{
		{
			Field: "Country",
			Chain: []Strategy{
				Literal{Pattern: regexp.MustCompile(`(?i)United States of America`), Value: "USA"},
				MRZCountry,
			},
		},
		{
			Field: "Passport_number",
			Chain: []Strategy{
				MRZDocumentNumber,
				Regex{Pattern: regexp.MustCompile(`\b\d{8,10}\b`)},
			},
		},
		{
			Field: "Name",
			Chain: []Strategy{
				MRZName,
				LineScan{MinTokens: 2, MaxTokens: 3, StopWords: []string{"passport"}, Title: true},
			},
		},
	}
}
