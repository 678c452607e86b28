package patterns

import (
	"regexp"
	"strings"
)

func floodCertificateRules() []Rule {
	return []Rule{
		{
			Field: "Borrower_name",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)Borrower:\s*([A-Z ,]+)`), Map: trimTitle},
				Regex{Pattern: regexp.MustCompile(`(?i)\bBorrower(?:'?s)?(?:\s+Name\s*[:\-]?|\s*[:\-])[ \t]*([A-Z][A-Za-z ,.'\-]+)`), Map: trimTitle},
			},
		},
		{
			Field: "Customer_No",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)Customer\s+Number\s*([0-9]+)`)},
				Regex{Pattern: regexp.MustCompile(`(?i)Customer\s+No\.?\s*[:#]?\s*([0-9]+)`)},
			},
		},
		{
			Field: "Expire_date",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)Expires:\s*([0-9/\-]+)`)},
				Regex{Pattern: regexp.MustCompile(`(?i)Expiration\s+Date\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)},
			},
		},
	}
}

func trimTitle(v string) string {
	return TitleCase(strings.Trim(v, " ,"))
}
