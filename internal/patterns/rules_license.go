package patterns

import "regexp"

var licenseNameStopWords = []string{"arizona", "driver", "license", "licence", "usa", "veteran"}

func drivingLicenseRules() []Rule {
	return []Rule{
		{
			Field: "DL_number",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)\bDLN?\s*[:#]?\s*([A-Z0-9]{6,})`)},
				Regex{Pattern: regexp.MustCompile(`\b([A-Z]\d{6,})\b`)},
			},
		},
		{
			Field: "DOB",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)DOB\s*[:#]?\s*(\d{2}/\d{2}/\d{4})`)},
				Regex{Pattern: regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)},
			},
		},
		{
			Field: "Name",
			Chain: []Strategy{
				LineScan{MinTokens: 2, MaxTokens: 2, StopWords: licenseNameStopWords, Title: true},
			},
		},
	}
}
