package patterns

import "regexp"

func paystubRules() []Rule {
	return []Rule{
		{
			Field: "Employer_Name",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)EMPLOYER NAME/ADDRESS:\s*\n(.+)`)},
				Regex{Pattern: regexp.MustCompile(`(?i)EMPLOYER NAME(?:/ADDRESS)?:[ \t]*(\S[^\n]*)`)},
			},
		},
		{
			Field: "Employee_Name",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)EMPLOYEE NAME/ADDRESS:\s*\n(.+)`)},
				Regex{Pattern: regexp.MustCompile(`(?i)EMPLOYEE NAME(?:/ADDRESS)?:[ \t]*(\S[^\n]*)`)},
			},
		},
		{
			Field: "Net_Pay",
			Chain: []Strategy{
				Regex{Pattern: regexp.MustCompile(`(?i)NET PAY\s*([\d,]+\.\d{2})`)},
				Regex{Pattern: regexp.MustCompile(`(?i)NET PAY[\s:]*\$\s*([\d,]+\.\d{2})`)},
			},
		},
	}
}
