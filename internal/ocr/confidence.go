package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-](19|20)\d{2}\b|\b(19|20)\d{2}\b`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{3})*\.\d{2}\b`)
	reLabel  = regexp.MustCompile(`(?m)^[A-Za-z][A-Za-z '/]{2,40}:`)
	reMRZ    = regexp.MustCompile(`<<`)
)

// heuristicConfidence scores decoded text by the signals identity and payroll
// documents usually carry: dates, amounts, labelled fields and MRZ fillers.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2)
	if reDate.MatchString(txt) {
		score += 0.2
	}
	if reAmount.MatchString(txt) {
		score += 0.1
	}
	if reLabel.MatchString(txt) || reMRZ.MatchString(txt) {
		score += 0.15
	}
	if len(strings.Fields(txt)) >= 20 {
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
