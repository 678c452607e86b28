package patterns

import (
	"regexp"
	"strings"
)

// MRZ holds the two machine readable zone lines of a passport data page.
type MRZ struct {
	Line1 string
	Line2 string
}

// FindMRZ locates the first trimmed, non-empty line starting with "P<" and the line after it.
func FindMRZ(text string) (MRZ, bool) {
	lines := Lines(text)
	for i, l := range lines {
		if !strings.HasPrefix(l, "P<") {
			continue
		}
		m := MRZ{Line1: l}
		if i+1 < len(lines) {
			m.Line2 = lines[i+1]
		}
		return m, true
	}
	return MRZ{}, false
}

// Name returns "Given Names Surname" in title case. A line without the "<<"
// separator between surname and given names is treated as malformed.
func (m MRZ) Name() (string, bool) {
	if len(m.Line1) <= 5 {
		return "", false
	}
	surname, given, found := strings.Cut(m.Line1[5:], "<<")
	if !found {
		return "", false
	}
	surname = strings.Join(strings.Fields(strings.ReplaceAll(surname, "<", " ")), " ")
	given = strings.Join(strings.Fields(strings.ReplaceAll(given, "<", " ")), " ")
	name := strings.TrimSpace(TitleCase(given) + " " + TitleCase(surname))
	return name, name != ""
}

// Country returns the issuing state code (positions 3-5 of line 1) of a well-formed MRZ.
func (m MRZ) Country() (string, bool) {
	if _, ok := m.Name(); !ok {
		return "", false
	}
	code := strings.Trim(m.Line1[2:5], "<")
	return code, code != ""
}

var (
	mrzDocumentField = regexp.MustCompile(`^([A-Z0-9<]{9})`)
	mrzAlnumRun      = regexp.MustCompile(`([A-Z0-9]{8,10})`)
)

// DocumentNumber reads the nine character document number field at the start of line 2,
// falling back to the first 8-10 character alphanumeric run on that line that contains a digit.
func (m MRZ) DocumentNumber() (string, bool) {
	if m.Line2 == "" {
		return "", false
	}
	if sub := mrzDocumentField.FindStringSubmatch(m.Line2); sub != nil {
		num := strings.Trim(sub[1], "<")
		if len(num) >= 6 && !strings.Contains(num, "<") && hasDigit(num) {
			return num, true
		}
	}
	for _, run := range mrzAlnumRun.FindAllString(m.Line2, -1) {
		if hasDigit(run) {
			return run, true
		}
	}
	return "", false
}

// MRZName, MRZCountry and MRZDocumentNumber expose MRZ parsing as chain strategies.
var (
	MRZName           Strategy = mrzStrategy(MRZ.Name)
	MRZCountry        Strategy = mrzStrategy(MRZ.Country)
	MRZDocumentNumber Strategy = mrzStrategy(MRZ.DocumentNumber)
)

func mrzStrategy(read func(MRZ) (string, bool)) Strategy {
	return StrategyFunc(func(text string) (string, bool) {
		m, ok := FindMRZ(text)
		if !ok {
			return "", false
		}
		return read(m)
	})
}
