package constants

import (
	"strings"
)

// DocumentType is the closed set of document kinds the classifier can produce.
type DocumentType string

const (
	W2               DocumentType = "W2"
	Paystub          DocumentType = "Paystub"
	DrivingLicense   DocumentType = "DrivingLicense"
	Passport         DocumentType = "Passport"
	FloodCertificate DocumentType = "FloodCertificate"
	Other            DocumentType = "Other"
)

var allDocumentTypes = []DocumentType{
	W2,
	Paystub,
	DrivingLicense,
	Passport,
	FloodCertificate,
	Other,
}

// AllDocumentTypes returns every document type, Other last.
func AllDocumentTypes() []DocumentType {
	out := make([]DocumentType, len(allDocumentTypes))
	copy(out, allDocumentTypes)
	return out
}

// Label is the human readable name used in listings and exports.
func (t DocumentType) Label() string {
	switch t {
	case W2:
		return "W2"
	case Paystub:
		return "Paystub"
	case DrivingLicense:
		return "Driving License"
	case Passport:
		return "Passport"
	case FloodCertificate:
		return "Flood Certificate"
	default:
		return "Others"
	}
}

func (t DocumentType) Valid() bool {
	for _, known := range allDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Canonicalize maps a stored or display label back to a DocumentType.
func Canonicalize(input string) (DocumentType, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]DocumentType{
		"w-2":               W2,
		"form w-2":          W2,
		"pay stub":          Paystub,
		"driving license":   DrivingLicense,
		"driver license":    DrivingLicense,
		"driver's license":  DrivingLicense,
		"flood certificate": FloodCertificate,
		"others":            Other,
	}

	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allDocumentTypes {
		if normalized == strings.ToLower(string(t)) {
			return t, true
		}
	}

	return Other, false
}
