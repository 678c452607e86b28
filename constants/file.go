package constants

import "strings"

const (
	FormatPDF   = "PDF"
	FormatImage = "IMAGE"
)

// AllowedExtensions holds the file extensions accepted for upload and ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat returns FormatPDF or FormatImage, or "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return FormatPDF
	case "jpg", "jpeg", "png":
		return FormatImage
	default:
		return ""
	}
}
