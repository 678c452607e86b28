package extract

import (
	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/entity"
)

// FieldExtractor pulls the key fields of one document type out of OCR text.
// Implementations never fail: fields that cannot be found are left out of the map.
type FieldExtractor interface {
	Type() constants.DocumentType
	Extract(text string) entity.FieldMap
}
