package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docclassify/constants"
)

// ProcessedRecord is the outcome of one pipeline run over one source document.
// Records are created once and never updated.
type ProcessedRecord struct {
	ID               uuid.UUID              `json:"id"`
	SourceIdentifier string                 `json:"source_identifier"`
	DocumentType     constants.DocumentType `json:"document_type"`
	Fields           FieldMap               `json:"key_fields"`
	ProcessedAt      time.Time              `json:"processed_at"`
}
