package pipeline

import (
	"context"

	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/ocr"
)

// TextExtractor turns a source file into recognized text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// RecordSaver persists processed records. It is the write half of repository.DocumentRepository.
type RecordSaver interface {
	Save(ctx context.Context, rec *entity.ProcessedRecord) error
}
