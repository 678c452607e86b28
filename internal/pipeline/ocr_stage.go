package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/ocr"
)

type OCRStage struct {
	TextExtractor TextExtractor
	Logger        *slog.Logger
}

func NewOCRStage(tx TextExtractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{TextExtractor: tx, Logger: logger}
}

// Run recognizes the text of path. Low confidence image results are logged for review
// but still returned; classification falls back to Other on unreadable text.
func (s *OCRStage) Run(ctx context.Context, path string) (ocr.ExtractionResult, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return ocr.ExtractionResult{}, common.InvalidInputErrorf("unsupported file type: %s", filepath.Ext(path))
	}

	res, err := s.TextExtractor.Extract(ctx, path)
	if err != nil {
		return res, common.NewAppError(common.CodeOCR, fmt.Sprintf("recognize %s", filepath.Base(path)), fmt.Errorf("%w: %v", common.ErrOCR, err))
	}

	for _, w := range res.Warnings {
		if w != "" {
			s.Logger.Warn("ocr warning", "path", path, "warning", w)
		}
	}
	if format == constants.FormatImage && res.Confidence > 0 && res.Confidence < ocr.ImageConfidenceThreshold {
		s.Logger.Warn("image ocr confidence low; needs review", "path", path, "confidence", res.Confidence)
	}
	return res, nil
}
