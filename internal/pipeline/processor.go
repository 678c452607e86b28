// Package pipeline wires classification and field extraction into the
// process(text, source) operation and its file based variant.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/classify"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/extract"
	"github.com/joseph-ayodele/docclassify/internal/metrics"
	"github.com/joseph-ayodele/docclassify/internal/patterns"
)

// Processor classifies text, extracts its key fields and hands the record to persistence.
// It holds no per-call state and is safe for concurrent use.
type Processor struct {
	Logger     *slog.Logger
	Classifier *classify.Classifier
	Extractors *extract.Set
	Validator  *extract.Validator
	Records    RecordSaver
	OCR        *OCRStage
	Metrics    *metrics.Recorder

	lib   *patterns.Library
	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*Processor)

// WithClock overrides the timestamp source for ProcessedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithIDs overrides record id generation.
func WithIDs(newID func() uuid.UUID) Option {
	return func(p *Processor) { p.newID = newID }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(p *Processor) { p.Metrics = m }
}

// WithLibrary replaces the built-in pattern library.
func WithLibrary(lib *patterns.Library) Option {
	return func(p *Processor) { p.lib = lib }
}

// NewProcessor builds a processor over the default pattern library. records may be nil
// for dry runs; ocrStage may be nil when only Process is used.
func NewProcessor(logger *slog.Logger, records RecordSaver, ocrStage *OCRStage, opts ...Option) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		Logger:  logger,
		Records: records,
		OCR:     ocrStage,
		lib:     patterns.Default(),
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(p)
	}

	v, err := extract.NewValidator(p.lib)
	if err != nil {
		return nil, fmt.Errorf("build field validator: %w", err)
	}
	p.Validator = v
	p.Classifier = classify.NewClassifier(p.lib, p.Logger)
	p.Extractors = extract.NewSet(p.lib, p.Logger)
	return p, nil
}

// Analyze is the pure core: classify, then extract the fields for that type.
func (p *Processor) Analyze(text string) (constants.DocumentType, entity.FieldMap) {
	docType := p.Classifier.Classify(text)
	return docType, p.Extractors.Extract(docType, text)
}

// Process turns recognized text into a ProcessedRecord and saves it.
// When saving fails the record is still returned alongside the error.
func (p *Processor) Process(ctx context.Context, text, sourceIdentifier string) (*entity.ProcessedRecord, error) {
	docType, fields := p.Analyze(text)

	if err := p.Validator.Validate(docType, fields); err != nil {
		p.Metrics.Failed("validate")
		p.Logger.Error("extracted fields rejected", "source_identifier", sourceIdentifier, "document_type", docType, "error", err)
		return nil, common.NewAppError(common.CodeValidation, "extracted fields failed validation", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}

	rec := &entity.ProcessedRecord{
		ID:               p.newID(),
		SourceIdentifier: sourceIdentifier,
		DocumentType:     docType,
		Fields:           fields,
		ProcessedAt:      p.now().UTC(),
	}

	if p.Records != nil {
		if err := p.Records.Save(ctx, rec); err != nil {
			p.Metrics.Failed("save")
			p.Logger.Error("save processed record failed", "source_identifier", sourceIdentifier, "record_id", rec.ID, "error", err)
			return rec, fmt.Errorf("save record: %w", err)
		}
	}

	p.Metrics.Processed(docType, fields.Len())
	p.Logger.Info("document processed",
		"source_identifier", sourceIdentifier,
		"record_id", rec.ID,
		"document_type", docType,
		"fields", fields.Keys(),
	)
	return rec, nil
}

// ProcessFile recognizes the file's text and processes it. An empty sourceIdentifier
// defaults to the file's base name.
func (p *Processor) ProcessFile(ctx context.Context, path, sourceIdentifier string) (*entity.ProcessedRecord, error) {
	if p.OCR == nil {
		return nil, common.NewAppError(common.CodeInternal, "processor has no OCR stage", common.ErrInternal)
	}
	if sourceIdentifier == "" {
		sourceIdentifier = filepath.Base(path)
	}
	ctx = common.WithSource(ctx, sourceIdentifier)

	res, err := p.OCR.Run(ctx, path)
	if err != nil {
		p.Metrics.Failed("ocr")
		p.Logger.Error("ocr failed", "path", path, "source_identifier", sourceIdentifier, "error", err)
		return nil, err
	}
	p.Logger.Debug("ocr ok",
		"source_identifier", sourceIdentifier,
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
	)
	return p.Process(ctx, res.Text, sourceIdentifier)
}
