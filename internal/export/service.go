package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/patterns"
)

// SummarySheet lists every processed document, one row each, in processing order.
const SummarySheet = "Documents"

// DocumentLister is the read side of the document store.
type DocumentLister interface {
	ListAll(ctx context.Context) ([]*entity.ProcessedRecord, error)
}

// Service is a tiny façade over the document store that produces XLSX bytes for exports.
type Service struct {
	docs   DocumentLister
	lib    *patterns.Library
	logger *slog.Logger
}

func NewService(docs DocumentLister, lib *patterns.Library, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if lib == nil {
		lib = patterns.Default()
	}
	return &Service{docs: docs, lib: lib, logger: logger}
}

// ExportXLSX returns a workbook with the summary sheet plus one sheet per
// document type, each with a column per extracted field.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.docs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close failed", "error", err)
		}
	}()

	// rename the default sheet so the summary comes first
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, err
	}
	if err := s.writeSummary(f, recs); err != nil {
		return nil, err
	}

	byType := map[constants.DocumentType][]*entity.ProcessedRecord{}
	for _, r := range recs {
		byType[r.DocumentType] = append(byType[r.DocumentType], r)
	}
	for _, t := range constants.AllDocumentTypes() {
		if t == constants.Other {
			continue
		}
		if err := s.writeTypeSheet(f, t, byType[t]); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, recs []*entity.ProcessedRecord) error {
	headers := []string{"S.No", "Name of Document", "Type of Document", "Key Fields", "Datetime"}
	if err := writeRow(f, SummarySheet, 1, toAny(headers)); err != nil {
		return err
	}

	for i, r := range recs {
		row := []any{
			i + 1,
			r.SourceIdentifier,
			r.DocumentType.Label(),
			r.Fields.String(),
			r.ProcessedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 6)
	_ = f.SetColWidth(SummarySheet, "B", "B", 36)
	_ = f.SetColWidth(SummarySheet, "C", "C", 18)
	_ = f.SetColWidth(SummarySheet, "D", "D", 80)
	_ = f.SetColWidth(SummarySheet, "E", "E", 20)
	return nil
}

func (s *Service) writeTypeSheet(f *excelize.File, t constants.DocumentType, recs []*entity.ProcessedRecord) error {
	sheet := t.Label()
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	fields := s.lib.Fields(t)
	headers := append([]string{"S.No", "Name of Document"}, fields...)
	if err := writeRow(f, sheet, 1, toAny(headers)); err != nil {
		return err
	}

	for i, r := range recs {
		row := []any{i + 1, r.SourceIdentifier}
		for _, name := range fields {
			v, _ := r.Fields.Get(name)
			row = append(row, v)
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "B", "B", 36)
	if len(fields) > 0 {
		last, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetColWidth(sheet, "C", last, 24)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
