package ingest

import (
	"context"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string `json:"source_path"`
	Source       string `json:"source_identifier"`
	HashHex      string `json:"sha256,omitempty"`
	Deduplicated bool   `json:"deduplicated"` // same bytes already seen earlier in this run
	Queued       bool   `json:"queued"`       // handed to the worker queue instead of processed inline
	RecordID     string `json:"record_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	FieldCount   int    `json:"field_count"`
	Err          string `json:"error,omitempty"`
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32 `json:"scanned"`
	Matched      uint32 `json:"matched"`
	Succeeded    uint32 `json:"succeeded"`
	Deduplicated uint32 `json:"deduplicated"`
	Failed       uint32 `json:"failed"`
}

// Ingestor is the behavior the server and CLIs depend on.
type Ingestor interface {
	// IngestPath processes (or queues) a single file.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
