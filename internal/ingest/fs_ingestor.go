package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/async"
	"github.com/joseph-ayodele/docclassify/internal/common"
)

// FSIngestor reads documents from the local filesystem and runs them through
// the processor, or hands them to Queue when one is configured.
type FSIngestor struct {
	Processor async.FileProcessor
	Queue     async.Queue
	logger    *slog.Logger
}

func NewFSIngestor(p async.FileProcessor, q async.Queue, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{Processor: p, Queue: q, logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	return i.ingest(ctx, path, nil)
}

// ingest handles one file. seen holds content hashes already ingested in the
// current directory run; nil disables duplicate detection.
func (i *FSIngestor) ingest(ctx context.Context, path string, seen map[string]struct{}) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		i.logger.Error("abs path error", "path", path, "error", err)
		return out, err
	}
	out.SourcePath = abs
	out.Source = filepath.Base(abs)

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.logger.Warn("unsupported or missing extension", "path", abs, "ext", ext)
		return out, common.InvalidInputErrorf("unsupported or missing extension %q", ext)
	}

	sum, err := hashFile(abs)
	if err != nil {
		i.logger.Error("hash error", "path", abs, "error", err)
		return out, err
	}
	out.HashHex = sum
	if seen != nil {
		if _, dup := seen[sum]; dup {
			out.Deduplicated = true
			i.logger.Info("skipping duplicate content", "path", abs, "sha256", sum)
			return out, nil
		}
		seen[sum] = struct{}{}
	}

	if i.Queue != nil {
		if err := i.Queue.Enqueue(ctx, async.Job{
			Path:      abs,
			Source:    out.Source,
			RequestID: common.RequestIDFromContext(ctx),
		}); err != nil {
			return out, err
		}
		out.Queued = true
		return out, nil
	}

	rec, err := i.Processor.ProcessFile(ctx, abs, out.Source)
	if rec != nil {
		out.RecordID = rec.ID.String()
		out.DocumentType = string(rec.DocumentType)
		out.FieldCount = rec.Fields.Len()
	}
	if err != nil {
		return out, err
	}
	return out, nil
}

// Walk returns the paths of every supported document under root, skipping
// hidden entries when requested.
func Walk(ctx context.Context, root string, skipHidden bool) ([]string, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, common.InvalidInputError("root_path is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, nil
}

// IngestDirectory walks root, skips hidden if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	paths, stats, err := Walk(ctx, root, skipHidden)
	if err != nil {
		i.logger.Error("directory walk failed", "root", root, "error", err)
		return nil, stats, err
	}

	seen := map[string]struct{}{}
	results := make([]IngestionResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}
		r, err := i.ingest(ctx, path, seen)
		if err != nil {
			r.Err = err.Error()
			if r.SourcePath == "" {
				r.SourcePath = path
			}
			results = append(results, r)
			stats.Failed++
			continue
		}
		results = append(results, r)
		if r.Deduplicated {
			stats.Deduplicated++
			continue
		}
		stats.Succeeded++
	}

	i.logger.Info("directory ingest completed",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed)
	return results, stats, nil
}
