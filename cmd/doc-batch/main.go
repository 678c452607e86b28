package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/docclassify/internal/app"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inmem      = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir        = flag.String("dir", "", "directory to process documents from (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		workers    = flag.Int("workers", 4, "documents processed concurrently")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		return 1
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "documents.xlsx")
	}
	if *workers <= 0 {
		*workers = 1
	}

	cfg := common.LoadConfig()
	logger := app.NewLogger(cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.Open(ctx, cfg, logger, app.Options{InMemory: *inmem})
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return 1
	}
	defer a.Close()

	logger.Info("starting ingestion", "dir", *dir)
	paths, stats, err := ingest.Walk(ctx, *dir, *skipHidden)
	if err != nil {
		logger.Error("failed to walk directory", "error", err)
		return 1
	}
	logger.Info("discovery complete", "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)

	var processed, failures atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			rec, err := a.Processor.ProcessFile(gctx, path, filepath.Base(path))
			if err != nil {
				logger.Error("failed to process file", "path", path, "error", err)
				failures.Add(1)
				// a cancelled run stops the remaining files; per-file failures do not
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return nil
			}
			logger.Info("processed file", "path", path, "document_type", rec.DocumentType, "fields", rec.Fields.Len())
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("batch interrupted", "error", err)
		return 1
	}

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := a.Exporter.ExportXLSX(ctx)
	if err != nil {
		logger.Error("failed to export documents", "error", err)
		return 1
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		return 1
	}

	logger.Info("batch processing complete",
		"files_found", len(paths),
		"files_processed", processed.Load(),
		"failures", failures.Load(),
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files found: %d\n", len(paths))
	fmt.Printf("- Files processed: %d\n", processed.Load())
	fmt.Printf("- Failures: %d\n", failures.Load())
	fmt.Printf("- Output: %s\n", *out)
	return 0
}
