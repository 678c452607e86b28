package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/docclassify/internal/app"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		textFile = flag.String("text", "", "path to already recognized text; skips OCR")
		source   = flag.String("source", "", "source identifier to record (defaults to the file name)")
		save     = flag.Bool("save", true, "persist the processed record")
		inmem    = flag.Bool("inmem", false, "use in-memory SQLite database")
		timeout  = flag.Duration("timeout", 2*time.Minute, "overall timeout")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	logger := app.NewLogger(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	if (*textFile == "") == (flag.NArg() != 1) {
		logger.Error("usage", "cmd", "classify [-save=false] <document.pdf|png|jpg> | classify -text <file.txt>")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.Open(ctx, cfg, logger, app.Options{InMemory: *inmem, DryRun: !*save})
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer a.Close()

	start := time.Now()
	var (
		path = flag.Arg(0)
		rec  *entity.ProcessedRecord
	)
	if *textFile != "" {
		path = *textFile
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Error("read text file", "path", path, "error", readErr)
			return 1
		}
		if *source == "" {
			*source = filepath.Base(path)
		}
		rec, err = a.Processor.Process(ctx, string(raw), *source)
	} else {
		rec, err = a.Processor.ProcessFile(ctx, path, *source)
	}

	// a record that failed to save is still printed
	if rec != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(rec); encErr != nil {
			logger.Error("encode record", "error", encErr)
		}
	}
	if err != nil {
		logger.Error("classification failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return 1
	}
	logger.Info("classification OK",
		"path", path,
		"document_type", rec.DocumentType,
		"fields", rec.Fields.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return 0
}
