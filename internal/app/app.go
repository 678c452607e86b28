// Package app wires configuration into the database, pipeline and export
// services shared by the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/export"
	"github.com/joseph-ayodele/docclassify/internal/metrics"
	"github.com/joseph-ayodele/docclassify/internal/ocr"
	"github.com/joseph-ayodele/docclassify/internal/pipeline"
	"github.com/joseph-ayodele/docclassify/internal/repository"
	"github.com/joseph-ayodele/docclassify/internal/storage"
)

// Options tweak what Open builds.
type Options struct {
	InMemory    bool // ignore DB_URL and use a throwaway SQLite database
	WithStorage bool // open the upload archive (local dir or MinIO)
	WithMetrics bool // register collectors on a fresh prometheus registry
	DryRun      bool // process without persisting records
}

// App holds the wired services. Close releases the database.
type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	DB        *repository.DB
	Documents repository.DocumentRepository
	Processor *pipeline.Processor
	Exporter  *export.Service
	Storage   storage.Storage
	Registry  *prometheus.Registry
}

// NewLogger returns a JSON slog logger at the named level (debug, info, warn, error).
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OCRConfig maps the environment settings onto the extractor's config.
func OCRConfig(c common.OCRConfig) ocr.Config {
	return ocr.Config{
		Pdftoppm:            c.PdftoppmBin,
		Tesseract:           c.TesseractBin,
		TesseractLang:       c.Lang,
		DPI:                 c.DPI,
		TessdataDir:         c.TessdataDir,
		PSM:                 c.PSM,
		OEM:                 c.OEM,
		EnableTSVConfidence: c.TSVConfidence,
		MinTextLayerChars:   c.MinTextLayerChars,
		TempDir:             c.ArtifactCacheDir,
	}
}

// Open connects and migrates the database, then builds the pipeline on top of it.
func Open(ctx context.Context, cfg *common.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dir := cfg.OCR.ArtifactCacheDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact dir: %w", err)
		}
	}

	dbCfg := repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}
	if opts.InMemory {
		dbCfg.DSN = ":memory:"
	}
	db, err := repository.Open(ctx, dbCfg, logger)
	if err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "open database", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	a := &App{Config: cfg, Logger: logger, DB: db}

	if err := repository.Migrate(ctx, db); err != nil {
		a.Close()
		return nil, err
	}
	a.Documents = repository.NewDocumentRepository(db, logger)

	var popts []pipeline.Option
	if opts.WithMetrics {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec, err := metrics.NewRecorder(a.Registry)
		if err != nil {
			a.Close()
			return nil, err
		}
		popts = append(popts, pipeline.WithMetrics(rec))
	}

	var saver pipeline.RecordSaver = a.Documents
	if opts.DryRun {
		saver = nil
	}
	stage := pipeline.NewOCRStage(ocr.NewExtractor(OCRConfig(cfg.OCR), logger), logger)
	a.Processor, err = pipeline.NewProcessor(logger, saver, stage, popts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Exporter = export.NewService(a.Documents, nil, logger)

	if opts.WithStorage {
		a.Storage, err = storage.New(cfg.Storage)
		if err != nil {
			a.Close()
			return nil, common.NewAppError(common.CodeStorage, "open storage", fmt.Errorf("%w: %v", common.ErrStorage, err))
		}
	}
	return a, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
