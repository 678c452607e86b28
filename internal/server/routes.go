// Package server exposes document processing over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/ingest"
	"github.com/joseph-ayodele/docclassify/internal/storage"
)

// DocumentProcessor classifies and persists documents.
type DocumentProcessor interface {
	Process(ctx context.Context, text, sourceIdentifier string) (*entity.ProcessedRecord, error)
	ProcessFile(ctx context.Context, path, sourceIdentifier string) (*entity.ProcessedRecord, error)
}

// DocumentReader is the read side of the document store.
type DocumentReader interface {
	ListAll(ctx context.Context) ([]*entity.ProcessedRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProcessedRecord, error)
}

type Exporter interface {
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// Deps are the collaborators the routes call into. Storage, Exporter,
// Ingestor, Health and Registry are optional.
type Deps struct {
	Processor DocumentProcessor
	Documents DocumentReader
	Exporter  Exporter
	Storage   storage.Storage
	Ingestor  ingest.Ingestor
	Health    HealthChecker
	Registry  *prometheus.Registry
	Logger    *slog.Logger

	BodyLimit int
	TempDir   string // where uploads are staged for OCR; "" uses the OS default
}

// New builds the fiber app with middleware and all routes registered.
func New(deps Deps) (*fiber.App, error) {
	if deps.Processor == nil || deps.Documents == nil {
		return nil, errors.New("server: processor and document reader are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	cfg := fiber.Config{
		ErrorHandler:          ErrorHandler(),
		DisableStartupMessage: true,
	}
	if deps.BodyLimit > 0 {
		cfg.BodyLimit = deps.BodyLimit
	}
	app := fiber.New(cfg)

	app.Use(RequestID())
	app.Use(Logger(deps.Logger))
	if deps.Registry != nil {
		pm, err := NewPrometheusMiddleware(deps.Registry)
		if err != nil {
			return nil, err
		}
		app.Use(pm.Handler())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	RegisterRoutes(app, deps)
	return app, nil
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	h := &handlers{deps: deps, logger: deps.Logger}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	app.Get("/health", h.health)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/documents", h.uploadDocument)
	app.Post("/documents/text", h.processText)
	app.Get("/documents", h.listDocuments)
	// registered before /documents/:id so the literal segment wins
	app.Get("/documents/export.xlsx", h.exportDocuments)
	app.Get("/documents/:id", h.getDocument)

	app.Post("/ingest/file", h.ingestFile)
	app.Post("/ingest/directory", h.ingestDirectory)
}

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

func (h *handlers) health(c *fiber.Ctx) error {
	if h.deps.Health != nil {
		if err := h.deps.Health.HealthCheck(c.UserContext(), 2*time.Second); err != nil {
			h.logger.Warn("health check failed", "error", err)
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}
