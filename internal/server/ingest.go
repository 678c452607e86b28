package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/ingest"
)

type ingestFileRequest struct {
	Path string `json:"path"`
}

type ingestDirectoryRequest struct {
	RootPath   string `json:"root_path"`
	SkipHidden *bool  `json:"skip_hidden"`
}

type ingestDirectoryResponse struct {
	Statistics ingest.DirStats          `json:"statistics"`
	Results    []ingest.IngestionResult `json:"results"`
}

// ingestFile processes a document already present on the server's filesystem.
func (h *handlers) ingestFile(c *fiber.Ctx) error {
	if h.deps.Ingestor == nil {
		return fiber.ErrNotFound
	}
	var req ingestFileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, common.CodeInvalidInput, "body must be JSON with path")
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return writeError(c, fiber.StatusBadRequest, common.CodeInvalidInput, "path is required")
	}

	h.logger.Info("starting file ingest", "path", path)
	r, err := h.deps.Ingestor.IngestPath(c.UserContext(), path)
	if err != nil {
		h.logger.Error("file ingest failed", "path", path, "error", err)
		return writeAppError(c, err)
	}
	status := fiber.StatusCreated
	if r.Queued {
		status = fiber.StatusAccepted
	}
	return c.Status(status).JSON(r)
}

func (h *handlers) ingestDirectory(c *fiber.Ctx) error {
	if h.deps.Ingestor == nil {
		return fiber.ErrNotFound
	}
	var req ingestDirectoryRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, common.CodeInvalidInput, "body must be JSON with root_path")
	}
	root := strings.TrimSpace(req.RootPath)
	if root == "" {
		return writeError(c, fiber.StatusBadRequest, common.CodeInvalidInput, "root_path is required")
	}
	// hidden entries are skipped unless the caller opts out
	skipHidden := req.SkipHidden == nil || *req.SkipHidden

	h.logger.Info("starting directory ingest", "root", root, "skip_hidden", skipHidden)
	results, stats, err := h.deps.Ingestor.IngestDirectory(c.UserContext(), root, skipHidden)
	if err != nil {
		h.logger.Error("directory ingest failed", "root", root, "error", err)
		return writeAppError(c, err)
	}
	return c.JSON(ingestDirectoryResponse{Statistics: stats, Results: results})
}
