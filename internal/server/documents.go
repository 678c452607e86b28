package server

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/storage"
)

const maxSourceIdentifierLen = 512

// documentListItem is one row of the listing, in processing order.
type documentListItem struct {
	ID             uuid.UUID       `json:"id"`
	SNo            int             `json:"sno"`
	NameOfDocument string          `json:"name_of_document"`
	TypeOfDocument string          `json:"type_of_document"`
	DocumentType   string          `json:"document_type"`
	KeyFields      entity.FieldMap `json:"key_fields"`
	Datetime       time.Time       `json:"datetime"`
}

type documentList struct {
	Items []documentListItem `json:"items"`
	Total int                `json:"total"`
}

type processTextRequest struct {
	SourceIdentifier string `json:"source_identifier"`
	Text             string `json:"text"`
}

func (h *handlers) uploadDocument(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if !constants.IsAllowedExt(ext) {
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "only pdf, png, jpg and jpeg files are accepted")
	}
	name := filepath.Base(fh.Filename)
	ctx := common.WithSource(c.UserContext(), name)

	staged, err := os.CreateTemp(h.deps.TempDir, "upload-*."+ext)
	if err != nil {
		h.logger.Error("stage upload failed", "file", name, "error", err)
		return writeError(c, fiber.StatusInternalServerError, common.CodeInternal, "internal server error")
	}
	stagedPath := staged.Name()
	_ = staged.Close()
	defer os.Remove(stagedPath)

	if err := c.SaveFile(fh, stagedPath); err != nil {
		h.logger.Error("stage upload failed", "file", name, "error", err)
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
	}

	if h.deps.Storage != nil {
		if err := h.archive(c, stagedPath, name, ext); err != nil {
			return writeAppError(c, err)
		}
	}

	rec, err := h.deps.Processor.ProcessFile(ctx, stagedPath, name)
	if err != nil {
		h.logger.Error("process upload failed", "file", name, "request_id", requestIDFromCtx(c), "error", err)
		return writeAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// archive keeps a copy of the uploaded source under a fresh key.
func (h *handlers) archive(c *fiber.Ctx, path, name, ext string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s.%s", time.Now().UTC().Format("2006/01/02"), uuid.NewString(), ext)
	info, err := h.deps.Storage.Put(c.UserContext(), key, f, storage.PutObjectOptions{
		Size:        st.Size(),
		ContentType: contentType(ext),
		Metadata:    map[string]string{"source-identifier": name},
	})
	if err != nil {
		h.logger.Error("archive upload failed", "file", name, "key", key, "error", err)
		return err
	}
	h.logger.Debug("upload archived", "file", name, "key", info.Key, "size", info.Size)
	return nil
}

func contentType(ext string) string {
	switch ext {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

func (h *handlers) processText(c *fiber.Ctx) error {
	var req processTextRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, common.CodeInvalidInput, "body must be JSON with source_identifier and text")
	}
	v := common.NewValidator().
		Field("source_identifier", req.SourceIdentifier, common.Required, common.MaxLength(maxSourceIdentifierLen))
	if err := common.ValidateAndReturnError(v); err != nil {
		return writeAppError(c, err)
	}

	rec, err := h.deps.Processor.Process(c.UserContext(), req.Text, req.SourceIdentifier)
	if err != nil {
		h.logger.Error("process text failed", "source_identifier", req.SourceIdentifier, "request_id", requestIDFromCtx(c), "error", err)
		return writeAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *handlers) listDocuments(c *fiber.Ctx) error {
	recs, err := h.deps.Documents.ListAll(c.UserContext())
	if err != nil {
		h.logger.Error("list documents failed", "error", err)
		return writeAppError(c, err)
	}

	out := documentList{Items: make([]documentListItem, 0, len(recs)), Total: len(recs)}
	for i, r := range recs {
		out.Items = append(out.Items, documentListItem{
			ID:             r.ID,
			SNo:            i + 1,
			NameOfDocument: r.SourceIdentifier,
			TypeOfDocument: r.DocumentType.Label(),
			DocumentType:   string(r.DocumentType),
			KeyFields:      r.Fields,
			Datetime:       r.ProcessedAt,
		})
	}
	return c.JSON(out)
}

func (h *handlers) getDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	rec, err := h.deps.Documents.GetByID(c.UserContext(), id)
	if err != nil {
		return writeAppError(c, err)
	}
	return c.JSON(rec)
}

func (h *handlers) exportDocuments(c *fiber.Ctx) error {
	if h.deps.Exporter == nil {
		return fiber.ErrNotFound
	}
	data, err := h.deps.Exporter.ExportXLSX(c.UserContext())
	if err != nil {
		h.logger.Error("export.xlsx.failed", "error", err)
		return writeAppError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="documents.xlsx"`)
	return c.SendStream(bytes.NewReader(data), len(data))
}
