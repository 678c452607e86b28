package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/joseph-ayodele/docclassify/constants"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.FormatPDF, Pages: 1, Language: e.cfg.TesseractLang}

	if n, err := api.PageCountFile(path); err != nil {
		e.logger.Warn("pdf page count failed", "path", path, "error", err)
	} else {
		res.Pages = n
		if n > 1 {
			e.logger.Warn("multi-page pdf; only the first page is processed", "path", path, "pages", n)
			res.Warnings = append(res.Warnings, fmt.Sprintf("pdf has %d pages; only page 1 was read", n))
		}
	}

	if txt, err := firstPageTextLayer(path); err != nil {
		e.logger.Debug("pdf text layer unavailable", "path", path, "error", err)
	} else if txt = Normalize(txt); len(txt) >= e.cfg.MinTextLayerChars {
		res.Text = txt
		res.Method = "pdf-text"
		res.Confidence = heuristicConfidence(txt)
		return res, nil
	}

	img, cleanup, err := e.FirstPage(ctx, path)
	if err != nil {
		return res, err
	}
	defer cleanup()

	txt, warns, err := e.tesseractOCR(ctx, img)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, err
	}
	res.Text = Normalize(txt)
	res.Method = "pdf-ocr"
	res.Confidence = heuristicConfidence(res.Text)
	return res, nil
}

// FirstPage renders page 1 of a PDF to a PNG. Call cleanup to remove the temporary files.
func (e *Extractor) FirstPage(ctx context.Context, path string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp(e.cfg.TempDir, "dc-pp-*")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f 1 -l 1 -singlefile -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", "1", "-l", "1", "-singlefile",
		"-r", strconv.Itoa(e.cfg.DPI),
		"-png", path, prefix,
	)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("pdftoppm: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	out := prefix + ".png"
	if _, err := os.Stat(out); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("pdftoppm produced no image: %w", err)
	}
	return out, cleanup, nil
}

// firstPageTextLayer returns the embedded text of page 1, if the PDF has any.
func firstPageTextLayer(path string) (text string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf text layer: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	if r.NumPage() < 1 {
		return "", fmt.Errorf("pdf has no pages")
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("pdf page 1 missing")
	}
	return page.GetPlainText(nil)
}
