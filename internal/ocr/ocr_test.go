package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docclassify/constants"
)

type call struct {
	name string
	args []string
}

// stubRunner answers tesseract with a canned transcript and fakes pdftoppm output.
type stubRunner struct {
	text  string
	tsv   string
	err   error
	calls []call
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+".png", []byte("png"), 0o600); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	case "tesseract":
		if args[len(args)-1] == "tsv" {
			return []byte(s.tsv), nil, nil
		}
		return []byte(s.text), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func TestExtract_Image(t *testing.T) {
	r := &stubRunner{text: "PASSPORT\r\n\r\n\r\n\r\nP<USASMITH<<JOHN   \t\n-----\n"}
	e := NewExtractor(Config{TessdataDir: "/usr/share/tessdata", PSM: 6}, nil, WithRunner(r))

	res, err := e.Extract(context.Background(), "/scans/passport.PNG")
	require.NoError(t, err)

	assert.Equal(t, constants.FormatImage, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "PASSPORT\n\nP<USASMITH<<JOHN", res.Text)
	assert.Equal(t, 1, res.Pages)

	require.Len(t, r.calls, 1)
	assert.Equal(t, "tesseract", r.calls[0].name)
	assert.Equal(t,
		[]string{"/scans/passport.PNG", "stdout", "-l", "eng", "--psm", "6", "--tessdata-dir", "/usr/share/tessdata"},
		r.calls[0].args,
	)
}

func TestExtract_ImageWithTSVConfidence(t *testing.T) {
	tsv := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
		"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t",
		"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t90\tNET",
		"5\t1\t1\t1\t1\t2\t70\t10\t50\t20\t70\tPAY",
	}, "\n")
	r := &stubRunner{text: "NET PAY 4,198.46", tsv: tsv}
	e := NewExtractor(Config{EnableTSVConfidence: true}, nil, WithRunner(r))

	res, err := e.Extract(context.Background(), "stub.jpg")
	require.NoError(t, err)
	require.Len(t, r.calls, 2)
	assert.InDelta(t, 0.7*0.8+0.3*heuristicConfidence("NET PAY 4,198.46"), res.Confidence, 0.001)
}

func TestExtract_PDFRasterizesFirstPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not really a pdf"), 0o600))

	r := &stubRunner{text: "STANDARD FLOOD HAZARD DETERMINATION FORM"}
	e := NewExtractor(Config{TempDir: dir, DPI: 150}, nil, WithRunner(r))

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.FormatPDF, res.SourceType)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, "STANDARD FLOOD HAZARD DETERMINATION FORM", res.Text)

	require.Len(t, r.calls, 2)
	assert.Equal(t, "pdftoppm", r.calls[0].name)
	assert.Equal(t, []string{"-f", "1", "-l", "1", "-singlefile", "-r", "150", "-png", path}, r.calls[0].args[:9])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rasterized page is cleaned up")
}

func TestExtract_Errors(t *testing.T) {
	e := NewExtractor(Config{}, nil, WithRunner(&stubRunner{err: errors.New("exit status 1")}))

	_, err := e.Extract(context.Background(), "notes.docx")
	assert.ErrorContains(t, err, "unsupported extension")

	res, err := e.Extract(context.Background(), "id.jpeg")
	require.Error(t, err)
	assert.Equal(t, []string{"boom"}, res.Warnings)
}

func TestNormalize(t *testing.T) {
	in := "  Form W-2\t\tWage and Tax   Statement  \r\n\r\n \r\n\r\n2O23\f"
	assert.Equal(t, "Form W-2 Wage and Tax Statement\n\n2O23", Normalize(in))
	assert.Equal(t, "", Normalize(""))
}
