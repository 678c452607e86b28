package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/async"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
)

type recordingProcessor struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (p *recordingProcessor) ProcessFile(_ context.Context, path, source string) (*entity.ProcessedRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, source)
	if source == p.fail {
		return nil, errors.New("ocr exploded")
	}
	return &entity.ProcessedRecord{
		ID:               uuid.New(),
		SourceIdentifier: source,
		DocumentType:     constants.W2,
		Fields:           entity.NewFieldMap("EIN", "12-3456789"),
	}, nil
}

type recordingQueue struct {
	jobs []async.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}
func (q *recordingQueue) Shutdown(context.Context) {}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func seedTree(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "w2.pdf"), "w2 bytes")
	writeFile(t, filepath.Join(root, "copy", "w2-again.PDF"), "w2 bytes")
	writeFile(t, filepath.Join(root, "ids", "license.jpg"), "license bytes")
	writeFile(t, filepath.Join(root, "ids", "broken.png"), "broken bytes")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".cache", "hidden.png"), "hidden bytes")
	return root
}

func TestWalk(t *testing.T) {
	root := seedTree(t)

	paths, stats, err := Walk(context.Background(), root, true)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"broken.png", "license.jpg", "w2-again.PDF", "w2.pdf"}, names)
	assert.Equal(t, uint32(4), stats.Matched)

	paths, _, err = Walk(context.Background(), root, false)
	require.NoError(t, err)
	assert.Len(t, paths, 5)
}

func TestWalk_Errors(t *testing.T) {
	_, _, err := Walk(context.Background(), "  ", true)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, _, err = Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), true)
	assert.Error(t, err)
}

func TestFSIngestor_IngestDirectory(t *testing.T) {
	root := seedTree(t)
	proc := &recordingProcessor{fail: "broken.png"}
	ing := NewFSIngestor(proc, nil, nil)

	results, stats, err := ing.IngestDirectory(context.Background(), root, true)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Len(t, proc.calls, 3, "duplicate content is not processed twice")

	for _, r := range results {
		switch {
		case r.Err != "":
			assert.Equal(t, "broken.png", r.Source)
		case r.Deduplicated:
			assert.NotEmpty(t, r.HashHex)
			assert.Empty(t, r.RecordID)
		default:
			assert.Equal(t, "W2", r.DocumentType)
			assert.Equal(t, 1, r.FieldCount)
		}
	}
}

func TestFSIngestor_IngestPath(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, "hello")
	img := filepath.Join(dir, "scan.png")
	writeFile(t, img, "png")

	ing := NewFSIngestor(&recordingProcessor{}, nil, nil)

	_, err := ing.IngestPath(context.Background(), txt)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// single-file ingest never deduplicates
	for i := 0; i < 2; i++ {
		r, err := ing.IngestPath(context.Background(), img)
		require.NoError(t, err)
		assert.False(t, r.Deduplicated)
		assert.Equal(t, "scan.png", r.Source)
	}
}

func TestFSIngestor_Queue(t *testing.T) {
	root := seedTree(t)
	q := &recordingQueue{}
	proc := &recordingProcessor{}
	ing := NewFSIngestor(proc, q, nil)

	ctx := common.WithRequestID(context.Background(), "req-9")
	results, stats, err := ing.IngestDirectory(ctx, root, true)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Empty(t, proc.calls)
	require.Len(t, q.jobs, 3)
	for _, j := range q.jobs {
		assert.Equal(t, "req-9", j.RequestID)
		assert.Equal(t, filepath.Base(j.Path), j.Source)
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.pdf"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
	})
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, "existing.pdf", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan did not emit existing file")
	}

	writeFile(t, filepath.Join(root, "ignored.txt"), "x")
	writeFile(t, filepath.Join(root, "new.png"), "y")

	select {
	case p := <-events:
		assert.Equal(t, "new.png", filepath.Base(p))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not emit new file")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
