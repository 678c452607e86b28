package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/docclassify/internal/entity"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document waiting to be OCR'd, classified and persisted.
type Job struct {
	Path        string
	Source      string // source identifier recorded on the document; defaults to the file name
	SubmittedAt time.Time
	RequestID   string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// FileProcessor is the part of the pipeline the workers drive.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path, sourceIdentifier string) (*entity.ProcessedRecord, error)
}
