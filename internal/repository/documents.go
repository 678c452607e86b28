package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
)

const documentsTable = "documents"

var documentColumns = []string{"id", "source_identifier", "document_type", "key_fields", "processed_at"}

// DocumentRepository stores processed records. Records are append-only and
// ListAll returns them in insertion order.
type DocumentRepository interface {
	Save(ctx context.Context, rec *entity.ProcessedRecord) error
	ListAll(ctx context.Context) ([]*entity.ProcessedRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProcessedRecord, error)
	Count(ctx context.Context) (int, error)
}

type documentRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewDocumentRepository(db *DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *documentRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect)
}

func (r *documentRepository) Save(ctx context.Context, rec *entity.ProcessedRecord) error {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encode key fields: %w", err)
	}

	query, args := r.builder().
		Insert(documentsTable).
		Columns(documentColumns...).
		Values(
			rec.ID.String(),
			rec.SourceIdentifier,
			string(rec.DocumentType),
			string(fields),
			rec.ProcessedAt.UTC().Format(time.RFC3339Nano),
		).
		Query()

	if err := r.db.Driver.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to insert document", "record_id", rec.ID, "source_identifier", rec.SourceIdentifier, "error", err)
		return fmt.Errorf("%w: insert document: %v", common.ErrDatabase, err)
	}
	r.logger.Debug("document saved", "record_id", rec.ID, "document_type", rec.DocumentType)
	return nil
}

func (r *documentRepository) ListAll(ctx context.Context) ([]*entity.ProcessedRecord, error) {
	b := r.builder()
	query, args := b.Select(documentColumns...).
		From(b.Table(documentsTable)).
		OrderBy("seq").
		Query()

	recs, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to list documents", "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProcessedRecord, error) {
	b := r.builder()
	query, args := b.Select(documentColumns...).
		From(b.Table(documentsTable)).
		Where(entsql.EQ("id", id.String())).
		Limit(1).
		Query()

	recs, err := r.query(ctx, query, args)
	if err != nil {
		r.logger.Error("failed to get document", "record_id", id, "error", err)
		return nil, err
	}
	if len(recs) == 0 {
		return nil, common.NotFoundError(fmt.Sprintf("document %s not found", id))
	}
	return recs[0], nil
}

func (r *documentRepository) Count(ctx context.Context) (int, error) {
	b := r.builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(documentsTable)).Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("%w: count documents: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("%w: count documents: %v", common.ErrDatabase, err)
		}
	}
	return n, rows.Err()
}

func (r *documentRepository) query(ctx context.Context, query string, args []any) ([]*entity.ProcessedRecord, error) {
	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: query documents: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.ProcessedRecord
	for rows.Next() {
		rec, err := scanDocument(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read documents: %v", common.ErrDatabase, err)
	}
	return out, nil
}

func scanDocument(rows *entsql.Rows) (*entity.ProcessedRecord, error) {
	var (
		id, source, docType string
		fields              []byte
		processedAt         any
	)
	if err := rows.Scan(&id, &source, &docType, &fields, &processedAt); err != nil {
		return nil, fmt.Errorf("%w: scan document: %v", common.ErrDatabase, err)
	}

	rec := &entity.ProcessedRecord{SourceIdentifier: source}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: document id %q: %v", common.ErrDatabase, id, err)
	}
	rec.ID = parsed

	t, ok := constants.Canonicalize(docType)
	if !ok {
		t = constants.Other
	}
	rec.DocumentType = t

	if err := json.Unmarshal(fields, &rec.Fields); err != nil {
		return nil, fmt.Errorf("%w: key fields of %s: %v", common.ErrDatabase, id, err)
	}

	ts, err := parseTimestamp(processedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: processed_at of %s: %v", common.ErrDatabase, id, err)
	}
	rec.ProcessedAt = ts
	return rec, nil
}

// parseTimestamp accepts a native time (PostgreSQL) or RFC 3339 text (SQLite).
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
}
