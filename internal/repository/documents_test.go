package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
)

var columns = []string{"id", "source_identifier", "document_type", "key_fields", "processed_at"}

func newMockRepo(t *testing.T) (DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDocumentRepository(NewDB(db, dialect.Postgres, nil), nil), mock
}

func sampleRecord() *entity.ProcessedRecord {
	return &entity.ProcessedRecord{
		ID:               uuid.MustParse("3d0b1a55-9f1c-4d8e-8f4e-2f0a7c1b5e90"),
		SourceIdentifier: "stub.png",
		DocumentType:     constants.Paystub,
		Fields:           entity.NewFieldMap("Employee_Name", "John Smith", "Net_Pay", "4,198.46"),
		ProcessedAt:      time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC),
	}
}

func TestDocumentRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "documents"`)).
		WithArgs(
			rec.ID.String(),
			"stub.png",
			"Paystub",
			`{"Employee_Name":"John Smith","Net_Pay":"4,198.46"}`,
			"2024-05-01T17:30:00Z",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_SaveError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO").WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDatabase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_ListAll(t *testing.T) {
	repo, mock := newMockRepo(t)
	first := uuid.New()
	second := uuid.New()
	ts := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows(columns).
		AddRow(first.String(), "w2.pdf", "W2", `{"EIN":"12-3456789","Year":"2023"}`, ts).
		AddRow(second.String(), "scan.png", "Other", `{}`, ts.Format(time.RFC3339Nano))

	mock.ExpectQuery(`SELECT .+ FROM "documents" ORDER BY "?seq"?`).WillReturnRows(rows)

	recs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, first, recs[0].ID)
	assert.Equal(t, constants.W2, recs[0].DocumentType)
	assert.Equal(t, []string{"EIN", "Year"}, recs[0].Fields.Keys())
	assert.True(t, ts.Equal(recs[0].ProcessedAt))

	assert.Equal(t, constants.Other, recs[1].DocumentType)
	assert.Equal(t, 0, recs[1].Fields.Len())
	assert.True(t, ts.Equal(recs[1].ProcessedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_ListAllCorruptRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(columns).
		AddRow(uuid.NewString(), "x.png", "W2", `{"EIN": 12}`, "2024-05-01T17:30:00Z")
	mock.ExpectQuery(`SELECT .+ FROM "documents"`).WillReturnRows(rows)

	_, err := repo.ListAll(context.Background())
	assert.ErrorIs(t, err, common.ErrDatabase)
}

func TestDocumentRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow(rec.ID.String(), rec.SourceIdentifier, "Paystub", `{"Employee_Name":"John Smith","Net_Pay":"4,198.46"}`, rec.ProcessedAt)
		mock.ExpectQuery(`SELECT .+ FROM "documents" WHERE "id" = \$1`).
			WithArgs(rec.ID.String()).
			WillReturnRows(rows)

		got, err := repo.GetByID(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.True(t, rec.Fields.Equal(got.Fields))
	})

	t.Run("not found", func(t *testing.T) {
		missing := uuid.New()
		mock.ExpectQuery(`SELECT .+ FROM "documents" WHERE "id" = \$1`).
			WithArgs(missing.String()).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(context.Background(), missing)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, db.HealthCheck(ctx, time.Second))

	repo := NewDocumentRepository(db, nil)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	base := time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)
	inputs := []*entity.ProcessedRecord{
		{ID: uuid.New(), SourceIdentifier: "c.png", DocumentType: constants.Passport, Fields: entity.NewFieldMap("Name", "John Smith", "Country", "USA"), ProcessedAt: base},
		{ID: uuid.New(), SourceIdentifier: "a.pdf", DocumentType: constants.Other, ProcessedAt: base.Add(-time.Hour)},
		{ID: uuid.New(), SourceIdentifier: "b.jpg", DocumentType: constants.FloodCertificate, Fields: entity.NewFieldMap("Customer_No", "0012345"), ProcessedAt: base.Add(time.Hour)},
	}
	for _, rec := range inputs {
		require.NoError(t, repo.Save(ctx, rec))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, rec := range all {
		assert.Equal(t, inputs[i].ID, rec.ID, "insertion order")
		assert.Equal(t, inputs[i].DocumentType, rec.DocumentType)
		assert.Equal(t, inputs[i].Fields.Keys(), rec.Fields.Keys())
		assert.True(t, inputs[i].ProcessedAt.Equal(rec.ProcessedAt))
	}

	got, err := repo.GetByID(ctx, inputs[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", got.SourceIdentifier)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// migrations are idempotent
	require.NoError(t, Migrate(ctx, db))
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/db"))
	assert.False(t, IsPostgresDSN(":memory:"))
	assert.False(t, IsPostgresDSN("file:docs.db"))
}
