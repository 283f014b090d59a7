package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var documentColumns = []string{
	"id", "title", "tags", "category", "file_path", "file_type", "file_size",
	"status", "uploaded_by", "approved_by", "rejected_by", "rejection_note",
	"deleted_at", "deleted_by", "created_at",
}

func TestDocumentRepository_SetStatus_Approve(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
		WithArgs("doc1", "approved", "admin1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetStatus(context.Background(), db.DB, "doc1", "admin1", model.StatusApproved, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_SetStatus_RejectCarriesNote(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	note := "format salah"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
		WithArgs("doc1", "rejected", "admin1", &note).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetStatus(context.Background(), db.DB, "doc1", "admin1", model.StatusRejected, &note)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Dokumen yang sudah terhapus tidak bisa berganti status.
func TestDocumentRepository_SetStatus_DeletedDocument(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
		WithArgs("doc1", "approved", "admin1", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), db.DB, "doc1", "admin1", model.StatusApproved, nil)

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDocumentRepository_SoftDelete_Twice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET deleted_at = NOW(), deleted_by = $2")).
		WithArgs("doc1", "admin1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET deleted_at = NOW(), deleted_by = $2")).
		WithArgs("doc1", "admin1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.SoftDelete(context.Background(), db.DB, "doc1", "admin1"))
	assert.ErrorIs(t, repo.SoftDelete(context.Background(), db.DB, "doc1", "admin1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_GetActiveByID_Miss(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	mock.ExpectQuery("FROM documents WHERE id = .+ AND deleted_at IS NULL").
		WithArgs("hilang").
		WillReturnError(sql.ErrNoRows)

	doc, err := repo.GetActiveByID(context.Background(), db.DB, "hilang")

	assert.NoError(t, err)
	assert.Nil(t, doc)
}

// Viewer hanya menerima dokumen approved; klausa WHERE-nya dibangun per role.
func TestDocumentRepository_ListVisible_Viewer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	rows := sqlmock.NewRows(documentColumns).AddRow(
		"doc1", "laporan qaqc", "{qaqc}", "{Laporan}", "satu.pdf", "application/pdf", int64(2048),
		"approved", "user1", "admin1", nil, nil, nil, nil, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE deleted_at IS NULL AND status = 'approved'")).
		WillReturnRows(rows)

	docs, err := repo.ListVisible(context.Background(), db.DB, model.RoleViewer, "user1", 50)

	assert.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc1", docs[0].ID)
	assert.Equal(t, model.StatusApproved, docs[0].Status)
	assert.Equal(t, []string{"qaqc"}, []string(docs[0].Tags))
}

// Uploader melihat approved plus dokumen miliknya sendiri.
func TestDocumentRepository_ListVisible_Uploader(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	rows := sqlmock.NewRows(documentColumns).AddRow(
		"doc2", "draft", "{}", "{}", "dua.pdf", "application/pdf", int64(1024),
		"pending", "user1", nil, nil, nil, nil, nil, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("AND (status = 'approved' OR uploaded_by = $1)")).
		WithArgs("user1").
		WillReturnRows(rows)

	docs, err := repo.ListVisible(context.Background(), db.DB, model.RoleUploader, "user1", 50)

	assert.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.StatusPending, docs[0].Status)
}

// Fallback keyword hanya menjaring dokumen approved yang belum terhapus.
func TestDocumentRepository_KeywordSearch_ApprovedOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	rows := sqlmock.NewRows(documentColumns).AddRow(
		"doc1", "prosedur las", "{}", "{}", "satu.pdf", "application/pdf", int64(2048),
		"approved", "user1", "admin1", nil, nil, nil, nil, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("fts @@ websearch_to_tsquery('simple', $1)")).
		WithArgs("prosedur las", 20).
		WillReturnRows(rows)

	docs, err := repo.KeywordSearch(context.Background(), db.DB, "prosedur las", 20)

	assert.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "prosedur las", docs[0].Title)
}

func TestDocumentRepository_CountByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM documents WHERE deleted_at IS NULL AND $1 = ANY(category)`)).
		WithArgs("Laporan").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByCategory(context.Background(), db.DB, "Laporan")

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

// ReassignUser memindahkan uploaded_by dan deleted_by dalam dua statement.
func TestDocumentRepository_ReassignUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewDocumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET uploaded_by = $2 WHERE uploaded_by = $1")).
		WithArgs("user1", "admin1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET deleted_by = $2 WHERE deleted_by = $1")).
		WithArgs("user1", "admin1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ReassignUser(context.Background(), db.DB, "user1", "admin1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
