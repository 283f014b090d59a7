package repository

import (
	"context"
	"database/sql"
	"strconv"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// kolom ringkas untuk listing, tanpa content dan embedding
const documentListColumns = `id, title, tags, category, file_path, file_type, file_size,
       status, uploaded_by, approved_by, rejected_by, rejection_note, deleted_at, deleted_by, created_at`

// Create : simpan dokumen baru dengan status pending
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) (*model.Document, error) {
	query := `
		INSERT INTO documents (id, title, tags, category, file_path, file_type, file_size, content, embedding, status, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	err := exec.QueryRowxContext(
		ctx,
		query,
		document.ID,
		document.Title,
		document.Tags,
		document.Category,
		document.FilePath,
		document.FileType,
		document.FileSize,
		document.Content,
		document.Embedding,
		document.Status,
		document.UploadedBy,
	).Scan(&document.CreatedAt)

	if err != nil {
		return nil, util.LogError("[DocumentRepo] gagal menyimpan dokumen", err)
	}

	return document, nil
}

// GetByID : ambil dokumen apa adanya, termasuk yang sudah soft-delete
func (r *DocumentRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, documentID string) (*model.Document, error) {
	query := `SELECT ` + documentListColumns + `, content FROM documents WHERE id = $1`
	var document model.Document
	err := sqlx.GetContext(ctx, exec, &document, query, documentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.LogError("[DocumentRepo] gagal mengambil dokumen", err)
	}
	return &document, nil
}

// GetActiveByID : hanya dokumen yang belum dihapus
func (r *DocumentRepository) GetActiveByID(ctx context.Context, exec sqlx.ExtContext, documentID string) (*model.Document, error) {
	query := `SELECT ` + documentListColumns + ` FROM documents WHERE id = $1 AND deleted_at IS NULL`
	var document model.Document
	err := sqlx.GetContext(ctx, exec, &document, query, documentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.LogError("[DocumentRepo] gagal mengambil dokumen", err)
	}
	return &document, nil
}

// SetStatus : pindahkan status pending -> approved/rejected.
// approved_by dan rejected_by saling eksklusif, yang tidak relevan di-NULL-kan.
func (r *DocumentRepository) SetStatus(ctx context.Context, exec sqlx.ExtContext, documentID string, actorID string, status model.DocumentStatus, rejectionNote *string) error {
	query := `
		UPDATE documents
		SET status = $2,
		    approved_by = CASE WHEN $2 = 'approved' THEN $3::uuid ELSE NULL END,
		    rejected_by = CASE WHEN $2 = 'rejected' THEN $3::uuid ELSE NULL END,
		    rejection_note = CASE WHEN $2 = 'rejected' THEN $4 ELSE NULL END
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := exec.ExecContext(ctx, query, documentID, status, actorID, rejectionNote)
	if err != nil {
		return util.LogError("[DocumentRepo] gagal mengubah status dokumen", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DocumentRepo] gagal membaca rows affected", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete : tandai terhapus. Dokumen yang sudah terhapus menghasilkan ErrNoRows.
func (r *DocumentRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, documentID string, actorID string) error {
	query := `
		UPDATE documents
		SET deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := exec.ExecContext(ctx, query, documentID, actorID)
	if err != nil {
		return util.LogError("[DocumentRepo] gagal menghapus dokumen", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[DocumentRepo] gagal membaca rows affected", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListVisible : daftar dokumen aktif sesuai visibilitas role.
// viewer: hanya approved; uploader: approved atau miliknya sendiri;
// admin/manager: semua yang belum dihapus.
func (r *DocumentRepository) ListVisible(ctx context.Context, exec sqlx.ExtContext, role model.Role, userID string, limit int) ([]model.Document, error) {
	query := `SELECT ` + documentListColumns + ` FROM documents WHERE deleted_at IS NULL`
	args := []interface{}{}

	switch role {
	case model.RoleViewer:
		query += ` AND status = 'approved'`
	case model.RoleUploader:
		query += ` AND (status = 'approved' OR uploaded_by = $1)`
		args = append(args, userID)
	}

	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	docs := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &docs, query, args...); err != nil {
		return nil, util.LogError("[DocumentRepo] gagal mengambil daftar dokumen", err)
	}
	return docs, nil
}

// ListApproved : dokumen approved terbaru untuk halaman browse
func (r *DocumentRepository) ListApproved(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.Document, error) {
	query := `
		SELECT ` + documentListColumns + `
		FROM documents
		WHERE status = 'approved' AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1
	`
	docs := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &docs, query, limit); err != nil {
		return nil, util.LogError("[DocumentRepo] gagal mengambil dokumen approved", err)
	}
	return docs, nil
}

// ListForHistory : seluruh dokumen termasuk yang terhapus, terbaru dulu
func (r *DocumentRepository) ListForHistory(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.Document, error) {
	query := `
		SELECT ` + documentListColumns + `
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1
	`
	docs := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &docs, query, limit); err != nil {
		return nil, util.LogError("[DocumentRepo] gagal mengambil riwayat dokumen", err)
	}
	return docs, nil
}

// MatchDocuments : nearest-neighbor lewat fungsi SQL match_documents; indeks
// vektor dimiliki database. Dokumen soft-delete langsung tersaring di JOIN.
func (r *DocumentRepository) MatchDocuments(ctx context.Context, exec sqlx.ExtContext, embedding []float64, threshold float64, count int) ([]model.SearchResult, error) {
	query := `
		SELECT d.id, d.title, d.tags, d.category, d.file_path, d.file_type, d.file_size,
		       d.status, d.uploaded_by, d.approved_by, d.rejected_by, d.rejection_note,
		       d.deleted_at, d.deleted_by, d.created_at, m.similarity
		FROM match_documents($1, $2, $3) AS m
		JOIN documents d ON d.id = m.id
		WHERE d.deleted_at IS NULL
		ORDER BY m.similarity DESC
	`
	results := []model.SearchResult{}
	if err := sqlx.SelectContext(ctx, exec, &results, query, pq.Float64Array(embedding), threshold, count); err != nil {
		return nil, util.LogError("[DocumentRepo] gagal pencarian vektor", err)
	}
	return results, nil
}

// KeywordSearch : full-text search fallback, hanya dokumen approved
func (r *DocumentRepository) KeywordSearch(ctx context.Context, exec sqlx.ExtContext, queryText string, limit int) ([]model.Document, error) {
	query := `
		SELECT ` + documentListColumns + `
		FROM documents
		WHERE deleted_at IS NULL
		  AND status = 'approved'
		  AND fts @@ websearch_to_tsquery('simple', $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	docs := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &docs, query, queryText, limit); err != nil {
		return nil, util.LogError("[DocumentRepo] gagal pencarian keyword", err)
	}
	return docs, nil
}

// ReassignUser : pindahkan kepemilikan dokumen milik user yang dihapus ke admin
func (r *DocumentRepository) ReassignUser(ctx context.Context, exec sqlx.ExtContext, fromUserID, toUserID string) error {
	if _, err := exec.ExecContext(ctx,
		`UPDATE documents SET uploaded_by = $2 WHERE uploaded_by = $1`, fromUserID, toUserID); err != nil {
		return util.LogError("[DocumentRepo] gagal memindahkan uploaded_by", err)
	}
	if _, err := exec.ExecContext(ctx,
		`UPDATE documents SET deleted_by = $2 WHERE deleted_by = $1`, fromUserID, toUserID); err != nil {
		return util.LogError("[DocumentRepo] gagal memindahkan deleted_by", err)
	}
	return nil
}

// CountByCategory : jumlah dokumen aktif yang masih memakai kategori
func (r *DocumentRepository) CountByCategory(ctx context.Context, exec sqlx.ExtContext, categoryName string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM documents WHERE deleted_at IS NULL AND $1 = ANY(category)`
	if err := sqlx.GetContext(ctx, exec, &count, query, categoryName); err != nil {
		return 0, util.LogError("[DocumentRepo] gagal menghitung pemakaian kategori", err)
	}
	return count, nil
}

func (r *DocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
