package repository

import (
	"context"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type HistoryRepository struct {
	*config.Database
}

func NewHistoryRepository(database *config.Database) *HistoryRepository {
	return &HistoryRepository{database}
}

// Append : satu baris per transisi lifecycle; tabel ini tidak pernah di-update
func (r *HistoryRepository) Append(ctx context.Context, exec sqlx.ExtContext, entry *model.DocumentHistory) error {
	query := `
		INSERT INTO document_history (id, document_id, changed_by, action, notes)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := exec.ExecContext(ctx, query,
		entry.ID,
		entry.DocumentID,
		entry.ChangedBy,
		entry.Action,
		entry.Notes,
	)
	if err != nil {
		return util.LogError("[HistoryRepo] gagal menulis riwayat", err)
	}
	return nil
}

// ReassignUser : saat user dihapus, changed_by diarahkan ke admin penghapus
func (r *HistoryRepository) ReassignUser(ctx context.Context, exec sqlx.ExtContext, fromUserID, toUserID string) error {
	_, err := exec.ExecContext(ctx,
		`UPDATE document_history SET changed_by = $2 WHERE changed_by = $1`, fromUserID, toUserID)
	if err != nil {
		return util.LogError("[HistoryRepo] gagal memindahkan changed_by", err)
	}
	return nil
}
