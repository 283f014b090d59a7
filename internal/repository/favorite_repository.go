package repository

import (
	"context"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type FavoriteRepository struct {
	*config.Database
}

func NewFavoriteRepository(database *config.Database) *FavoriteRepository {
	return &FavoriteRepository{database}
}

// Upsert : idempoten, pasangan yang sudah ada tidak menimbulkan error
func (r *FavoriteRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, userID, documentID string) error {
	query := `
		INSERT INTO favorites (user_id, document_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, document_id) DO NOTHING
	`
	if _, err := exec.ExecContext(ctx, query, userID, documentID); err != nil {
		return util.LogError("[FavoriteRepo] gagal menyimpan favorit", err)
	}
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, exec sqlx.ExtContext, userID, documentID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND document_id = $2`
	if _, err := exec.ExecContext(ctx, query, userID, documentID); err != nil {
		return util.LogError("[FavoriteRepo] gagal menghapus favorit", err)
	}
	return nil
}

// ListByUser : favorit beserta detail dokumen; dokumen yang sudah dihapus
// tetap muncul dengan status "deleted" agar klien bisa menandainya.
func (r *FavoriteRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]model.FavoriteItem, error) {
	query := `
		SELECT d.id, d.title, d.file_type, d.tags,
		       CASE WHEN d.deleted_at IS NOT NULL THEN 'deleted' ELSE d.status END AS status,
		       d.created_at, f.created_at AS favorite_at, d.file_path
		FROM favorites f
		JOIN documents d ON d.id = f.document_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := exec.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, util.LogError("[FavoriteRepo] gagal mengambil favorit", err)
	}
	defer rows.Close()

	items := []model.FavoriteItem{}
	for rows.Next() {
		var item model.FavoriteItem
		var tags pq.StringArray
		if err := rows.Scan(&item.ID, &item.Title, &item.FileType, &tags,
			&item.Status, &item.CreatedAt, &item.FavoriteAt, &item.FilePath); err != nil {
			return nil, util.LogError("[FavoriteRepo] gagal membaca baris favorit", err)
		}
		item.Tags = tags
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, util.LogError("[FavoriteRepo] gagal membaca favorit", err)
	}
	return items, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, exec sqlx.ExtContext, userID, documentID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND document_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, exec, &exists, query, userID, documentID); err != nil {
		return false, util.LogError("[FavoriteRepo] gagal memeriksa favorit", err)
	}
	return exists, nil
}

func (r *FavoriteRepository) ListIDsByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]string, error) {
	query := `SELECT document_id FROM favorites WHERE user_id = $1`
	ids := []string{}
	if err := sqlx.SelectContext(ctx, exec, &ids, query, userID); err != nil {
		return nil, util.LogError("[FavoriteRepo] gagal mengambil id favorit", err)
	}
	return ids, nil
}
