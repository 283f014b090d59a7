package repository

import (
	"context"
	"database/sql"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type CategoryRepository struct {
	*config.Database
}

func NewCategoryRepository(database *config.Database) *CategoryRepository {
	return &CategoryRepository{database}
}

// List : seluruh kategori, urut nama
func (r *CategoryRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]model.Category, error) {
	query := `SELECT id, name, created_by, created_at FROM categories ORDER BY name ASC`
	categories := []model.Category{}
	if err := sqlx.SelectContext(ctx, exec, &categories, query); err != nil {
		return nil, util.LogError("[CategoryRepo] gagal mengambil kategori", err)
	}
	return categories, nil
}

// FindByNameFold : pencarian case-insensitive, (nil, nil) jika tidak ada
func (r *CategoryRepository) FindByNameFold(ctx context.Context, exec sqlx.ExtContext, name string) (*model.Category, error) {
	query := `SELECT id, name, created_by, created_at FROM categories WHERE LOWER(name) = LOWER($1)`
	var category model.Category
	err := sqlx.GetContext(ctx, exec, &category, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.LogError("[CategoryRepo] gagal mencari kategori", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, exec sqlx.ExtContext, category *model.Category) (*model.Category, error) {
	query := `
		INSERT INTO categories (id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := exec.QueryRowxContext(ctx, query, category.ID, category.Name, category.CreatedBy).
		Scan(&category.CreatedAt)
	if err != nil {
		return nil, util.LogError("[CategoryRepo] gagal menyimpan kategori", err)
	}
	return category, nil
}

// DeleteByName : mengembalikan jumlah baris terhapus (0 = tidak ditemukan)
func (r *CategoryRepository) DeleteByName(ctx context.Context, exec sqlx.ExtContext, name string) (int64, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM categories WHERE name = $1`, name)
	if err != nil {
		return 0, util.LogError("[CategoryRepo] gagal menghapus kategori", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("[CategoryRepo] gagal membaca rows affected", err)
	}
	return deleted, nil
}
