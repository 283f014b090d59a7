package service

import (
	"context"
	"fmt"
	"strings"

	"buku-saku-server/config"
	"buku-saku-server/internal/apperror"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"

	"github.com/google/uuid"
)

type CategoryService struct {
	categoryRepository ports.CategoryRepository
	documentRepository ports.DocumentRepository
	// protectReferenced: kategori yang masih dirujuk dokumen tidak boleh dihapus
	protectReferenced bool
}

func NewCategoryService(
	categoryRepository ports.CategoryRepository,
	documentRepository ports.DocumentRepository,
	protectReferenced bool,
) *CategoryService {
	return &CategoryService{
		categoryRepository: categoryRepository,
		documentRepository: documentRepository,
		protectReferenced:  protectReferenced,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[CategoryService] database connection tidak ditemukan di context")
	}

	categories, err := s.categoryRepository.List(ctx, db.DB)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil kategori", err)
	}
	return categories, nil
}

// Create : nama kategori unik tanpa memandang kapitalisasi.
func (s *CategoryService) Create(ctx context.Context, actorID, name string) (*model.Category, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[CategoryService] database connection tidak ditemukan di context")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("Nama kategori wajib diisi")
	}

	existing, err := s.categoryRepository.FindByNameFold(ctx, db.DB, name)
	if err != nil {
		return nil, apperror.Storage("Gagal memeriksa kategori", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Kategori sudah ada")
	}

	category := &model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: actorID,
	}
	category, err = s.categoryRepository.Create(ctx, db.DB, category)
	if err != nil {
		return nil, apperror.Storage("Gagal menyimpan kategori", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, name string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[CategoryService] database connection tidak ditemukan di context")
	}

	if s.protectReferenced {
		count, err := s.documentRepository.CountByCategory(ctx, db.DB, name)
		if err != nil {
			return apperror.Storage("Gagal memeriksa pemakaian kategori", err)
		}
		if count > 0 {
			return apperror.Conflict("Kategori masih dipakai dokumen, tidak bisa dihapus")
		}
	}

	deleted, err := s.categoryRepository.DeleteByName(ctx, db.DB, name)
	if err != nil {
		return apperror.Storage("Gagal menghapus kategori", err)
	}
	if deleted == 0 {
		return apperror.NotFound("Kategori tidak ditemukan")
	}
	return nil
}
