package service

import (
	"context"
	"fmt"

	"buku-saku-server/config"
	"buku-saku-server/internal/apperror"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"
)

type FavoriteService struct {
	favoriteRepository ports.FavoriteRepository
	documentRepository ports.DocumentRepository
}

func NewFavoriteService(
	favoriteRepository ports.FavoriteRepository,
	documentRepository ports.DocumentRepository,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepository: favoriteRepository,
		documentRepository: documentRepository,
	}
}

// Add : idempoten; dokumen harus ada dan belum dihapus.
func (s *FavoriteService) Add(ctx context.Context, userID, documentID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[FavoriteService] database connection tidak ditemukan di context")
	}

	document, err := s.documentRepository.GetActiveByID(ctx, db.DB, documentID)
	if err != nil {
		return apperror.Storage("Gagal mengambil dokumen", err)
	}
	if document == nil {
		return apperror.NotFound("Dokumen tidak ditemukan")
	}

	if err := s.favoriteRepository.Upsert(ctx, db.DB, userID, documentID); err != nil {
		return apperror.Storage("Gagal menyimpan favorit", err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, documentID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[FavoriteService] database connection tidak ditemukan di context")
	}

	if err := s.favoriteRepository.Delete(ctx, db.DB, userID, documentID); err != nil {
		return apperror.Storage("Gagal menghapus favorit", err)
	}
	return nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, documentID string) (bool, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return false, fmt.Errorf("[FavoriteService] database connection tidak ditemukan di context")
	}

	exists, err := s.favoriteRepository.Exists(ctx, db.DB, userID, documentID)
	if err != nil {
		return false, apperror.Storage("Gagal memeriksa favorit", err)
	}
	return exists, nil
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.FavoriteItem, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[FavoriteService] database connection tidak ditemukan di context")
	}

	items, err := s.favoriteRepository.ListByUser(ctx, db.DB, userID)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil favorit", err)
	}
	return items, nil
}

func (s *FavoriteService) ListIDs(ctx context.Context, userID string) ([]string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[FavoriteService] database connection tidak ditemukan di context")
	}

	ids, err := s.favoriteRepository.ListIDsByUser(ctx, db.DB, userID)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil id favorit", err)
	}
	return ids, nil
}
