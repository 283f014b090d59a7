package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/apperror"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"
)

const (
	matchThreshold = 0.5
	matchCount     = 50
	// di bawah ini hasil vektor dianggap kurang dan fallback keyword dijalankan
	vectorMinResults = 5
	keywordLimit     = 20
	finalLimit       = 20
	approvedLimit    = 20
)

// SearchService menggabungkan pencarian vektor dan keyword: vektor memberi
// relevansi semantik, fallback keyword menjamin hasil untuk istilah persis
// yang kurang diperingkat model embedding.
type SearchService struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storage            ports.BlobStorage
	embedder           ports.Embedder
	signedURLTTL       time.Duration
}

func NewSearchService(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storage ports.BlobStorage,
	embedder ports.Embedder,
	signedURLTTL time.Duration,
) *SearchService {
	return &SearchService{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storage:            storage,
		embedder:           embedder,
		signedURLTTL:       signedURLTTL,
	}
}

func (s *SearchService) Search(ctx context.Context, query string, role model.Role, userID string) ([]model.SearchResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[SearchService] database connection tidak ditemukan di context")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("Kata kunci pencarian wajib diisi")
	}

	results := []model.SearchResult{}

	// fase vektor: kegagalan embedding diturunkan diam-diam ke keyword-only
	embedInput := query
	if len(embedInput) > embedInputLimit {
		embedInput = embedInput[:embedInputLimit]
	}
	queryEmbedding, err := s.embedder.EmbedText(ctx, embedInput)
	if err != nil {
		log.Printf("[SearchService] gagal embedding query: %v", err)
		queryEmbedding = nil
	}

	if queryEmbedding != nil {
		vectorResults, err := s.documentRepository.MatchDocuments(ctx, db.DB, queryEmbedding, matchThreshold, matchCount)
		if err != nil {
			log.Printf("[SearchService] pencarian vektor gagal: %v", err)
		} else {
			for _, r := range vectorResults {
				if visibleTo(&r.Document, role, userID) {
					results = append(results, r)
				}
			}
		}
	}

	// fallback keyword hanya memuat dokumen approved supaya pencarian umum
	// tidak membocorkan dokumen yang belum disetujui
	if len(results) < vectorMinResults {
		keywordDocs, err := s.documentRepository.KeywordSearch(ctx, db.DB, query, keywordLimit)
		if err != nil {
			return nil, apperror.Storage("Pencarian keyword gagal", err)
		}
		existing := map[string]struct{}{}
		for _, r := range results {
			existing[r.ID] = struct{}{}
		}
		for _, d := range keywordDocs {
			if _, dup := existing[d.ID]; dup {
				continue
			}
			results = append(results, model.SearchResult{Document: d, Similarity: 0})
		}
	}

	if len(results) > finalLimit {
		results = results[:finalLimit]
	}
	s.attachFileURLs(ctx, results)
	return results, nil
}

// ListApproved : dokumen approved terbaru dengan cache-aside di Redis.
func (s *SearchService) ListApproved(ctx context.Context) ([]model.SearchResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[SearchService] database connection tidak ditemukan di context")
	}

	cached, err := s.cacheRepository.GetApprovedList(ctx)
	if err != nil {
		log.Printf("[SearchService] gagal membaca cache approved: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	documents, err := s.documentRepository.ListApproved(ctx, db.DB, approvedLimit)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil dokumen approved", err)
	}

	results := make([]model.SearchResult, 0, len(documents))
	for _, d := range documents {
		results = append(results, model.SearchResult{Document: d})
	}
	s.attachFileURLs(ctx, results)

	if err := s.cacheRepository.SetApprovedList(ctx, results); err != nil {
		log.Printf("[SearchService] gagal menulis cache approved: %v", err)
	}
	return results, nil
}

// attachFileURLs : gagal menandatangani satu dokumen tidak menggagalkan
// sisanya, dokumen itu dikembalikan tanpa file_url.
func (s *SearchService) attachFileURLs(ctx context.Context, results []model.SearchResult) {
	for i := range results {
		if results[i].FilePath == "" {
			log.Printf("[SearchService] dokumen %s tanpa file_path", results[i].ID)
			continue
		}
		url, err := s.storage.GeneratePresignedGetURL(ctx, results[i].FilePath, s.signedURLTTL)
		if err != nil {
			log.Printf("[SearchService] gagal membuat signed URL untuk %s: %v", results[i].FilePath, err)
			continue
		}
		results[i].FileURL = url
	}
}

// visibleTo : aturan visibilitas yang sama dengan listVisible
func visibleTo(d *model.Document, role model.Role, userID string) bool {
	switch role {
	case model.RoleAdmin, model.RoleManager:
		return true
	case model.RoleUploader:
		return d.Status == model.StatusApproved || d.UploadedBy == userID
	default:
		return d.Status == model.StatusApproved
	}
}
