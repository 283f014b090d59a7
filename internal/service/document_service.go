package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"buku-saku-server/config"
	"buku-saku-server/internal/apperror"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/model/requestresponse"
	"buku-saku-server/internal/ports"

	"github.com/google/uuid"
)

const (
	// content disimpan terpotong supaya baris dokumen tidak membengkak
	contentLimit = 10000
	// model embedding punya batas token, cukup 800 karakter pertama
	embedInputLimit = 800

	listLimit    = 50
	historyLimit = 100
)

var separatorPattern = regexp.MustCompile(`[_-]+`)

type DocumentService struct {
	documentRepository ports.DocumentRepository
	historyRepository  ports.HistoryRepository
	userRepository     ports.UserRepository
	cacheRepository    ports.CacheRepository
	storage            ports.BlobStorage
	extractor          ports.TextExtractor
	embedder           ports.Embedder
	fanout             ports.NotificationFanout
	maxFileSize        int64
	signedURLTTL       time.Duration
}

func NewDocumentService(
	documentRepository ports.DocumentRepository,
	historyRepository ports.HistoryRepository,
	userRepository ports.UserRepository,
	cacheRepository ports.CacheRepository,
	storage ports.BlobStorage,
	extractor ports.TextExtractor,
	embedder ports.Embedder,
	fanout ports.NotificationFanout,
	maxFileSize int64,
	signedURLTTL time.Duration,
) *DocumentService {
	return &DocumentService{
		documentRepository: documentRepository,
		historyRepository:  historyRepository,
		userRepository:     userRepository,
		cacheRepository:    cacheRepository,
		storage:            storage,
		extractor:          extractor,
		embedder:           embedder,
		fanout:             fanout,
		maxFileSize:        maxFileSize,
		signedURLTTL:       signedURLTTL,
	}
}

// Upload : simpan blob, ekstrak teks dan hitung embedding best-effort,
// lalu insert dokumen berstatus pending plus baris riwayat dan fan-out.
func (s *DocumentService) Upload(ctx context.Context, in ports.UploadInput) (*model.Document, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[DocumentService] database connection tidak ditemukan di context")
	}

	if len(in.Data) == 0 {
		return nil, apperror.Validation("File diperlukan")
	}
	if s.maxFileSize > 0 && int64(len(in.Data)) > s.maxFileSize {
		return nil, apperror.Validation("Ukuran file melebihi batas")
	}

	ext := strings.TrimPrefix(filepath.Ext(in.FileName), ".")
	if ext == "" {
		ext = "bin"
	}
	blobKey := uuid.NewString() + "." + ext

	if err := s.storage.Upload(ctx, blobKey, in.Data, in.ContentType); err != nil {
		return nil, apperror.Storage("Gagal menyimpan file", err)
	}

	title := deriveTitle(in.FileName)

	// ekstraksi gagal bukan alasan menggagalkan upload
	content, err := s.extractor.Extract(in.Data, in.ContentType, in.FileName)
	if err != nil {
		log.Printf("[DocumentService] gagal ekstrak teks: %v", err)
		content = ""
	}
	content = truncateValid(content, contentLimit)

	var embedding []float64
	embedInput := strings.TrimSpace(strings.Join([]string{
		title,
		strings.Join(in.Tags, " "),
		strings.Join(in.Categories, " "),
		content,
	}, " "))
	embedInput = truncateValid(embedInput, embedInputLimit)
	if embedInput != "" {
		embedding, err = s.embedder.EmbedText(ctx, embedInput)
		if err != nil {
			log.Printf("[DocumentService] gagal hitung embedding: %v", err)
			embedding = nil
		}
	}

	document := &model.Document{
		ID:         uuid.NewString(),
		Title:      title,
		Tags:       in.Tags,
		Category:   in.Categories,
		FilePath:   blobKey,
		FileType:   in.ContentType,
		FileSize:   int64(len(in.Data)),
		Content:    content,
		Embedding:  embedding,
		Status:     model.StatusPending,
		UploadedBy: in.UploaderID,
	}

	document, err = s.documentRepository.Create(ctx, db.DB, document)
	if err != nil {
		// blob sudah tersimpan tapi barisnya tidak; bersihkan supaya tidak yatim
		if delErr := s.storage.DeleteObject(ctx, blobKey); delErr != nil {
			log.Printf("[DocumentService] gagal menghapus blob %s: %v", blobKey, delErr)
		}
		return nil, apperror.Storage("Gagal menyimpan dokumen", err)
	}

	if err := s.historyRepository.Append(ctx, db.DB, &model.DocumentHistory{
		ID:         uuid.NewString(),
		DocumentID: document.ID,
		ChangedBy:  in.UploaderID,
		Action:     model.ActionUploaded,
		Notes:      fmt.Sprintf("Dokumen diupload (%s)", document.Status),
	}); err != nil {
		log.Printf("[DocumentService] gagal mencatat riwayat upload: %v", err)
	}

	s.fanout.DocumentUploaded(ctx, document, ports.Actor{ID: in.UploaderID, Name: in.UploaderNm})

	log.Printf("[DocumentService] dokumen %q berhasil diupload (pending)", document.Title)
	return document, nil
}

// SetStatus : approve/reject; approved_by dan rejected_by saling eksklusif.
func (s *DocumentService) SetStatus(ctx context.Context, documentID string, actorID, actorName string, status model.DocumentStatus, rejectionNote string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[DocumentService] database connection tidak ditemukan di context")
	}

	if status != model.StatusApproved && status != model.StatusRejected {
		return apperror.Validation("Status harus approved atau rejected")
	}
	if status == model.StatusRejected && strings.TrimSpace(rejectionNote) == "" {
		return apperror.Validation("Alasan penolakan wajib diisi")
	}

	document, err := s.documentRepository.GetByID(ctx, db.DB, documentID)
	if err != nil {
		return apperror.Storage("Gagal mengambil dokumen", err)
	}
	if document == nil {
		return apperror.NotFound("Dokumen tidak ditemukan")
	}

	var notePtr *string
	if status == model.StatusRejected {
		notePtr = &rejectionNote
	}
	if err := s.documentRepository.SetStatus(ctx, db.DB, documentID, actorID, status, notePtr); err != nil {
		// dokumen sempat terbaca lalu keburu di-soft-delete
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("Dokumen tidak ditemukan")
		}
		return apperror.Storage("Gagal memperbarui status dokumen", err)
	}

	notes := "Disetujui"
	action := model.ActionApproved
	if status == model.StatusRejected {
		notes = fmt.Sprintf("Ditolak: %s", rejectionNote)
		action = model.ActionRejected
	}
	if err := s.historyRepository.Append(ctx, db.DB, &model.DocumentHistory{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		ChangedBy:  actorID,
		Action:     action,
		Notes:      notes,
	}); err != nil {
		log.Printf("[DocumentService] gagal mencatat riwayat status: %v", err)
	}

	if status == model.StatusApproved {
		if err := s.cacheRepository.InvalidateApprovedList(ctx); err != nil {
			log.Printf("[DocumentService] gagal invalidasi cache approved: %v", err)
		}
	}

	s.fanout.DocumentStatusChanged(ctx, document, ports.Actor{ID: actorID, Name: actorName}, status, rejectionNote)

	return nil
}

// SoftDelete : dokumen yang sudah terhapus menghasilkan NotFound, bukan no-op.
func (s *DocumentService) SoftDelete(ctx context.Context, documentID string, actorID, actorName string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[DocumentService] database connection tidak ditemukan di context")
	}

	document, err := s.documentRepository.GetActiveByID(ctx, db.DB, documentID)
	if err != nil {
		return apperror.Storage("Gagal mengambil dokumen", err)
	}
	if document == nil {
		return apperror.NotFound("Dokumen tidak ditemukan")
	}

	if err := s.documentRepository.SoftDelete(ctx, db.DB, documentID, actorID); err != nil {
		return apperror.Storage("Gagal menghapus dokumen", err)
	}

	if err := s.historyRepository.Append(ctx, db.DB, &model.DocumentHistory{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		ChangedBy:  actorID,
		Action:     model.ActionDeleted,
		Notes:      fmt.Sprintf("Dokumen %q dihapus", document.Title),
	}); err != nil {
		log.Printf("[DocumentService] gagal mencatat riwayat hapus: %v", err)
	}

	if document.Status == model.StatusApproved {
		if err := s.cacheRepository.InvalidateApprovedList(ctx); err != nil {
			log.Printf("[DocumentService] gagal invalidasi cache approved: %v", err)
		}
	}

	s.fanout.DocumentDeleted(ctx, document, ports.Actor{ID: actorID, Name: actorName})

	return nil
}

// ListVisible : viewer hanya approved; uploader approved plus miliknya;
// admin/manager semua yang belum terhapus. Tiap entri diberi signed URL,
// gagal menandatangani satu entri tidak menggagalkan daftar.
func (s *DocumentService) ListVisible(ctx context.Context, role model.Role, userID string) ([]requestresponse.DocumentListItem, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[DocumentService] database connection tidak ditemukan di context")
	}

	documents, err := s.documentRepository.ListVisible(ctx, db.DB, role, userID, listLimit)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil daftar dokumen", err)
	}

	items := make([]requestresponse.DocumentListItem, 0, len(documents))
	for _, d := range documents {
		item := requestresponse.DocumentListItem{
			ID:         d.ID,
			Title:      d.Title,
			FileType:   d.FileType,
			Status:     string(d.Status),
			CreatedAt:  d.CreatedAt,
			FilePath:   d.FilePath,
			UploadedBy: d.UploadedBy,
			DeletedAt:  d.DeletedAt,
		}
		if d.FilePath != "" {
			url, err := s.storage.GeneratePresignedGetURL(ctx, d.FilePath, s.signedURLTTL)
			if err != nil {
				log.Printf("[DocumentService] gagal membuat signed URL untuk %s: %v", d.FilePath, err)
			} else {
				item.FileURL = url
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// History : semua dokumen termasuk yang terhapus, nama user di-resolve
// sekali dengan satu query batch.
func (s *DocumentService) History(ctx context.Context) ([]model.HistoryEntry, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[DocumentService] database connection tidak ditemukan di context")
	}

	documents, err := s.documentRepository.ListForHistory(ctx, db.DB, historyLimit)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil riwayat dokumen", err)
	}

	idSet := map[string]struct{}{}
	for _, d := range documents {
		if d.UploadedBy != "" {
			idSet[d.UploadedBy] = struct{}{}
		}
		for _, p := range []*string{d.ApprovedBy, d.RejectedBy, d.DeletedBy} {
			if p != nil {
				idSet[*p] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names := map[string]string{}
	if len(ids) > 0 {
		names, err = s.userRepository.NamesByIDs(ctx, db.DB, ids)
		if err != nil {
			return nil, apperror.Storage("Gagal mengambil nama user", err)
		}
	}
	nameOf := func(p *string, fallback string) string {
		if p == nil {
			return fallback
		}
		if name, ok := names[*p]; ok {
			return name
		}
		return fallback
	}

	entries := make([]model.HistoryEntry, 0, len(documents))
	for _, d := range documents {
		status := string(d.Status)
		if d.DeletedAt != nil {
			status = "deleted"
		}

		fileURL := ""
		if d.FilePath != "" {
			url, err := s.storage.GeneratePresignedGetURL(ctx, d.FilePath, s.signedURLTTL)
			if err != nil {
				log.Printf("[DocumentService] gagal membuat signed URL untuk %s: %v", d.FilePath, err)
			} else {
				fileURL = url
			}
		}

		uploader := "Unknown"
		if name, ok := names[d.UploadedBy]; ok {
			uploader = name
		}
		entries = append(entries, model.HistoryEntry{
			ID:             d.ID,
			Title:          d.Title,
			FileType:       d.FileType,
			Status:         status,
			UploadedAt:     d.CreatedAt,
			DeletedAt:      d.DeletedAt,
			Uploader:       uploader,
			UploadedBy:     d.UploadedBy,
			ApprovedByName: nameOf(d.ApprovedBy, "-"),
			RejectedByName: nameOf(d.RejectedBy, "-"),
			DeletedByName:  nameOf(d.DeletedBy, "-"),
			RejectionNote:  d.RejectionNote,
			FileURL:        fileURL,
		})
	}
	return entries, nil
}

// truncateValid : potong maksimal limit byte tanpa membelah rune UTF-8
func truncateValid(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// deriveTitle : nama file tanpa ekstensi, pemisah _ dan - menjadi spasi
func deriveTitle(filename string) string {
	base := filepath.Base(filename)
	if base == "" || base == "." {
		return "Dokumen"
	}
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = separatorPattern.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	if title == "" {
		return "Dokumen"
	}
	return title
}
