package ports

import (
	"context"
	"time"

	"buku-saku-server/internal/model"
	"buku-saku-server/internal/model/requestresponse"

	"github.com/jmoiron/sqlx"
)

// DocumentRepository : lapisan SQL untuk tabel documents
type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) (*model.Document, error)
	GetByID(ctx context.Context, exec sqlx.ExtContext, documentID string) (*model.Document, error)
	GetActiveByID(ctx context.Context, exec sqlx.ExtContext, documentID string) (*model.Document, error)
	SetStatus(ctx context.Context, exec sqlx.ExtContext, documentID string, actorID string, status model.DocumentStatus, rejectionNote *string) error
	SoftDelete(ctx context.Context, exec sqlx.ExtContext, documentID string, actorID string) error
	ListVisible(ctx context.Context, exec sqlx.ExtContext, role model.Role, userID string, limit int) ([]model.Document, error)
	ListApproved(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.Document, error)
	ListForHistory(ctx context.Context, exec sqlx.ExtContext, limit int) ([]model.Document, error)
	MatchDocuments(ctx context.Context, exec sqlx.ExtContext, embedding []float64, threshold float64, count int) ([]model.SearchResult, error)
	KeywordSearch(ctx context.Context, exec sqlx.ExtContext, query string, limit int) ([]model.Document, error)
	ReassignUser(ctx context.Context, exec sqlx.ExtContext, fromUserID, toUserID string) error
	CountByCategory(ctx context.Context, exec sqlx.ExtContext, categoryName string) (int, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// HistoryRepository : log append-only document_history
type HistoryRepository interface {
	Append(ctx context.Context, exec sqlx.ExtContext, entry *model.DocumentHistory) error
	ReassignUser(ctx context.Context, exec sqlx.ExtContext, fromUserID, toUserID string) error
}

// BlobStorage : penyimpanan objek dengan signed URL berbatas waktu
type BlobStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// CacheRepository : Redis, cache-aside untuk daftar approved
type CacheRepository interface {
	GetApprovedList(ctx context.Context) ([]model.SearchResult, error)
	SetApprovedList(ctx context.Context, results []model.SearchResult) error
	InvalidateApprovedList(ctx context.Context) error
}

type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
	Tags        []string
	Categories  []string
	UploaderID  string
	UploaderNm  string
}

type DocumentService interface {
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)
	SetStatus(ctx context.Context, documentID string, actorID, actorName string, status model.DocumentStatus, rejectionNote string) error
	SoftDelete(ctx context.Context, documentID string, actorID, actorName string) error
	ListVisible(ctx context.Context, role model.Role, userID string) ([]requestresponse.DocumentListItem, error)
	History(ctx context.Context) ([]model.HistoryEntry, error)
}

type SearchService interface {
	Search(ctx context.Context, query string, role model.Role, userID string) ([]model.SearchResult, error)
	ListApproved(ctx context.Context) ([]model.SearchResult, error)
}
