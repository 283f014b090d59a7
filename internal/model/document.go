package model

import (
	"time"

	"github.com/lib/pq"
)

type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

type HistoryAction string

const (
	ActionUploaded HistoryAction = "uploaded"
	ActionApproved HistoryAction = "approved"
	ActionRejected HistoryAction = "rejected"
	ActionDeleted  HistoryAction = "deleted"
)

type Document struct {
	ID       string         `db:"id" json:"id"`
	Title    string         `db:"title" json:"title"`
	Tags     pq.StringArray `db:"tags" json:"tags"`
	Category pq.StringArray `db:"category" json:"category"`
	FilePath string         `db:"file_path" json:"file_path"`
	FileType string         `db:"file_type" json:"file_type"`
	FileSize int64          `db:"file_size" json:"file_size"`
	// Content : hasil ekstraksi teks, dipotong 10000 karakter
	Content string `db:"content" json:"-"`
	// Embedding nil = vektor gagal dihitung, dokumen hanya terindeks keyword
	Embedding     pq.Float64Array `db:"embedding" json:"-"`
	Status        DocumentStatus  `db:"status" json:"status"`
	UploadedBy    string          `db:"uploaded_by" json:"uploaded_by"`
	ApprovedBy    *string         `db:"approved_by" json:"approved_by,omitempty"`
	RejectedBy    *string         `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectionNote *string         `db:"rejection_note" json:"rejection_note,omitempty"`
	DeletedAt     *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy     *string         `db:"deleted_by" json:"deleted_by,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// DocumentHistory : log append-only, satu baris per transisi lifecycle.
type DocumentHistory struct {
	ID         string        `db:"id" json:"id"`
	DocumentID string        `db:"document_id" json:"document_id"`
	ChangedBy  string        `db:"changed_by" json:"changed_by"`
	Action     HistoryAction `db:"action" json:"action"`
	Notes      string        `db:"notes" json:"notes"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// SearchResult : dokumen plus skor kemiripan dan signed URL unduhan.
type SearchResult struct {
	Document
	Similarity float64 `json:"similarity"`
	FileURL    string  `json:"file_url,omitempty"`
}

// HistoryEntry : proyeksi riwayat dengan nama user yang sudah di-resolve.
type HistoryEntry struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	FileType       string     `json:"type"`
	Status         string     `json:"status"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	Uploader       string     `json:"uploader"`
	UploadedBy     string     `json:"uploaded_by"`
	ApprovedByName string     `json:"approved_by_name"`
	RejectedByName string     `json:"rejected_by_name"`
	DeletedByName  string     `json:"deleted_by_name"`
	RejectionNote  *string    `json:"rejection_note,omitempty"`
	FileURL        string     `json:"file_url,omitempty"`
}
