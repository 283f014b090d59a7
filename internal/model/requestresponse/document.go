package requestresponse

import (
	"buku-saku-server/internal/model"
	"time"
)

// UploadResponse : dokumen yang dibuat plus pesan konfirmasi
type UploadResponse struct {
	Document *model.Document `json:"document"`
	Message  string          `json:"message" example:"Upload Berhasil (Menunggu Persetujuan)"`
}

// SetStatusRequest : approve / reject dokumen
type SetStatusRequest struct {
	Status        string `json:"status" example:"approved"`
	RejectionNote string `json:"rejection_note,omitempty" example:"Format tidak sesuai"`
}

// SearchResponse : hasil pencarian hybrid, maksimal 20 entri
type SearchResponse struct {
	Results []model.SearchResult `json:"results"`
}

// DocumentListItem : entri daftar dokumen aktif
type DocumentListItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	FileType   string     `json:"file_type"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	FilePath   string     `json:"file_path"`
	UploadedBy string     `json:"uploaded_by"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	FileURL    string     `json:"file_url,omitempty"`
}

// ListDocumentsResponse : daftar dokumen sesuai visibilitas role
type ListDocumentsResponse struct {
	Documents []DocumentListItem `json:"documents"`
}

// HistoryResponse : riwayat seluruh dokumen termasuk yang terhapus
type HistoryResponse struct {
	History []model.HistoryEntry `json:"history"`
}

// FavoritesResponse : daftar favorit user beserta detail dokumen
type FavoritesResponse struct {
	Favorites []model.FavoriteItem `json:"favorites"`
}

// FavoriteIDsResponse : hanya ID dokumen favorit, untuk penandaan cepat
type FavoriteIDsResponse struct {
	IDs []string `json:"ids"`
}

// FavoriteStatusResponse : apakah dokumen ada di favorit user
type FavoriteStatusResponse struct {
	Favorite bool `json:"favorite" example:"true"`
}

// OkResponse : konfirmasi sederhana
type OkResponse struct {
	Ok bool `json:"ok" example:"true"`
}
