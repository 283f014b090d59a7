package requestresponse

import (
	"buku-saku-server/internal/model"
	"time"
)

// ListUsersResponse : seluruh user, hanya untuk admin
type ListUsersResponse struct {
	Users []*model.User `json:"users"`
}

// SummaryResponse : ringkasan admin (pending / aktif / penolakan 30 hari terakhir)
type SummaryResponse struct {
	Pending    []SummaryUser      `json:"pending"`
	Active     []SummaryUser      `json:"active"`
	Rejections []SummaryRejection `json:"rejections"`
}

type SummaryUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SummaryRejection struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryRequest : pembuatan kategori baru
type CategoryRequest struct {
	Name string `json:"name" example:"Instruksi Kerja"`
}

// NotificationsResponse : notifikasi milik user, terbaru dulu
type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
}

// CleanupResponse : jumlah notifikasi uji coba yang dihapus
type CleanupResponse struct {
	Deleted int64 `json:"deleted" example:"3"`
}
