package model

import "time"

type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Favorite : pasangan (user, dokumen), unik per pasangan.
type Favorite struct {
	UserID     string    `db:"user_id" json:"user_id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FavoriteItem : favorit beserta detail dokumennya.
type FavoriteItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	FileType   string    `json:"file_type"`
	Tags       []string  `json:"tags"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	FavoriteAt time.Time `json:"favorite_at"`
	FilePath   string    `json:"file_path"`
}
