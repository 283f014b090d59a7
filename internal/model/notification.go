package model

import "time"

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Tipe notifikasi yang dipakai fan-out. Nilai bebas, disimpan apa adanya.
const (
	NotifUploadRequest       = "upload_request"
	NotifUploadConfirmation  = "upload_confirmation"
	NotifStatusUploader      = "document_status_uploader"
	NotifStatusManager       = "document_status_manager"
	NotifNewRelease          = "document_new_release"
	NotifDeletion            = "deletion"
	NotifRegistrationRequest = "registration_request"
	NotifRegistrationPending = "registration_pending"
	NotifRegistrationResult  = "registration_approved"
)
