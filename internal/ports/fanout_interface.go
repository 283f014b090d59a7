package ports

import (
	"context"

	"buku-saku-server/internal/model"
)

// Actor : identitas pelaku aksi, dipakai menyusun pesan notifikasi.
type Actor struct {
	ID   string
	Name string
}

// NotificationFanout menghitung himpunan penerima tiap event lifecycle dan
// menulis notifikasinya. Semua metode best-effort: kegagalan insert dicatat di
// log dan tidak pernah membatalkan transisi utama yang sudah terjadi.
type NotificationFanout interface {
	DocumentUploaded(ctx context.Context, doc *model.Document, actor Actor)
	DocumentStatusChanged(ctx context.Context, doc *model.Document, actor Actor, status model.DocumentStatus, rejectionNote string)
	DocumentDeleted(ctx context.Context, doc *model.Document, actor Actor)
	RegistrationRequested(ctx context.Context, registrant *model.User)
	RegistrationDecided(ctx context.Context, actorID, email string, approved bool)
}

// Embedder : penyedia vektor embedding, best-effort.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// TextExtractor : ekstraksi teks dari buffer PDF/DOCX, best-effort.
type TextExtractor interface {
	Extract(data []byte, contentType, filename string) (string, error)
}

// Mailer : pengiriman email keluar, fire-and-forget.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}
