package service

import (
	"context"
	"fmt"
	"log"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"

	"github.com/google/uuid"
)

// NotificationFanoutService menghitung penerima tiap event lifecycle dan
// menulis notifikasi per user. Seluruh operasinya best-effort: kegagalan
// dicatat di log dan tidak membatalkan transisi yang memicunya.
type NotificationFanoutService struct {
	notificationRepository ports.NotificationRepository
	userRepository         ports.UserRepository
}

func NewNotificationFanoutService(
	notificationRepository ports.NotificationRepository,
	userRepository ports.UserRepository,
) *NotificationFanoutService {
	return &NotificationFanoutService{
		notificationRepository: notificationRepository,
		userRepository:         userRepository,
	}
}

type pendingNotif struct {
	message string
	typ     string
}

// DocumentUploaded : admin+manager dapat permintaan persetujuan, uploader
// dapat konfirmasi. Map per user: bila uploader juga admin/manager, pesan
// konfirmasinya yang menang.
func (s *NotificationFanoutService) DocumentUploaded(ctx context.Context, doc *model.Document, actor ports.Actor) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		log.Println("[NotificationFanout] database connection tidak ditemukan di context")
		return
	}

	recipients := map[string]pendingNotif{}

	approvers, err := s.userRepository.ListByRoles(ctx, db.DB, model.RoleAdmin, model.RoleManager)
	if err != nil {
		log.Printf("[NotificationFanout] gagal mengambil approver: %v", err)
	}
	for _, u := range approvers {
		recipients[u.ID] = pendingNotif{
			message: fmt.Sprintf("Dokumen baru menunggu persetujuan: %s (oleh %s)", doc.Title, actor.Name),
			typ:     model.NotifUploadRequest,
		}
	}

	recipients[actor.ID] = pendingNotif{
		message: fmt.Sprintf("Berhasil upload %q. Menunggu persetujuan.", doc.Title),
		typ:     model.NotifUploadConfirmation,
	}

	s.insert(ctx, db, recipients)
}

// DocumentStatusChanged : uploader (bila bukan aktor) diberi tahu hasilnya,
// semua admin/manager diberi info proses (aktor mendapat konfirmasi diri),
// dan saat approve seluruh user aktif kecuali aktor menerima "dokumen baru terbit".
func (s *NotificationFanoutService) DocumentStatusChanged(ctx context.Context, doc *model.Document, actor ports.Actor, status model.DocumentStatus, rejectionNote string) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		log.Println("[NotificationFanout] database connection tidak ditemukan di context")
		return
	}

	note := rejectionNote
	if note == "" {
		note = "-"
	}

	notifs := []model.Notification{}
	add := func(userID, message, typ string) {
		notifs = append(notifs, model.Notification{
			ID:      uuid.NewString(),
			UserID:  userID,
			Message: message,
			Type:    typ,
		})
	}

	if doc.UploadedBy != "" && doc.UploadedBy != actor.ID {
		if status == model.StatusApproved {
			add(doc.UploadedBy,
				fmt.Sprintf("Dokumen Anda %q telah DISETUJUI.", doc.Title),
				model.NotifStatusUploader)
		} else {
			add(doc.UploadedBy,
				fmt.Sprintf("Dokumen Anda %q telah DITOLAK. Alasan: %s", doc.Title, note),
				model.NotifStatusUploader)
		}
	}

	approvers, err := s.userRepository.ListByRoles(ctx, db.DB, model.RoleAdmin, model.RoleManager)
	if err != nil {
		log.Printf("[NotificationFanout] gagal mengambil approver: %v", err)
	}
	for _, u := range approvers {
		var message string
		switch {
		case u.ID == actor.ID && status == model.StatusApproved:
			message = fmt.Sprintf("Anda berhasil menyetujui dokumen %q", doc.Title)
		case u.ID == actor.ID:
			message = fmt.Sprintf("Anda berhasil menolak dokumen %q", doc.Title)
		case status == model.StatusApproved:
			message = fmt.Sprintf("Dokumen %q disetujui oleh %s", doc.Title, actor.Name)
		default:
			message = fmt.Sprintf("Dokumen %q ditolak oleh %s. Alasan: %s", doc.Title, actor.Name, note)
		}
		add(u.ID, message, model.NotifStatusManager)
	}

	if status == model.StatusApproved {
		activeUsers, err := s.userRepository.ListActive(ctx, db.DB)
		if err != nil {
			log.Printf("[NotificationFanout] gagal mengambil user aktif: %v", err)
		}
		for _, u := range activeUsers {
			if u.ID == actor.ID {
				continue
			}
			add(u.ID, fmt.Sprintf("Dokumen baru terbit: %q", doc.Title), model.NotifNewRelease)
		}
	}

	if len(notifs) == 0 {
		return
	}
	if err := s.notificationRepository.InsertMany(ctx, db.DB, notifs); err != nil {
		log.Printf("[NotificationFanout] gagal menyimpan notifikasi status: %v", err)
	}
}

// DocumentDeleted : uploader ∪ semua admin ∪ semua manager; aktor menerima
// konfirmasi diri, lainnya kalimat orang ketiga.
func (s *NotificationFanoutService) DocumentDeleted(ctx context.Context, doc *model.Document, actor ports.Actor) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		log.Println("[NotificationFanout] database connection tidak ditemukan di context")
		return
	}

	recipients := map[string]pendingNotif{}
	phrase := func(userID string) string {
		if userID == actor.ID {
			return fmt.Sprintf("Anda berhasil menghapus dokumen %q", doc.Title)
		}
		return fmt.Sprintf("Dokumen %q dihapus oleh %s", doc.Title, actor.Name)
	}

	if doc.UploadedBy != "" {
		recipients[doc.UploadedBy] = pendingNotif{message: phrase(doc.UploadedBy), typ: model.NotifDeletion}
	}

	staff, err := s.userRepository.ListByRoles(ctx, db.DB, model.RoleAdmin, model.RoleManager)
	if err != nil {
		log.Printf("[NotificationFanout] gagal mengambil admin/manager: %v", err)
	}
	for _, u := range staff {
		recipients[u.ID] = pendingNotif{message: phrase(u.ID), typ: model.NotifDeletion}
	}

	s.insert(ctx, db, recipients)
}

// RegistrationRequested : semua admin diberi permintaan persetujuan,
// pendaftar menerima notifikasi "menunggu".
func (s *NotificationFanoutService) RegistrationRequested(ctx context.Context, registrant *model.User) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		log.Println("[NotificationFanout] database connection tidak ditemukan di context")
		return
	}

	recipients := map[string]pendingNotif{}

	admins, err := s.userRepository.ListByRoles(ctx, db.DB, model.RoleAdmin)
	if err != nil {
		log.Printf("[NotificationFanout] gagal mengambil admin: %v", err)
	}
	for _, u := range admins {
		recipients[u.ID] = pendingNotif{
			message: fmt.Sprintf("Registrasi baru menunggu persetujuan: %s (%s)", registrant.Name, registrant.Email),
			typ:     model.NotifRegistrationRequest,
		}
	}

	recipients[registrant.ID] = pendingNotif{
		message: "Registrasi Anda sedang menunggu persetujuan admin.",
		typ:     model.NotifRegistrationPending,
	}

	s.insert(ctx, db, recipients)
}

// RegistrationDecided : satu notifikasi audit ke aktor. Pada penolakan,
// catatan user sudah dibersihkan sebelumnya, jadi jejaknya hanya di sini.
func (s *NotificationFanoutService) RegistrationDecided(ctx context.Context, actorID, email string, approved bool) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		log.Println("[NotificationFanout] database connection tidak ditemukan di context")
		return
	}

	message := fmt.Sprintf("Menolak registrasi: %s", email)
	typ := model.NotifRegistrationResult
	if approved {
		message = fmt.Sprintf("Menyetujui registrasi: %s", email)
	}

	notif := model.Notification{
		ID:      uuid.NewString(),
		UserID:  actorID,
		Message: message,
		Type:    typ,
	}
	if err := s.notificationRepository.InsertMany(ctx, db.DB, []model.Notification{notif}); err != nil {
		log.Printf("[NotificationFanout] gagal menyimpan notifikasi registrasi: %v", err)
	}
}

func (s *NotificationFanoutService) insert(ctx context.Context, db *config.Database, recipients map[string]pendingNotif) {
	if len(recipients) == 0 {
		return
	}
	notifs := make([]model.Notification, 0, len(recipients))
	for userID, n := range recipients {
		notifs = append(notifs, model.Notification{
			ID:      uuid.NewString(),
			UserID:  userID,
			Message: n.message,
			Type:    n.typ,
		})
	}
	if err := s.notificationRepository.InsertMany(ctx, db.DB, notifs); err != nil {
		log.Printf("[NotificationFanout] gagal menyimpan notifikasi: %v", err)
	}
}
