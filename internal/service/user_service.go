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
	"buku-saku-server/internal/model/requestresponse"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/security"

	"github.com/google/uuid"
)

const (
	summaryWindow = 30 * 24 * time.Hour
	// pending berusia H-7 sebelum keluar jendela 30 hari diberi pengingat
	agingThreshold = 23 * 24 * time.Hour
	reminderDedup  = 24 * time.Hour
	summaryLimit   = 100

	rejectionPattern = "%Menolak registrasi:%"
)

type UserService struct {
	userRepository         ports.UserRepository
	notificationRepository ports.NotificationRepository
	documentRepository     ports.DocumentRepository
	historyRepository      ports.HistoryRepository
	fanout                 ports.NotificationFanout
	mailer                 ports.Mailer
	jwtService             *security.JWTService
	enforceName            bool
	superAdminEmail        string
}

func NewUserService(
	userRepository ports.UserRepository,
	notificationRepository ports.NotificationRepository,
	documentRepository ports.DocumentRepository,
	historyRepository ports.HistoryRepository,
	fanout ports.NotificationFanout,
	mailer ports.Mailer,
	jwtService *security.JWTService,
	enforceName bool,
	superAdminEmail string,
) *UserService {
	return &UserService{
		userRepository:         userRepository,
		notificationRepository: notificationRepository,
		documentRepository:     documentRepository,
		historyRepository:      historyRepository,
		fanout:                 fanout,
		mailer:                 mailer,
		jwtService:             jwtService,
		enforceName:            enforceName,
		superAdminEmail:        superAdminEmail,
	}
}

// Register : buat akun pending (is_active=false, role viewer). Token tidak
// diberikan; user menunggu persetujuan admin.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return "", fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	if err := validateRegistration(in.Name, in.Email, in.Password); err != nil {
		return "", err
	}

	existing, err := s.userRepository.FindByEmail(ctx, db.DB, in.Email)
	if err != nil {
		return "", apperror.Storage("Gagal memeriksa email", err)
	}
	if existing != nil {
		return "", apperror.Conflict("Email sudah terdaftar")
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return "", apperror.Storage("Gagal memproses password", err)
	}

	inactive := false
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: passwordHash,
		Role:         model.RoleViewer,
		IsActive:     &inactive,
		Position:     in.Position,
		Instansi:     in.Instansi,
	}
	user, err = s.userRepository.Create(ctx, db.DB, user)
	if err != nil {
		return "", apperror.Storage("Gagal menyimpan user", err)
	}

	s.fanout.RegistrationRequested(ctx, user)

	return "Registrasi berhasil. Data dikirim ke Admin. Silakan tunggu persetujuan.", nil
}

// LoginUser : login non-admin. Akun belum aktif ditolak dengan 403.
func (s *UserService) LoginUser(ctx context.Context, name, email, password string) (string, *model.User, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return "", nil, fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db.DB, email)
	if err != nil {
		return "", nil, apperror.Storage("Gagal mengambil user", err)
	}
	if user == nil || user.Role == model.RoleAdmin {
		return "", nil, apperror.Unauthenticated("Kredensial salah")
	}
	if !user.Active() {
		return "", nil, apperror.Forbidden("Akun Anda belum diaktifkan oleh Admin. Silakan tunggu persetujuan.")
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, apperror.Unauthenticated("Kredensial salah")
	}
	if s.enforceName && !equalFold(user.Name, name) {
		return "", nil, apperror.Unauthenticated("Nama tidak sesuai")
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, apperror.Storage("Gagal membuat token", err)
	}
	return token, user, nil
}

// LoginAdmin : login admin dengan passkey sebagai faktor kedua.
func (s *UserService) LoginAdmin(ctx context.Context, name, email, passkey, password string) (string, *model.User, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return "", nil, fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	admin, err := s.userRepository.FindByEmail(ctx, db.DB, email)
	if err != nil {
		return "", nil, apperror.Storage("Gagal mengambil user", err)
	}
	if admin == nil || admin.Role != model.RoleAdmin {
		return "", nil, apperror.Unauthenticated("Kredensial salah")
	}
	if s.enforceName && !equalFold(admin.Name, name) {
		return "", nil, apperror.Unauthenticated("Nama tidak sesuai")
	}
	if !security.CheckPassword(password, admin.PasswordHash) {
		return "", nil, apperror.Unauthenticated("Kredensial salah")
	}
	if admin.PasskeyHash == nil || *admin.PasskeyHash == "" {
		return "", nil, apperror.Unauthenticated("Akun admin belum memiliki passkey")
	}
	if !security.CheckPassword(passkey, *admin.PasskeyHash) {
		return "", nil, apperror.Unauthenticated("Passkey salah")
	}

	token, err := s.jwtService.GenerateToken(admin)
	if err != nil {
		return "", nil, apperror.Storage("Gagal membuat token", err)
	}
	return token, admin, nil
}

// UpsertUser : satu operasi admin untuk tiga kasus: approve user pending,
// update user aktif, atau buat user baru langsung aktif.
func (s *UserService) UpsertUser(ctx context.Context, actorID string, in ports.UpsertUserInput) (string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return "", fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	if strings.TrimSpace(in.Name) == "" || !isGmail(in.Email) {
		return "", apperror.Validation("Nama dan email @gmail.com wajib diisi")
	}
	if !in.Role.In(model.RoleAdmin, model.RoleManager, model.RoleUploader, model.RoleViewer) {
		return "", apperror.Validation("Role tidak dikenal")
	}

	existing, err := s.userRepository.FindByEmail(ctx, db.DB, in.Email)
	if err != nil {
		return "", apperror.Storage("Gagal memeriksa email", err)
	}

	active := true
	if existing != nil {
		wasPending := !existing.Active()

		existing.Name = strings.TrimSpace(in.Name)
		existing.Role = in.Role
		existing.Position = in.Position
		existing.Instansi = in.Instansi
		existing.IsActive = &active

		switch {
		case in.Password != "" && in.Password != "unchanged":
			hash, err := security.HashPassword(in.Password)
			if err != nil {
				return "", apperror.Storage("Gagal memproses password", err)
			}
			existing.PasswordHash = hash
		case existing.PasswordHash == "":
			random, err := security.GenerateRandomPassword()
			if err != nil {
				return "", apperror.Storage("Gagal membangkitkan password", err)
			}
			hash, err := security.HashPassword(random)
			if err != nil {
				return "", apperror.Storage("Gagal memproses password", err)
			}
			existing.PasswordHash = hash
		}

		if err := s.userRepository.Update(ctx, db.DB, existing); err != nil {
			return "", apperror.Storage("Gagal memperbarui user", err)
		}

		if wasPending {
			s.fanout.RegistrationDecided(ctx, actorID, existing.Email, true)
			return "User pending berhasil di-approve dan diaktifkan.", nil
		}
		return "User aktif berhasil diupdate.", nil
	}

	if in.Password == "" {
		return "", apperror.Validation("Password wajib diisi untuk user baru")
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return "", apperror.Storage("Gagal memproses password", err)
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     &active,
		Position:     in.Position,
		Instansi:     in.Instansi,
	}
	if _, err := s.userRepository.Create(ctx, db.DB, user); err != nil {
		return "", apperror.Storage("Gagal menyimpan user", err)
	}
	return "User baru berhasil dibuat.", nil
}

// RejectRegistration : tolak pendaftaran pending. Jejak audit dicatat lebih
// dulu ke notifikasi aktor karena catatan user-nya sendiri ikut dihapus.
func (s *UserService) RejectRegistration(ctx context.Context, actorID, email string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	if !isGmail(email) {
		return apperror.Validation("Hanya email @gmail.com yang diperbolehkan")
	}

	pending, err := s.userRepository.FindByEmail(ctx, db.DB, email)
	if err != nil {
		return apperror.Storage("Gagal mengambil user", err)
	}
	if pending == nil {
		return apperror.NotFound("User tidak ditemukan")
	}
	if pending.Active() {
		return apperror.Validation("User sudah aktif, tidak bisa di-reject")
	}

	s.fanout.RegistrationDecided(ctx, actorID, pending.Email, false)

	if err := s.notificationRepository.DeleteByUser(ctx, db.DB, pending.ID); err != nil {
		return apperror.Storage("Gagal menghapus notifikasi user", err)
	}
	if err := s.userRepository.Delete(ctx, db.DB, pending.ID); err != nil {
		return apperror.Storage("Gagal menghapus user", err)
	}

	if err := s.mailer.Send(ctx, pending.Email, "Registrasi Ditolak",
		"Mohon maaf, registrasi Anda ditolak oleh QAQC."); err != nil {
		log.Printf("[UserService] gagal mengirim email penolakan ke %s: %v", pending.Email, err)
	}

	return nil
}

// ResetPassword : password acak baru dikirim via email. Kegagalan email
// dicatat tanpa membatalkan reset.
func (s *UserService) ResetPassword(ctx context.Context, email string) (string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return "", fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db.DB, email)
	if err != nil {
		return "", apperror.Storage("Gagal mengambil user", err)
	}
	if user == nil {
		return "", apperror.NotFound("User tidak ditemukan")
	}

	newPassword, err := security.GenerateRandomPassword()
	if err != nil {
		return "", apperror.Storage("Gagal membangkitkan password", err)
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return "", apperror.Storage("Gagal memproses password", err)
	}
	if err := s.userRepository.UpdatePassword(ctx, db.DB, user.ID, hash); err != nil {
		return "", apperror.Storage("Gagal memperbarui password", err)
	}

	if err := s.mailer.Send(ctx, user.Email, "Reset Password",
		fmt.Sprintf("Password Baru Anda: %s", newPassword)); err != nil {
		log.Printf("[UserService] gagal mengirim email reset ke %s: %v", user.Email, err)
	}

	return fmt.Sprintf("Password berhasil direset. Email telah dikirim ke %s", user.Email), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	users, err := s.userRepository.ListAll(ctx, db.DB)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil daftar user", err)
	}
	return users, nil
}

// DeleteUser : dokumen dan riwayat milik target dipindahkan ke admin yang
// menghapus supaya jejak audit tetap utuh, lalu notifikasi dan user dihapus.
// Seluruh langkah berjalan dalam satu transaksi.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	if actorID == targetID {
		return apperror.Validation("Tidak dapat menghapus akun sendiri.")
	}

	target, err := s.userRepository.FindByID(ctx, db.DB, targetID)
	if err != nil {
		return apperror.Storage("Gagal mengambil user", err)
	}
	if target == nil {
		return apperror.NotFound("User tidak ditemukan")
	}
	if s.superAdminEmail != "" && equalFold(target.Email, s.superAdminEmail) {
		return apperror.Validation("Tidak dapat menghapus Super Admin.")
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return apperror.Storage("Gagal memulai transaksi", err)
	}
	defer rollback()

	if err := s.documentRepository.ReassignUser(ctx, exec, targetID, actorID); err != nil {
		return apperror.Storage("Gagal memindahkan dokumen", err)
	}
	if err := s.historyRepository.ReassignUser(ctx, exec, targetID, actorID); err != nil {
		return apperror.Storage("Gagal memindahkan riwayat", err)
	}
	if err := s.notificationRepository.DeleteByUser(ctx, exec, targetID); err != nil {
		return apperror.Storage("Gagal menghapus notifikasi user", err)
	}
	if err := s.userRepository.Delete(ctx, exec, targetID); err != nil {
		return apperror.Storage("Gagal menghapus user", err)
	}

	if err := commit(); err != nil {
		return apperror.Storage("Gagal commit transaksi", err)
	}

	log.Printf("[UserService] user %s dihapus, datanya dipindahkan ke %s", targetID, actorID)
	return nil
}

// Summary : ringkasan admin 30 hari terakhir; pending yang menua (H-7)
// memicu pengingat sekali per 24 jam ke admin pemanggil.
func (s *UserService) Summary(ctx context.Context, actorID string) (*requestresponse.SummaryResponse, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[UserService] database connection tidak ditemukan di context")
	}

	now := time.Now()
	cutoff30 := now.Add(-summaryWindow)
	cutoff1d := now.Add(-reminderDedup)

	pendingUsers, err := s.userRepository.ListPending(ctx, db.DB)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil user pending", err)
	}
	pending := []requestresponse.SummaryUser{}
	for _, u := range pendingUsers {
		if u.CreatedAt.Before(cutoff30) {
			continue
		}
		pending = append(pending, requestresponse.SummaryUser{
			ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt,
		})
	}

	activeUsers, err := s.userRepository.ListActive(ctx, db.DB)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil user aktif", err)
	}
	active := []requestresponse.SummaryUser{}
	for _, u := range activeUsers {
		if u.CreatedAt.Before(cutoff30) || len(active) >= summaryLimit {
			continue
		}
		active = append(active, requestresponse.SummaryUser{
			ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt,
		})
	}

	rejectionLogs, err := s.notificationRepository.ListByMessagePattern(ctx, db.DB, rejectionPattern, cutoff30, summaryLimit)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil log penolakan", err)
	}

	actorIDSet := map[string]struct{}{}
	for _, l := range rejectionLogs {
		if l.UserID != "" {
			actorIDSet[l.UserID] = struct{}{}
		}
	}
	actorIDs := make([]string, 0, len(actorIDSet))
	for id := range actorIDSet {
		actorIDs = append(actorIDs, id)
	}
	actorNames := map[string]string{}
	if len(actorIDs) > 0 {
		actorNames, err = s.userRepository.NamesByIDs(ctx, db.DB, actorIDs)
		if err != nil {
			return nil, apperror.Storage("Gagal mengambil nama admin", err)
		}
	}

	rejections := []requestresponse.SummaryRejection{}
	for _, l := range rejectionLogs {
		name, ok := actorNames[l.UserID]
		if !ok {
			name = "Admin"
		}
		rejections = append(rejections, requestresponse.SummaryRejection{
			ID:        l.ID,
			ActorID:   l.UserID,
			ActorName: name,
			Message:   l.Message,
			CreatedAt: l.CreatedAt,
		})
	}

	// pengingat H-7, dicek sinkron di dalam request ini (tanpa scheduler)
	for _, u := range pending {
		age := now.Sub(u.CreatedAt)
		if age < agingThreshold || age >= summaryWindow {
			continue
		}
		msg := fmt.Sprintf("H-7: Pending %s akan dihapus dari tampilan jika tidak di-approve", u.Email)
		exists, err := s.notificationRepository.ExistsRecent(ctx, db.DB, actorID, msg, cutoff1d)
		if err != nil {
			log.Printf("[UserService] gagal cek pengingat H-7: %v", err)
			continue
		}
		if exists {
			continue
		}
		notif := model.Notification{ID: uuid.NewString(), UserID: actorID, Message: msg}
		if err := s.notificationRepository.InsertMany(ctx, db.DB, []model.Notification{notif}); err != nil {
			log.Printf("[UserService] gagal menulis pengingat H-7: %v", err)
		}
	}

	return &requestresponse.SummaryResponse{
		Pending:    pending,
		Active:     active,
		Rejections: rejections,
	}, nil
}

func validateRegistration(name, email, password string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return apperror.Validation("Nama minimal 2 karakter")
	}
	if !isGmail(email) {
		return apperror.Validation("Hanya email @gmail.com yang diperbolehkan")
	}
	if len(password) < 6 {
		return apperror.Validation("Password minimal 6 karakter")
	}
	return nil
}

func isGmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return strings.Contains(email, "@") && strings.HasSuffix(email, "@gmail.com")
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
