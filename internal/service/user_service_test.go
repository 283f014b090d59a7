package service_test

import (
	"context"
	"testing"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/apperror"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/security"
	"buku-saku-server/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*model.User, error) {
	args := m.Called(ctx, exec, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	return m.Called(ctx, exec, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id, newPasswordHash string) error {
	return m.Called(ctx, exec, id, newPasswordHash).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	return m.Called(ctx, exec, id).Error(0)
}

func (m *MockUserRepository) ListAll(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) ListByRoles(ctx context.Context, exec sqlx.ExtContext, roles ...model.Role) ([]*model.User, error) {
	args := m.Called(ctx, exec, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) ListActive(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) ListPending(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) NamesByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) (map[string]string, error) {
	args := m.Called(ctx, exec, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) InsertMany(ctx context.Context, exec sqlx.ExtContext, notifs []model.Notification) error {
	return m.Called(ctx, exec, notifs).Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, exec, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, exec sqlx.ExtContext, id, userID string) error {
	return m.Called(ctx, exec, id, userID).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, exec sqlx.ExtContext, userID string) error {
	return m.Called(ctx, exec, userID).Error(0)
}

func (m *MockNotificationRepository) DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) error {
	return m.Called(ctx, exec, userID).Error(0)
}

func (m *MockNotificationRepository) DeleteByMessagePattern(ctx context.Context, exec sqlx.ExtContext, pattern string) (int64, error) {
	args := m.Called(ctx, exec, pattern)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) ListByMessagePattern(ctx context.Context, exec sqlx.ExtContext, pattern string, since time.Time, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, exec, pattern, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ExistsRecent(ctx context.Context, exec sqlx.ExtContext, userID, message string, since time.Time) (bool, error) {
	args := m.Called(ctx, exec, userID, message, since)
	return args.Bool(0), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, to, subject, text string) error {
	return m.Called(ctx, to, subject, text).Error(0)
}

// ===== Helper =====

func newTestUserService() (*service.UserService, *MockUserRepository, *MockNotificationRepository, *MockDocumentRepository, *MockHistoryRepository, *MockFanout, *MockMailer) {
	mockUserRepo := new(MockUserRepository)
	mockNotifRepo := new(MockNotificationRepository)
	mockDocRepo := new(MockDocumentRepository)
	mockHistoryRepo := new(MockHistoryRepository)
	mockFanout := new(MockFanout)
	mockMailer := new(MockMailer)

	jwtService := security.NewJWTService(&config.JWTConfig{
		SecretKey:   "kunci-uji",
		TokenTTL:    "1h",
		EnforceName: true,
	})

	svc := service.NewUserService(
		mockUserRepo,
		mockNotifRepo,
		mockDocRepo,
		mockHistoryRepo,
		mockFanout,
		mockMailer,
		jwtService,
		true,
		"super@gmail.com",
	)

	return svc, mockUserRepo, mockNotifRepo, mockDocRepo, mockHistoryRepo, mockFanout, mockMailer
}

func boolPtr(b bool) *bool { return &b }

// ===== Tes Register =====

func TestRegister_Success(t *testing.T) {
	svc, mockUserRepo, _, _, _, mockFanout, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(nil, nil)
	mockUserRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "budi@gmail.com" && u.Role == model.RoleViewer && u.IsActive != nil && !*u.IsActive
	})).Return(&model.User{ID: "user1", Email: "budi@gmail.com", Role: model.RoleViewer, IsActive: boolPtr(false)}, nil)
	mockFanout.On("RegistrationRequested", ctx, mock.Anything).Return()

	msg, err := svc.Register(ctx, ports.RegisterInput{
		Name:     "Budi",
		Email:    "budi@gmail.com",
		Password: "rahasia123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Registrasi berhasil. Data dikirim ke Admin. Silakan tunggu persetujuan.", msg)
	mockUserRepo.AssertExpectations(t)
	mockFanout.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	tests := []struct {
		name        string
		input       ports.RegisterInput
		expectError string
	}{
		{
			name:        "nama terlalu pendek",
			input:       ports.RegisterInput{Name: "B", Email: "budi@gmail.com", Password: "rahasia123"},
			expectError: "Nama minimal 2 karakter",
		},
		{
			name:        "bukan gmail",
			input:       ports.RegisterInput{Name: "Budi", Email: "budi@yahoo.com", Password: "rahasia123"},
			expectError: "Hanya email @gmail.com yang diperbolehkan",
		},
		{
			name:        "password terlalu pendek",
			input:       ports.RegisterInput{Name: "Budi", Email: "budi@gmail.com", Password: "abc"},
			expectError: "Password minimal 6 karakter",
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").
		Return(&model.User{ID: "user1", Email: "budi@gmail.com"}, nil)

	_, err := svc.Register(ctx, ports.RegisterInput{
		Name:     "Budi",
		Email:    "budi@gmail.com",
		Password: "rahasia123",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "Email sudah terdaftar")
}

// ===== Tes Login =====

func TestLoginUser_Success(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	hash, err := security.HashPassword("rahasia123")
	require.NoError(t, err)

	user := &model.User{
		ID:           "user1",
		Name:         "Budi",
		Email:        "budi@gmail.com",
		PasswordHash: hash,
		Role:         model.RoleViewer,
		IsActive:     boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(user, nil)

	token, loggedIn, err := svc.LoginUser(ctx, "budi", "budi@gmail.com", "rahasia123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user1", loggedIn.ID)
}

func TestLoginUser_PendingAccount(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	user := &model.User{
		ID:       "user1",
		Name:     "Budi",
		Email:    "budi@gmail.com",
		Role:     model.RoleViewer,
		IsActive: boolPtr(false),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(user, nil)

	token, _, err := svc.LoginUser(ctx, "Budi", "budi@gmail.com", "rahasia123")

	assert.Empty(t, token)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	assert.Contains(t, err.Error(), "belum diaktifkan oleh Admin")
}

func TestLoginUser_WrongPassword(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	hash, err := security.HashPassword("rahasia123")
	require.NoError(t, err)

	user := &model.User{
		ID:           "user1",
		Name:         "Budi",
		Email:        "budi@gmail.com",
		PasswordHash: hash,
		Role:         model.RoleViewer,
		IsActive:     boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(user, nil)

	_, _, loginErr := svc.LoginUser(ctx, "Budi", "budi@gmail.com", "salah")

	assert.True(t, apperror.IsKind(loginErr, apperror.KindUnauthenticated))
	assert.Contains(t, loginErr.Error(), "Kredensial salah")
}

// Admin tidak boleh masuk lewat jalur login user biasa.
func TestLoginUser_AdminRejected(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	admin := &model.User{
		ID:       "admin1",
		Name:     "Sari",
		Email:    "sari@gmail.com",
		Role:     model.RoleAdmin,
		IsActive: boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "sari@gmail.com").Return(admin, nil)

	_, _, err := svc.LoginUser(ctx, "Sari", "sari@gmail.com", "rahasia123")

	assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))
}

func TestLoginAdmin_Success(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	passwordHash, err := security.HashPassword("rahasia123")
	require.NoError(t, err)
	passkeyHash, err := security.HashPassword("kunci-rahasia")
	require.NoError(t, err)

	admin := &model.User{
		ID:           "admin1",
		Name:         "Sari",
		Email:        "sari@gmail.com",
		PasswordHash: passwordHash,
		PasskeyHash:  &passkeyHash,
		Role:         model.RoleAdmin,
		IsActive:     boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "sari@gmail.com").Return(admin, nil)

	token, loggedIn, err := svc.LoginAdmin(ctx, "Sari", "sari@gmail.com", "kunci-rahasia", "rahasia123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleAdmin, loggedIn.Role)
}

func TestLoginAdmin_WrongPasskey(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	passwordHash, err := security.HashPassword("rahasia123")
	require.NoError(t, err)
	passkeyHash, err := security.HashPassword("kunci-rahasia")
	require.NoError(t, err)

	admin := &model.User{
		ID:           "admin1",
		Name:         "Sari",
		Email:        "sari@gmail.com",
		PasswordHash: passwordHash,
		PasskeyHash:  &passkeyHash,
		Role:         model.RoleAdmin,
		IsActive:     boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "sari@gmail.com").Return(admin, nil)

	_, _, loginErr := svc.LoginAdmin(ctx, "Sari", "sari@gmail.com", "salah", "rahasia123")

	assert.True(t, apperror.IsKind(loginErr, apperror.KindUnauthenticated))
	assert.Contains(t, loginErr.Error(), "Passkey salah")
}

func TestLoginAdmin_MissingPasskey(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	passwordHash, err := security.HashPassword("rahasia123")
	require.NoError(t, err)

	admin := &model.User{
		ID:           "admin1",
		Name:         "Sari",
		Email:        "sari@gmail.com",
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		IsActive:     boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "sari@gmail.com").Return(admin, nil)

	_, _, loginErr := svc.LoginAdmin(ctx, "Sari", "sari@gmail.com", "apapun", "rahasia123")

	assert.True(t, apperror.IsKind(loginErr, apperror.KindUnauthenticated))
	assert.Contains(t, loginErr.Error(), "belum memiliki passkey")
}

// ===== Tes UpsertUser =====

func TestUpsertUser_ApprovesPending(t *testing.T) {
	svc, mockUserRepo, _, _, _, mockFanout, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	pending := &model.User{
		ID:           "user1",
		Name:         "Budi",
		Email:        "budi@gmail.com",
		PasswordHash: "hash-lama",
		Role:         model.RoleViewer,
		IsActive:     boolPtr(false),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(pending, nil)
	mockUserRepo.On("Update", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "user1" && u.Role == model.RoleUploader && u.IsActive != nil && *u.IsActive &&
			u.PasswordHash == "hash-lama"
	})).Return(nil)
	mockFanout.On("RegistrationDecided", ctx, "admin1", "budi@gmail.com", true).Return()

	msg, err := svc.UpsertUser(ctx, "admin1", ports.UpsertUserInput{
		Name:     "Budi",
		Email:    "budi@gmail.com",
		Password: "unchanged",
		Role:     model.RoleUploader,
	})

	assert.NoError(t, err)
	assert.Equal(t, "User pending berhasil di-approve dan diaktifkan.", msg)
	mockFanout.AssertExpectations(t)
}

func TestUpsertUser_UpdatesActive(t *testing.T) {
	svc, mockUserRepo, _, _, _, mockFanout, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	active := &model.User{
		ID:           "user1",
		Name:         "Budi",
		Email:        "budi@gmail.com",
		PasswordHash: "hash-lama",
		Role:         model.RoleUploader,
		IsActive:     boolPtr(true),
	}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(active, nil)
	mockUserRepo.On("Update", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// password baru diganti hash baru
		return u.PasswordHash != "hash-lama" && u.PasswordHash != "barubanget"
	})).Return(nil)

	msg, err := svc.UpsertUser(ctx, "admin1", ports.UpsertUserInput{
		Name:     "Budi",
		Email:    "budi@gmail.com",
		Password: "barubanget",
		Role:     model.RoleManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, "User aktif berhasil diupdate.", msg)
	mockFanout.AssertNotCalled(t, "RegistrationDecided", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertUser_NewUserRequiresPassword(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "baru@gmail.com").Return(nil, nil)

	_, err := svc.UpsertUser(ctx, "admin1", ports.UpsertUserInput{
		Name:  "Baru",
		Email: "baru@gmail.com",
		Role:  model.RoleViewer,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "Password wajib diisi untuk user baru")
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertUser_CreatesNew(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "baru@gmail.com").Return(nil, nil)
	mockUserRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "baru@gmail.com" && u.Role == model.RoleManager && u.IsActive != nil && *u.IsActive &&
			security.CheckPassword("rahasia123", u.PasswordHash)
	})).Return(&model.User{ID: "user2"}, nil)

	msg, err := svc.UpsertUser(ctx, "admin1", ports.UpsertUserInput{
		Name:     "Baru",
		Email:    "baru@gmail.com",
		Password: "rahasia123",
		Role:     model.RoleManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, "User baru berhasil dibuat.", msg)
	mockUserRepo.AssertExpectations(t)
}

// ===== Tes RejectRegistration =====

func TestRejectRegistration_Success(t *testing.T) {
	svc, mockUserRepo, mockNotifRepo, _, _, mockFanout, mockMailer := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	pending := &model.User{ID: "user1", Email: "budi@gmail.com", IsActive: boolPtr(false)}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(pending, nil)
	// jejak audit dicatat sebelum catatan user dibersihkan
	mockFanout.On("RegistrationDecided", ctx, "admin1", "budi@gmail.com", false).Return()
	mockNotifRepo.On("DeleteByUser", ctx, mock.Anything, "user1").Return(nil)
	mockUserRepo.On("Delete", ctx, mock.Anything, "user1").Return(nil)
	mockMailer.On("Send", ctx, "budi@gmail.com", "Registrasi Ditolak",
		"Mohon maaf, registrasi Anda ditolak oleh QAQC.").Return(nil)

	err := svc.RejectRegistration(ctx, "admin1", "budi@gmail.com")

	assert.NoError(t, err)
	mockFanout.AssertExpectations(t)
	mockNotifRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestRejectRegistration_ActiveUser(t *testing.T) {
	svc, mockUserRepo, mockNotifRepo, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	active := &model.User{ID: "user1", Email: "budi@gmail.com", IsActive: boolPtr(true)}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(active, nil)

	err := svc.RejectRegistration(ctx, "admin1", "budi@gmail.com")

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "User sudah aktif, tidak bisa di-reject")
	mockNotifRepo.AssertNotCalled(t, "DeleteByUser", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectRegistration_NotFound(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "hilang@gmail.com").Return(nil, nil)

	err := svc.RejectRegistration(ctx, "admin1", "hilang@gmail.com")

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

// ===== Tes ResetPassword =====

// Password baru hanya dikirim lewat email, tidak pernah di respons.
func TestResetPassword_Success(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, mockMailer := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	user := &model.User{ID: "user1", Email: "budi@gmail.com", IsActive: boolPtr(true)}
	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "budi@gmail.com").Return(user, nil)

	var sentBody string
	mockUserRepo.On("UpdatePassword", ctx, mock.Anything, "user1", mock.Anything).Return(nil)
	mockMailer.On("Send", ctx, "budi@gmail.com", "Reset Password", mock.Anything).
		Run(func(args mock.Arguments) { sentBody = args.String(3) }).Return(nil)

	msg, err := svc.ResetPassword(ctx, "budi@gmail.com")

	assert.NoError(t, err)
	assert.Equal(t, "Password berhasil direset. Email telah dikirim ke budi@gmail.com", msg)
	assert.Contains(t, sentBody, "Password Baru Anda: ")
	assert.NotContains(t, msg, sentBody[len("Password Baru Anda: "):])
	mockUserRepo.AssertExpectations(t)
}

func TestResetPassword_NotFound(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, mockMailer := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockUserRepo.On("FindByEmail", ctx, mock.Anything, "hilang@gmail.com").Return(nil, nil)

	_, err := svc.ResetPassword(ctx, "hilang@gmail.com")

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ===== Tes DeleteUser =====

func TestDeleteUser_Self(t *testing.T) {
	svc, mockUserRepo, _, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	err := svc.DeleteUser(ctx, "admin1", "admin1")

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "Tidak dapat menghapus akun sendiri.")
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUser_SuperAdmin(t *testing.T) {
	svc, mockUserRepo, _, mockDocRepo, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	target := &model.User{ID: "user1", Email: "Super@gmail.com", Role: model.RoleAdmin}
	mockUserRepo.On("FindByID", ctx, mock.Anything, "user1").Return(target, nil)

	err := svc.DeleteUser(ctx, "admin1", "user1")

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "Tidak dapat menghapus Super Admin.")
	mockDocRepo.AssertNotCalled(t, "BeginTX", mock.Anything)
}

// Dokumen dan riwayat milik target dipindahkan ke admin penghapus dalam satu
// transaksi sebelum user dan notifikasinya dihapus.
func TestDeleteUser_ReassignsDataInTransaction(t *testing.T) {
	svc, mockUserRepo, mockNotifRepo, mockDocRepo, mockHistoryRepo, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	target := &model.User{ID: "user1", Email: "budi@gmail.com", Role: model.RoleUploader}
	mockUserRepo.On("FindByID", ctx, mock.Anything, "user1").Return(target, nil)

	committed := false
	tx := &fakeTx{}
	mockDocRepo.On("BeginTX", ctx).Return(
		sqlx.ExtContext(tx),
		func() error { return nil },
		func() error { committed = true; return nil },
		nil,
	)
	mockDocRepo.On("ReassignUser", ctx, sqlx.ExtContext(tx), "user1", "admin1").Return(nil)
	mockHistoryRepo.On("ReassignUser", ctx, sqlx.ExtContext(tx), "user1", "admin1").Return(nil)
	mockNotifRepo.On("DeleteByUser", ctx, sqlx.ExtContext(tx), "user1").Return(nil)
	mockUserRepo.On("Delete", ctx, sqlx.ExtContext(tx), "user1").Return(nil)

	err := svc.DeleteUser(ctx, "admin1", "user1")

	assert.NoError(t, err)
	assert.True(t, committed)
	mockDocRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
	mockNotifRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

// ===== Tes Summary =====

func TestSummary_FiltersWindowAndWritesAgingReminder(t *testing.T) {
	svc, mockUserRepo, mockNotifRepo, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	now := time.Now()
	pendingUsers := []*model.User{
		{ID: "p1", Name: "Budi", Email: "budi@gmail.com", CreatedAt: now.Add(-25 * 24 * time.Hour)},
		// di luar jendela 30 hari, tidak tampil dan tidak memicu pengingat
		{ID: "p2", Name: "Lama", Email: "lama@gmail.com", CreatedAt: now.Add(-40 * 24 * time.Hour)},
	}
	activeUsers := []*model.User{
		{ID: "a1", Name: "Sari", Email: "sari@gmail.com", CreatedAt: now.Add(-2 * 24 * time.Hour)},
	}
	rejectionLogs := []model.Notification{
		{ID: "n1", UserID: "admin2", Message: "Menolak registrasi: tolak@gmail.com", CreatedAt: now.Add(-24 * time.Hour)},
	}

	mockUserRepo.On("ListPending", ctx, mock.Anything).Return(pendingUsers, nil)
	mockUserRepo.On("ListActive", ctx, mock.Anything).Return(activeUsers, nil)
	mockNotifRepo.On("ListByMessagePattern", ctx, mock.Anything, "%Menolak registrasi:%", mock.Anything, 100).
		Return(rejectionLogs, nil)
	mockUserRepo.On("NamesByIDs", ctx, mock.Anything, []string{"admin2"}).
		Return(map[string]string{"admin2": "Sari"}, nil)

	reminder := "H-7: Pending budi@gmail.com akan dihapus dari tampilan jika tidak di-approve"
	mockNotifRepo.On("ExistsRecent", ctx, mock.Anything, "admin1", reminder, mock.Anything).Return(false, nil)
	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.MatchedBy(func(ns []model.Notification) bool {
		return len(ns) == 1 && ns[0].UserID == "admin1" && ns[0].Message == reminder
	})).Return(nil)

	summary, err := svc.Summary(ctx, "admin1")

	assert.NoError(t, err)
	assert.Len(t, summary.Pending, 1)
	assert.Equal(t, "budi@gmail.com", summary.Pending[0].Email)
	assert.Len(t, summary.Active, 1)
	assert.Len(t, summary.Rejections, 1)
	assert.Equal(t, "Sari", summary.Rejections[0].ActorName)
	mockNotifRepo.AssertExpectations(t)
}

// Pengingat H-7 yang sudah ditulis dalam 24 jam terakhir tidak diulang.
func TestSummary_AgingReminderDeduplicated(t *testing.T) {
	svc, mockUserRepo, mockNotifRepo, _, _, _, _ := newTestUserService()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	now := time.Now()
	pendingUsers := []*model.User{
		{ID: "p1", Name: "Budi", Email: "budi@gmail.com", CreatedAt: now.Add(-25 * 24 * time.Hour)},
	}
	mockUserRepo.On("ListPending", ctx, mock.Anything).Return(pendingUsers, nil)
	mockUserRepo.On("ListActive", ctx, mock.Anything).Return([]*model.User{}, nil)
	mockNotifRepo.On("ListByMessagePattern", ctx, mock.Anything, "%Menolak registrasi:%", mock.Anything, 100).
		Return([]model.Notification{}, nil)
	mockNotifRepo.On("ExistsRecent", ctx, mock.Anything, "admin1", mock.Anything, mock.Anything).Return(true, nil)

	_, err := svc.Summary(ctx, "admin1")

	assert.NoError(t, err)
	mockNotifRepo.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything, mock.Anything)
}
