package service_test

import (
	"context"
	"testing"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestFanout() (*service.NotificationFanoutService, *MockNotificationRepository, *MockUserRepository) {
	mockNotifRepo := new(MockNotificationRepository)
	mockUserRepo := new(MockUserRepository)
	return service.NewNotificationFanoutService(mockNotifRepo, mockUserRepo), mockNotifRepo, mockUserRepo
}

func messagesByUser(ns []model.Notification) map[string]string {
	out := make(map[string]string, len(ns))
	for _, n := range ns {
		out[n.UserID] = n.Message
	}
	return out
}

// Uploader yang juga manager menerima konfirmasi upload, bukan permintaan
// persetujuan untuk dokumennya sendiri.
func TestDocumentUploaded_ActorConfirmationWins(t *testing.T) {
	fanout, mockNotifRepo, mockUserRepo := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	doc := &model.Document{ID: "doc1", Title: "laporan qaqc", UploadedBy: "m1"}
	approvers := []*model.User{
		{ID: "a1", Role: model.RoleAdmin},
		{ID: "m1", Role: model.RoleManager},
	}

	mockUserRepo.On("ListByRoles", ctx, mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
		Return(approvers, nil)

	var inserted []model.Notification
	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(2).([]model.Notification) }).Return(nil)

	fanout.DocumentUploaded(ctx, doc, ports.Actor{ID: "m1", Name: "Maman"})

	assert.Len(t, inserted, 2)
	byUser := messagesByUser(inserted)
	assert.Equal(t, `Dokumen baru menunggu persetujuan: laporan qaqc (oleh Maman)`, byUser["a1"])
	assert.Equal(t, `Berhasil upload "laporan qaqc". Menunggu persetujuan.`, byUser["m1"])
}

// Approve menyebarkan tiga jenis pesan: hasil ke uploader, proses ke
// admin/manager, dan "dokumen baru terbit" ke user aktif lain.
func TestDocumentStatusChanged_ApproveBroadcast(t *testing.T) {
	fanout, mockNotifRepo, mockUserRepo := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	doc := &model.Document{ID: "doc1", Title: "laporan qaqc", UploadedBy: "u1"}
	approvers := []*model.User{
		{ID: "a1", Role: model.RoleAdmin},
		{ID: "m1", Role: model.RoleManager},
	}
	activeUsers := []*model.User{
		{ID: "u1"}, {ID: "a1"}, {ID: "m1"}, {ID: "v1"},
	}

	mockUserRepo.On("ListByRoles", ctx, mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
		Return(approvers, nil)
	mockUserRepo.On("ListActive", ctx, mock.Anything).Return(activeUsers, nil)

	var inserted []model.Notification
	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(2).([]model.Notification) }).Return(nil)

	fanout.DocumentStatusChanged(ctx, doc, ports.Actor{ID: "a1", Name: "Sari"}, model.StatusApproved, "")

	// u1 hasil + a1 konfirmasi diri + m1 info + terbit untuk u1, m1, v1 (bukan a1)
	assert.Len(t, inserted, 6)

	messages := make([]string, 0, len(inserted))
	for _, n := range inserted {
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, `Dokumen Anda "laporan qaqc" telah DISETUJUI.`)
	assert.Contains(t, messages, `Anda berhasil menyetujui dokumen "laporan qaqc"`)
	assert.Contains(t, messages, `Dokumen "laporan qaqc" disetujui oleh Sari`)
	assert.Contains(t, messages, `Dokumen baru terbit: "laporan qaqc"`)

	for _, n := range inserted {
		if n.Type == model.NotifNewRelease {
			assert.NotEqual(t, "a1", n.UserID)
		}
	}
}

// Reject hanya memberi tahu uploader dan admin/manager, tanpa siaran terbit.
func TestDocumentStatusChanged_RejectNoBroadcast(t *testing.T) {
	fanout, mockNotifRepo, mockUserRepo := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	doc := &model.Document{ID: "doc1", Title: "laporan", UploadedBy: "u1"}
	approvers := []*model.User{{ID: "a1", Role: model.RoleAdmin}}

	mockUserRepo.On("ListByRoles", ctx, mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
		Return(approvers, nil)

	var inserted []model.Notification
	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(2).([]model.Notification) }).Return(nil)

	fanout.DocumentStatusChanged(ctx, doc, ports.Actor{ID: "a1", Name: "Sari"}, model.StatusRejected, "format salah")

	assert.Len(t, inserted, 2)
	byUser := messagesByUser(inserted)
	assert.Equal(t, `Dokumen Anda "laporan" telah DITOLAK. Alasan: format salah`, byUser["u1"])
	assert.Equal(t, `Anda berhasil menolak dokumen "laporan"`, byUser["a1"])
	mockUserRepo.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
}

func TestDocumentDeleted_RecipientsAndPhrasing(t *testing.T) {
	fanout, mockNotifRepo, mockUserRepo := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	doc := &model.Document{ID: "doc1", Title: "laporan", UploadedBy: "u1"}
	staff := []*model.User{
		{ID: "a1", Role: model.RoleAdmin},
		{ID: "m1", Role: model.RoleManager},
	}
	mockUserRepo.On("ListByRoles", ctx, mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
		Return(staff, nil)

	var inserted []model.Notification
	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(2).([]model.Notification) }).Return(nil)

	fanout.DocumentDeleted(ctx, doc, ports.Actor{ID: "a1", Name: "Sari"})

	assert.Len(t, inserted, 3)
	byUser := messagesByUser(inserted)
	assert.Equal(t, `Anda berhasil menghapus dokumen "laporan"`, byUser["a1"])
	assert.Equal(t, `Dokumen "laporan" dihapus oleh Sari`, byUser["u1"])
	assert.Equal(t, `Dokumen "laporan" dihapus oleh Sari`, byUser["m1"])
}

func TestRegistrationRequested_NotifiesAdminsAndRegistrant(t *testing.T) {
	fanout, mockNotifRepo, mockUserRepo := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	registrant := &model.User{ID: "u1", Name: "Budi", Email: "budi@gmail.com"}
	admins := []*model.User{{ID: "a1", Role: model.RoleAdmin}}

	mockUserRepo.On("ListByRoles", ctx, mock.Anything, []model.Role{model.RoleAdmin}).Return(admins, nil)

	var inserted []model.Notification
	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(2).([]model.Notification) }).Return(nil)

	fanout.RegistrationRequested(ctx, registrant)

	assert.Len(t, inserted, 2)
	byUser := messagesByUser(inserted)
	assert.Equal(t, "Registrasi baru menunggu persetujuan: Budi (budi@gmail.com)", byUser["a1"])
	assert.Equal(t, "Registrasi Anda sedang menunggu persetujuan admin.", byUser["u1"])
}

// Penolakan registrasi meninggalkan tepat satu jejak audit di notifikasi aktor.
func TestRegistrationDecided_RejectAuditTrail(t *testing.T) {
	fanout, mockNotifRepo, _ := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.MatchedBy(func(ns []model.Notification) bool {
		return len(ns) == 1 && ns[0].UserID == "admin1" &&
			ns[0].Message == "Menolak registrasi: budi@gmail.com"
	})).Return(nil)

	fanout.RegistrationDecided(ctx, "admin1", "budi@gmail.com", false)

	mockNotifRepo.AssertExpectations(t)
}

func TestRegistrationDecided_Approve(t *testing.T) {
	fanout, mockNotifRepo, _ := newTestFanout()
	ctx := context.WithValue(context.Background(), "db", &config.Database{})

	mockNotifRepo.On("InsertMany", ctx, mock.Anything, mock.MatchedBy(func(ns []model.Notification) bool {
		return len(ns) == 1 && ns[0].Message == "Menyetujui registrasi: budi@gmail.com"
	})).Return(nil)

	fanout.RegistrationDecided(ctx, "admin1", "budi@gmail.com", true)

	mockNotifRepo.AssertExpectations(t)
}
