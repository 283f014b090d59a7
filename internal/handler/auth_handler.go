package handler

import (
	"encoding/json"
	"net/http"

	"buku-saku-server/internal/model"
	"buku-saku-server/internal/model/requestresponse"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/security"
	"buku-saku-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	ports.UserService
	ports.NotificationService
}

func NewAuthHandler(userService ports.UserService, notificationService ports.NotificationService) *AuthHandler {
	return &AuthHandler{userService, notificationService}
}

// Register godoc
// @Summary Registrasi akun baru
// @Description Membuat akun pending (role viewer). Akun aktif setelah disetujui admin; token tidak diberikan.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requestresponse.RegisterRequest true "Data registrasi"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Input tidak valid"
// @Failure 409 {object} requestresponse.ErrorResponse "Email sudah terdaftar"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	message, err := h.UserService.Register(r.Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Position: req.Position,
		Instansi: req.Instansi,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: message})
}

// LoginUser godoc
// @Summary Login user non-admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requestresponse.LoginUserRequest true "Kredensial"
// @Success 200 {object} requestresponse.LoginResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Kredensial salah"
// @Failure 403 {object} requestresponse.ErrorResponse "Akun belum diaktifkan"
// @Router /auth/login/user [post]
func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	token, user, err := h.UserService.LoginUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.LoginResponse{
		Token: token,
		User: requestresponse.UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role.String(),
		},
	})
}

// LoginAdmin godoc
// @Summary Login admin dengan passkey
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requestresponse.LoginAdminRequest true "Kredensial admin"
// @Success 200 {object} requestresponse.LoginResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Kredensial atau passkey salah"
// @Router /auth/login/admin [post]
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	token, admin, err := h.UserService.LoginAdmin(r.Context(), req.Name, req.Email, req.Passkey, req.Password)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.LoginResponse{
		Token: token,
		User: requestresponse.UserInfo{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
			Role:  admin.Role.String(),
		},
	})
}

// UpsertUser godoc
// @Summary Buat / update / approve user (admin)
// @Description Email yang sudah ada di-update (user pending sekaligus diaktifkan); email baru dibuat langsung aktif.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requestresponse.UpsertUserRequest true "Data user"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /auth/admin/users [post]
func (h *AuthHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req requestresponse.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		util.HandleError(w, "Role tidak dikenal", http.StatusBadRequest)
		return
	}

	message, err := h.UserService.UpsertUser(r.Context(), claims.UserID, ports.UpsertUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Position: req.Position,
		Instansi: req.Instansi,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: message})
}

// ListUsers godoc
// @Summary Daftar seluruh user (admin)
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListUsersResponse
// @Router /auth/admin/users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.ListUsersResponse{Users: users})
}

// RejectRegistration godoc
// @Summary Tolak registrasi pending (admin)
// @Description Catatan user pending dihapus; jejak penolakan disimpan sebagai notifikasi audit milik admin.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requestresponse.EmailRequest true "Email pendaftar"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "User tidak ditemukan"
// @Router /auth/admin/users/reject [post]
func (h *AuthHandler) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req requestresponse.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	if err := h.UserService.RejectRegistration(r.Context(), claims.UserID, req.Email); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "Registrasi user ditolak dan data pending dihapus.",
	})
}

// DeleteUser godoc
// @Summary Hapus user (admin)
// @Description Dokumen dan riwayat milik user dipindahkan ke admin penghapus, notifikasinya dihapus.
// @Tags Auth
// @Produce json
// @Param id path string true "ID user"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /auth/admin/users/{id} [delete]
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := chi.URLParam(r, "id")
	if err := h.UserService.DeleteUser(r.Context(), claims.UserID, targetID); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "User dan data terkait berhasil dibersihkan/dipindahkan.",
	})
}

// ResetPassword godoc
// @Summary Reset password user (admin)
// @Description Password acak baru dikirim via email, tidak pernah dikembalikan di respons.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requestresponse.EmailRequest true "Email user"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /auth/admin/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	message, err := h.UserService.ResetPassword(r.Context(), req.Email)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: message})
}

// Summary godoc
// @Summary Ringkasan admin 30 hari terakhir
// @Description Pending, user aktif baru, dan log penolakan registrasi; pending H-7 memicu pengingat.
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SummaryResponse
// @Router /auth/admin/summary [get]
func (h *AuthHandler) Summary(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.UserService.Summary(r.Context(), claims.UserID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, summary)
}

// CleanupTestLogs godoc
// @Summary Bersihkan notifikasi uji coba (admin)
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CleanupResponse
// @Router /auth/admin/cleanup-test-logs [delete]
func (h *AuthHandler) CleanupTestLogs(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.NotificationService.CleanupTestLogs(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.CleanupResponse{Deleted: deleted})
}
