package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"buku-saku-server/internal/model"
	"buku-saku-server/internal/model/requestresponse"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/security"
	"buku-saku-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type DocumentHandler struct {
	ports.DocumentService
	ports.SearchService
	ports.FavoriteService
	maxFileSize int64
}

func NewDocumentHandler(
	documentService ports.DocumentService,
	searchService ports.SearchService,
	favoriteService ports.FavoriteService,
	maxFileSize int64,
) *DocumentHandler {
	return &DocumentHandler{documentService, searchService, favoriteService, maxFileSize}
}

// Upload godoc
// @Summary Upload dokumen baru
// @Description Menerima multipart file + tags + categories. Dokumen masuk berstatus pending sampai disetujui admin/manager.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File dokumen (PDF/DOCX, maks 10 MB)"
// @Param tags formData string false "Tag dipisah koma"
// @Param categories formData string false "Kategori dalam array JSON"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UploadResponse
// @Failure 400 {object} requestresponse.ErrorResponse "File tidak ada atau terlalu besar"
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		util.HandleError(w, "Ukuran file melebihi batas", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "File diperlukan", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "Gagal membaca file", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	tags := splitTags(r.FormValue("tags"))
	categories := parseCategories(r.FormValue("categories"))

	document, err := h.DocumentService.Upload(r.Context(), ports.UploadInput{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
		Tags:        tags,
		Categories:  categories,
		UploaderID:  claims.UserID,
		UploaderNm:  claims.Name,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	util.RespondJSON(w, http.StatusOK, requestresponse.UploadResponse{
		Document: document,
		Message:  "Upload Berhasil (Menunggu Persetujuan)",
	})
}

// SetStatus godoc
// @Summary Approve / reject dokumen
// @Description Status hanya approved atau rejected; rejection_note wajib saat menolak.
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "ID dokumen"
// @Param request body requestresponse.SetStatusRequest true "Status baru"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Dokumen tidak ditemukan"
// @Router /documents/{id}/status [put]
func (h *DocumentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req requestresponse.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	documentID := chi.URLParam(r, "id")
	status := model.DocumentStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	if err := h.DocumentService.SetStatus(r.Context(), documentID, claims.UserID, claims.Name, status, req.RejectionNote); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Message: "Dokumen berhasil di-" + string(status),
	})
}

// Search godoc
// @Summary Pencarian hybrid dokumen
// @Description Vektor semantik lebih dulu, fallback keyword saat hasil kurang; hasil disaring sesuai role.
// @Tags Documents
// @Produce json
// @Param q query string true "Kata kunci"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SearchResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Kata kunci kosong"
// @Router /documents/search [get]
func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	results, err := h.SearchService.Search(r.Context(), r.URL.Query().Get("q"), claims.Role, claims.UserID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.SearchResponse{Results: results})
}

// ListApproved godoc
// @Summary Dokumen approved terbaru
// @Tags Documents
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SearchResponse
// @Router /documents/approved [get]
func (h *DocumentHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	results, err := h.SearchService.ListApproved(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.SearchResponse{Results: results})
}

// SoftDelete godoc
// @Summary Hapus dokumen (soft delete)
// @Description Dokumen yang sudah terhapus menghasilkan 404, bukan no-op.
// @Tags Documents
// @Produce json
// @Param id path string true "ID dokumen"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	documentID := chi.URLParam(r, "id")
	if err := h.DocumentService.SoftDelete(r.Context(), documentID, claims.UserID, claims.Name); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "Dokumen berhasil dihapus"})
}

// History godoc
// @Summary Riwayat seluruh dokumen
// @Description Termasuk dokumen terhapus; nama pelaku di-resolve batch.
// @Tags Documents
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.HistoryResponse
// @Router /documents/history [get]
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.DocumentService.History(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.HistoryResponse{History: history})
}

// List godoc
// @Summary Daftar dokumen aktif sesuai role
// @Tags Documents
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListDocumentsResponse
// @Router /documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	documents, err := h.DocumentService.ListVisible(r.Context(), claims.Role, claims.UserID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.ListDocumentsResponse{Documents: documents})
}

// AddFavorite godoc
// @Summary Tandai dokumen sebagai favorit
// @Tags Favorites
// @Produce json
// @Param id path string true "ID dokumen"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OkResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /documents/{id}/favorite [post]
func (h *DocumentHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.FavoriteService.Add(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.OkResponse{Ok: true})
}

// GetFavorite godoc
// @Summary Cek apakah dokumen ada di favorit user
// @Tags Favorites
// @Produce json
// @Param id path string true "ID dokumen"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FavoriteStatusResponse
// @Router /documents/{id}/favorite [get]
func (h *DocumentHandler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	favorite, err := h.FavoriteService.IsFavorite(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.FavoriteStatusResponse{Favorite: favorite})
}

// RemoveFavorite godoc
// @Summary Hapus dokumen dari favorit
// @Tags Favorites
// @Produce json
// @Param id path string true "ID dokumen"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OkResponse
// @Router /documents/{id}/favorite [delete]
func (h *DocumentHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.FavoriteService.Remove(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.OkResponse{Ok: true})
}

// ListFavorites godoc
// @Summary Daftar favorit user beserta detail dokumen
// @Tags Favorites
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FavoritesResponse
// @Router /documents/favorites [get]
func (h *DocumentHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.FavoriteService.List(r.Context(), claims.UserID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.FavoritesResponse{Favorites: items})
}

// ListFavoriteIDs godoc
// @Summary ID dokumen favorit user
// @Tags Favorites
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.FavoriteIDsResponse
// @Router /documents/favorites/ids [get]
func (h *DocumentHandler) ListFavoriteIDs(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ids, err := h.FavoriteService.ListIDs(r.Context(), claims.UserID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.FavoriteIDsResponse{IDs: ids})
}

// splitTags : "a, b ,c" menjadi ["a","b","c"], entri kosong dibuang
func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseCategories : menerima array JSON atau satu nama kategori polos
func parseCategories(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return []string{raw}
	}
	return categories
}
