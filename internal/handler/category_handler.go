package handler

import (
	"encoding/json"
	"net/http"

	"buku-saku-server/internal/model/requestresponse"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/security"
	"buku-saku-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	ports.CategoryService
}

func NewCategoryHandler(categoryService ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService}
}

// List godoc
// @Summary Daftar kategori
// @Tags Categories
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {array} model.Category
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.List(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, categories)
}

// Create godoc
// @Summary Buat kategori baru
// @Description Nama unik tanpa memandang kapitalisasi.
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body requestresponse.CategoryRequest true "Nama kategori"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} model.Category
// @Failure 409 {object} requestresponse.ErrorResponse "Kategori sudah ada"
// @Router /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req requestresponse.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "format permintaan tidak valid", http.StatusBadRequest)
		return
	}

	category, err := h.CategoryService.Create(r.Context(), claims.UserID, req.Name)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusCreated, category)
}

// Delete godoc
// @Summary Hapus kategori berdasarkan nama
// @Tags Categories
// @Produce json
// @Param name path string true "Nama kategori"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Kategori tidak ditemukan"
// @Failure 409 {object} requestresponse.ErrorResponse "Kategori masih dipakai dokumen"
// @Router /categories/{name} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CategoryService.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "Kategori berhasil dihapus"})
}
