package handler

import (
	"net/http"

	"buku-saku-server/internal/model/requestresponse"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/security"
	"buku-saku-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// List godoc
// @Summary Notifikasi milik user, terbaru dulu
// @Tags Notifications
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NotificationsResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notifications, err := h.NotificationService.List(r.Context(), claims.UserID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.NotificationsResponse{Notifications: notifications})
}

// MarkRead godoc
// @Summary Tandai satu notifikasi terbaca
// @Tags Notifications
// @Produce json
// @Param id path string true "ID notifikasi"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OkResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.NotificationService.MarkRead(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.OkResponse{Ok: true})
}

// MarkAllRead godoc
// @Summary Tandai semua notifikasi terbaca
// @Tags Notifications
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OkResponse
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.NotificationService.MarkAllRead(r.Context(), claims.UserID); err != nil {
		util.HandleAppError(w, err)
		return
	}
	util.RespondJSON(w, http.StatusOK, requestresponse.OkResponse{Ok: true})
}
