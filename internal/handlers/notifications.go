package handlers

import (
	"net/http"
	"strconv"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/services"
)

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List: GET /api/notifications?limit=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, unread, err := h.notifications.List(r.Context(), userID, limit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_notifications", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":  notifications,
		"unread": unread,
	})
}

type markReadReq struct {
	IDs []uint `json:"ids"`
}

// MarkRead: PATCH /api/notifications/read
// IDs belonging to someone else are silently skipped.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req markReadReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	updated, err := h.notifications.MarkRead(r.Context(), userID, req.IDs)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_notifications", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated": updated})
}
