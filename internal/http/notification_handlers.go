package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

// NotificationsHandler serves the per-user notification feed.
type NotificationsHandler struct {
	notifications service.NotificationService
	logger        *zap.Logger
}

func NewNotificationsHandler(notifications service.NotificationService, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, logger: logger}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	q := r.URL.Query()
	unreadOnly := q.Get("unread") == "true"
	limit := parseInt(q.Get("limit"), 50)
	items, err := h.notifications.List(r.Context(), principal.UserID, unreadOnly, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request, notificationID string) {
	principal, _ := PrincipalFrom(r.Context())
	if err := h.notifications.MarkRead(r.Context(), principal.UserID, notificationID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"read": true}))
}

func (h *NotificationsHandler) Delete(w http.ResponseWriter, r *http.Request, notificationID string) {
	principal, _ := PrincipalFrom(r.Context())
	if err := h.notifications.Delete(r.Context(), principal.UserID, notificationID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"deleted": true}))
}
