package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

// NotificationHandler serves the in-app notification feed.
type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notifications, total, err := h.notifications.GetNotifications(r.Context(), userIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid notification id")
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), userIDFromContext(r.Context()), notificationID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"read": true})
}
