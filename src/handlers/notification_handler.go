package handlers

import (
	"net/http"

	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/store"
)

type NotificationHandler struct {
	notifications store.NotificationStore
}

func NewNotificationHandler(notifications store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	notifications, err := h.notifications.GetNotificationsByUser(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list notifications", "error", err)
		sendJSONError(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	sendJSON(w, notifications, http.StatusOK)
}

func (h *NotificationHandler) ListUnreadNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	notifications, err := h.notifications.GetUnreadNotifications(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list unread notifications", "error", err)
		sendJSONError(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	sendJSON(w, notifications, http.StatusOK)
}

func (h *NotificationHandler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), id, userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to mark notification read", "notificationID", id, "error", err)
		sendJSONError(w, "Failed to mark notification read", http.StatusInternalServerError)
		return
	}
	sendJSON(w, map[string]string{"status": "read"}, http.StatusOK)
}

func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		sendJSONError(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.notifications.DeleteNotification(r.Context(), id, userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete notification", "notificationID", id, "error", err)
		sendJSONError(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) ClearNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())

	if err := h.notifications.DeleteAllForUser(r.Context(), userID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to clear notifications", "error", err)
		sendJSONError(w, "Failed to clear notifications", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
