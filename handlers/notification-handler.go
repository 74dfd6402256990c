package handlers

import (
	"net/http"

	"github.com/Dipxssi/synergysphere/services"
	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]interface{}{"notifications": notifications},
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Notification marked as read",
	})
}
