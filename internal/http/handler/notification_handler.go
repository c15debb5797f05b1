package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/service"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// @Summary List notifications
// @Description List the current user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param unreadOnly query bool false "Only unread notifications"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"

	result, err := h.notificationService.GetForCurrentUser(r.Context(), page, pageSize, unreadOnly)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Unread notification count
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	dto, err := h.notificationService.GetUnreadCount(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Mark notification as read
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary Mark all notifications as read
// @Tags Notifications
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllAsRead(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
