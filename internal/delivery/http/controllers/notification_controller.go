package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// MarkReadRequest is the request body for POST /notifications/mark-read.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// Validate implements Validator.
func (m MarkReadRequest) Validate() []string {
	if len(m.IDs) == 0 {
		return []string{"ids is required"}
	}
	return nil
}

// BroadcastMessageRequest is the request body for POST /events/{eventID}/broadcast.
type BroadcastMessageRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Validate implements Validator.
func (b BroadcastMessageRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(b.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(b.Message) == "" {
		errs = append(errs, "message is required")
	}
	return errs
}

// ListNotificationsResponse is the data payload for GET /notifications (200).
type ListNotificationsResponse struct {
	Items      []*domain.Notification `json:"items"`
	Pagination h.PaginationMeta       `json:"pagination"`
}

// MarkReadResponse is the data payload for the mark-read endpoints (200).
type MarkReadResponse struct {
	Updated int `json:"updated"`
}

// UnreadCountResponse is the data payload for GET /notifications/unread-count (200).
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// BroadcastMessageResponse is the data payload for POST /events/{eventID}/broadcast (200).
type BroadcastMessageResponse struct {
	Notified int `json:"notified"`
}

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// ListNotifications godoc
// @Summary List the caller's notifications
// @Description Returns a paginated list of the authenticated user's notifications, newest first. Use page and page_size query params.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), userID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	meta := h.NewPaginationMeta(params.Page, params.PageSize, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListNotificationsResponse{Items: items, Pagination: meta})
}

// MarkRead godoc
// @Summary Mark notifications as read
// @Description Marks the given notification IDs as read. IDs belonging to other users are ignored. Returns the number updated.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MarkReadRequest true "Notification IDs"
// @Success 200 {object} helpers.APIResponse "data contains updated count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/mark-read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req MarkReadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.MarkRead(r.Context(), userID, req.IDs)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MarkReadResponse{Updated: updated})
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Description Marks every unread notification of the authenticated user as read. Returns the number updated.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains updated count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/mark-all-read [post]
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	updated, err := c.Service.MarkAllRead(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MarkReadResponse{Updated: updated})
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Description Returns the number of unread notifications for the authenticated user.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	count, err := c.Service.UnreadCount(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UnreadCountResponse{Count: count})
}

// BroadcastMessage godoc
// @Summary Broadcast a message to an event's guests
// @Description Sends a notification (and a best-effort email) from the host to every approved YES guest. Only the host can broadcast. Returns the number of guests notified.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body BroadcastMessageRequest true "Message title and body"
// @Success 200 {object} helpers.APIResponse "data contains notified count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/broadcast [post]
func (c *NotificationController) BroadcastMessage(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req BroadcastMessageRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	notified, err := c.Service.BroadcastHostMessage(r.Context(), eventID, hostID, req.Title, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, BroadcastMessageResponse{Notified: notified})
}
