package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workstream-api/internal/dto"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/middleware"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/utils"
)

// NotificationHandler serves assignment notifications
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

// ListNotifications returns a page of the caller's notifications, newest first.
// Managers may pass employeeId to read someone else's, or omit it to read all.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	unreadOnly := false
	if raw := c.Query("unreadOnly"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.InvalidFormat(c, "unreadOnly must be a boolean")
			return
		}
		unreadOnly = parsed
	}

	params := utils.GetPaginationParams(c)
	page, err := h.notifications.List(viewer, c.Query("employeeId"), unreadOnly, params)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationListResponse(page, params))
}

// GetNotification returns a single notification
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	notification, err := h.notifications.Get(viewer, c.Param("id"))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkRead flags one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	notification, err := h.notifications.MarkRead(viewer, c.Param("id"))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllRead flags every unread notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	marked, err := h.notifications.MarkAllRead(viewer, c.Query("employeeId"))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReadAllResponse{
		Message:     fmt.Sprintf("Marked %d notification(s) as read", marked),
		MarkedCount: marked,
	})
}

// DeleteNotification removes a notification
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.notifications.Delete(viewer, c.Param("id")); err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
