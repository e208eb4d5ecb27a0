package dto

import (
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/utils"
)

// NotificationStats counts a recipient's notifications
type NotificationStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Read   int64 `json:"read"`
}

// NotificationListResponse represents a page of notifications
type NotificationListResponse struct {
	Notifications []models.Notification    `json:"notifications"`
	Stats         NotificationStats        `json:"stats"`
	Pagination    utils.PaginationResponse `json:"pagination"`
}

// ReadAllResponse reports a bulk mark-as-read
type ReadAllResponse struct {
	Message     string `json:"message"`
	MarkedCount int64  `json:"markedCount"`
}

// ToNotificationListResponse converts a notification page
func ToNotificationListResponse(page services.NotificationPage, params utils.PaginationParams) NotificationListResponse {
	notifications := page.Notifications
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return NotificationListResponse{
		Notifications: notifications,
		Stats: NotificationStats{
			Total:  page.Stats.Total,
			Unread: page.Stats.Unread,
			Read:   page.Stats.Read(),
		},
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: page.Matched,
		},
	}
}
