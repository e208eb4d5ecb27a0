package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/repository"
	"github.com/yukikurage/workstream-api/internal/utils"
	"github.com/yukikurage/workstream-api/internal/views"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService serves the notifications written by auto-assignment. Employees
// reach only their own; managers reach everyone's.
type NotificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
		now:  time.Now,
	}
}

// NotificationPage is one page of notifications with the recipient's totals.
type NotificationPage struct {
	Notifications []models.Notification
	// Matched counts the notifications the filter selects across all pages.
	Matched int64
	Stats   repository.NotificationStats
}

// recipient resolves whose notifications viewer may act on. Managers may name anyone
// or nobody; employees are pinned to themselves.
func recipient(viewer views.Viewer, employeeID string) (string, error) {
	if viewer.Manager {
		return employeeID, nil
	}
	if viewer.ID == "" || (employeeID != "" && employeeID != viewer.ID) {
		return "", fmt.Errorf("%w: notifications of %q", ErrAccessDenied, employeeID)
	}
	return viewer.ID, nil
}

// List returns a page of notifications, newest first.
func (s *NotificationService) List(viewer views.Viewer, employeeID string, unreadOnly bool, params utils.PaginationParams) (NotificationPage, error) {
	owner, err := recipient(viewer, employeeID)
	if err != nil {
		return NotificationPage{}, err
	}

	filter := repository.NotificationFilter{EmployeeID: owner, UnreadOnly: unreadOnly}
	notifications, matched, err := s.repo.List(filter, params)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	stats, err := s.repo.Stats(owner)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	return NotificationPage{Notifications: notifications, Matched: matched, Stats: stats}, nil
}

// Get returns one notification. Notifications addressed to someone else are reported
// as missing.
func (s *NotificationService) Get(viewer views.Viewer, id string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotificationNotFound, id)
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	if !viewer.Manager && notification.EmployeeID != viewer.ID {
		return nil, fmt.Errorf("%w: %q", ErrNotificationNotFound, id)
	}
	return notification, nil
}

// MarkRead flags one notification as read and returns it.
func (s *NotificationService) MarkRead(viewer views.Viewer, id string) (*models.Notification, error) {
	if _, err := s.Get(viewer, id); err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(id, s.now()); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return s.Get(viewer, id)
}

// MarkAllRead flags every unread notification in scope and returns how many changed.
func (s *NotificationService) MarkAllRead(viewer views.Viewer, employeeID string) (int64, error) {
	owner, err := recipient(viewer, employeeID)
	if err != nil {
		return 0, err
	}
	marked, err := s.repo.MarkAllRead(owner, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return marked, nil
}

// Delete removes one notification.
func (s *NotificationService) Delete(viewer views.Viewer, id string) error {
	if _, err := s.Get(viewer, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrNotificationNotFound, id)
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
