package repository

import (
	"time"

	"github.com/yukikurage/workstream-api/internal/database"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/utils"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) scoped(employeeID string) *gorm.DB {
	query := r.db.Model(&models.Notification{})
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	return query
}

// List returns notifications matching filter, newest first, with the match count
func (r *GormNotificationRepository) List(filter NotificationFilter, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := r.scoped(filter.EmployeeID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.
		Scopes(database.NewestFirst("created_at"), database.Paginate(params)).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// Stats counts the notifications of employeeID, or of everyone when it is empty
func (r *GormNotificationRepository) Stats(employeeID string) (NotificationStats, error) {
	var stats NotificationStats
	if err := r.scoped(employeeID).Count(&stats.Total).Error; err != nil {
		return NotificationStats{}, err
	}
	if err := r.scoped(employeeID).Where("is_read = ?", false).Count(&stats.Unread).Error; err != nil {
		return NotificationStats{}, err
	}
	return stats, nil
}

// FindByID returns gorm.ErrRecordNotFound when no notification has the id
func (r *GormNotificationRepository) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead flags one notification as read. Marking it again keeps the first read time.
func (r *GormNotificationRepository) MarkRead(id string, at time.Time) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either already read or missing.
		if _, err := r.FindByID(id); err != nil {
			return err
		}
	}
	return nil
}

// MarkAllRead flags every unread notification of employeeID, or of everyone when it is
// empty, and returns how many changed
func (r *GormNotificationRepository) MarkAllRead(employeeID string, at time.Time) (int64, error) {
	result := r.scoped(employeeID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

// Delete removes a notification
func (r *GormNotificationRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
