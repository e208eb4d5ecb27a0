package repository

import (
	"time"

	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/utils"
)

// WorkstreamRepository defines the interface for workstream data access
type WorkstreamRepository interface {
	// ListProjects returns every project in creation order
	ListProjects() ([]models.Project, error)

	// ListTasks returns every task in creation order
	ListTasks() ([]models.Task, error)

	// Apply writes a changeset in a single transaction
	Apply(cs Changeset) error

	// ListAssignments returns assignment log entries, newest first
	ListAssignments(params utils.PaginationParams) ([]models.TaskAssignment, int64, error)

	// ListAssignmentsFor returns up to limit log entries for one person, newest first
	ListAssignmentsFor(personID string, limit int) ([]models.TaskAssignment, error)
}

// Changeset is the persistent effect of one service operation.
type Changeset struct {
	// Projects and Tasks are upserted by primary key.
	Projects []models.Project
	Tasks    []models.Task
	// DeletedTaskIDs are removed after the upserts.
	DeletedTaskIDs []string
	// Assignments are appended to the assignment log.
	Assignments []models.TaskAssignment
	// Notifications are delivered alongside the assignments that caused them.
	Notifications []models.Notification
}

// Empty reports whether the changeset writes nothing.
func (cs Changeset) Empty() bool {
	return len(cs.Projects) == 0 && len(cs.Tasks) == 0 && len(cs.DeletedTaskIDs) == 0 &&
		len(cs.Assignments) == 0 && len(cs.Notifications) == 0
}

// NotificationFilter narrows a notification query. An empty EmployeeID matches every
// recipient.
type NotificationFilter struct {
	EmployeeID string
	UnreadOnly bool
}

// NotificationStats counts one recipient's notifications, or everyone's.
type NotificationStats struct {
	Total  int64
	Unread int64
}

// Read returns the number of read notifications.
func (s NotificationStats) Read() int64 {
	return s.Total - s.Unread
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// List returns notifications matching filter, newest first, with the match count
	List(filter NotificationFilter, params utils.PaginationParams) ([]models.Notification, int64, error)

	// Stats counts the notifications of employeeID, or of everyone when it is empty
	Stats(employeeID string) (NotificationStats, error)

	// FindByID returns gorm.ErrRecordNotFound when no notification has the id
	FindByID(id string) (*models.Notification, error)

	// MarkRead flags one notification as read
	MarkRead(id string, at time.Time) error

	// MarkAllRead flags every unread notification of employeeID, or of everyone when it
	// is empty, and returns how many changed
	MarkAllRead(employeeID string, at time.Time) (int64, error)

	// Delete removes a notification
	Delete(id string) error
}
