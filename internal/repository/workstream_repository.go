package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/workstream-api/internal/database"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSaveProjects is returned when upserting projects fails inside a changeset.
	ErrSaveProjects = errors.New("workstream repository: save projects failed")
	// ErrSaveTasks is returned when upserting tasks fails inside a changeset.
	ErrSaveTasks = errors.New("workstream repository: save tasks failed")
	// ErrDeleteTasks is returned when removing tasks fails inside a changeset.
	ErrDeleteTasks = errors.New("workstream repository: delete tasks failed")
	// ErrCreateAssignments is returned when appending to the assignment log fails.
	ErrCreateAssignments = errors.New("workstream repository: create assignments failed")
	// ErrCreateNotifications is returned when delivering notifications fails.
	ErrCreateNotifications = errors.New("workstream repository: create notifications failed")
)

// GormWorkstreamRepository is a GORM implementation of WorkstreamRepository
type GormWorkstreamRepository struct {
	db *gorm.DB
}

// NewWorkstreamRepository creates a new WorkstreamRepository
func NewWorkstreamRepository(db *gorm.DB) WorkstreamRepository {
	return &GormWorkstreamRepository{db: db}
}

// ListProjects returns every project in creation order
func (r *GormWorkstreamRepository) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("created_at ASC").Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListTasks returns every task in creation order
func (r *GormWorkstreamRepository) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Order("created_at ASC").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Apply writes a changeset in a single transaction
func (r *GormWorkstreamRepository) Apply(cs Changeset) error {
	if cs.Empty() {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(cs.Projects) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cs.Projects).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveProjects, err)
			}
		}

		if len(cs.Tasks) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cs.Tasks).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrSaveTasks, err)
			}
		}

		if len(cs.DeletedTaskIDs) > 0 {
			if err := tx.Where("id IN ?", cs.DeletedTaskIDs).Delete(&models.Task{}).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrDeleteTasks, err)
			}
		}

		if len(cs.Assignments) > 0 {
			if err := tx.Create(&cs.Assignments).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateAssignments, err)
			}
		}

		if len(cs.Notifications) > 0 {
			if err := tx.Create(&cs.Notifications).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateNotifications, err)
			}
		}

		return nil
	})
}

// ListAssignments returns assignment log entries, newest first
func (r *GormWorkstreamRepository) ListAssignments(params utils.PaginationParams) ([]models.TaskAssignment, int64, error) {
	var total int64
	if err := r.db.Model(&models.TaskAssignment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []models.TaskAssignment
	err := r.db.
		Scopes(database.NewestFirst("assigned_at"), database.Paginate(params)).
		Find(&assignments).Error
	if err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

// ListAssignmentsFor returns up to limit log entries for one person, newest first
func (r *GormWorkstreamRepository) ListAssignmentsFor(personID string, limit int) ([]models.TaskAssignment, error) {
	var assignments []models.TaskAssignment
	err := r.db.
		Where("assigned_to_id = ?", personID).
		Scopes(database.NewestFirst("assigned_at")).
		Limit(limit).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
