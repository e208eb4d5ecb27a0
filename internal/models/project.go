package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive           ProjectStatus = "Active"
	ProjectStatusPending          ProjectStatus = "Pending"
	ProjectStatusReview           ProjectStatus = "Review"
	ProjectStatusDelayed          ProjectStatus = "Delayed"
	ProjectStatusUnderMaintenance ProjectStatus = "Under Maintenance"
	ProjectStatusCompleted        ProjectStatus = "Completed"
)

// ProjectStatuses lists every status a project may carry.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusActive,
	ProjectStatusPending,
	ProjectStatusReview,
	ProjectStatusDelayed,
	ProjectStatusUnderMaintenance,
	ProjectStatusCompleted,
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project (an "ecosystem" in the dashboard) groups tasks by name. NameKey holds the
// normalized name and carries the uniqueness constraint.
type Project struct {
	ID        string        `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	NameKey   string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Status    ProjectStatus `gorm:"type:varchar(30);not null;default:'Active'" json:"status" validate:"required,projectstatus"`
	Health    int           `gorm:"not null" json:"health" validate:"gte=0,lte=100"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// IsCompleted reports whether the project is locked.
func (p Project) IsCompleted() bool {
	return p.Status == ProjectStatusCompleted
}
