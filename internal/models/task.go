package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusDelayed    TaskStatus = "Delayed"
)

// TaskStatuses lists every completion status a task may carry.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusDelayed,
}

// Valid reports whether s is a known completion status.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

const DefaultTaskPriority = "Medium"

// Task is a single workstream record. EmployeeName and ProjectName are free-text
// match keys, not foreign keys.
type Task struct {
	ID               string     `gorm:"primarykey;type:varchar(64)" json:"id"`
	EmployeeID       string     `gorm:"type:varchar(64)" json:"employeeId"`
	EmployeeName     string     `gorm:"type:varchar(255);not null;index" json:"employeeName" validate:"required"`
	Role             string     `gorm:"type:varchar(100)" json:"role"`
	Date             time.Time  `json:"date"`
	ProjectName      string     `gorm:"type:varchar(255);not null;index" json:"projectName" validate:"required"`
	TaskAssigned     string     `gorm:"type:varchar(255)" json:"taskAssigned"`
	TaskDescription  string     `gorm:"type:text" json:"taskDescription"`
	AssignedBy       string     `gorm:"type:varchar(255)" json:"assignedBy"`
	ScheduledStart   string     `gorm:"type:varchar(20)" json:"scheduledStart"`
	ScheduledEnd     string     `gorm:"type:varchar(20)" json:"scheduledEnd"`
	CompletionDue    *time.Time `json:"completionDue"`
	CompletionStatus TaskStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"completionStatus" validate:"required,taskstatus"`
	Priority         string     `gorm:"type:varchar(20)" json:"priority"`
	Remarks          string     `gorm:"type:text" json:"remarks"`
	RepoURL          string     `gorm:"type:varchar(500)" json:"repoUrl"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsCompleted reports whether the task itself is finished.
func (t Task) IsCompleted() bool {
	return t.CompletionStatus == TaskStatusCompleted
}
