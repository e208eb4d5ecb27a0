package models

import "time"

const AssignmentSourceImport = "EXCEL_IMPORT"

// TaskAssignment is a log entry written when the balancer hands an imported task to
// someone. Entries outlive the task they describe.
type TaskAssignment struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	TaskID       string     `gorm:"type:varchar(64);not null;index" json:"taskId"`
	TaskName     string     `gorm:"type:varchar(255)" json:"taskName"`
	ProjectName  string     `gorm:"type:varchar(255)" json:"projectName"`
	AssignedTo   string     `gorm:"type:varchar(255);not null" json:"assignedTo"`
	AssignedToID string     `gorm:"type:varchar(64)" json:"assignedToId"`
	AssignedBy   string     `gorm:"type:varchar(255)" json:"assignedBy"`
	Priority     string     `gorm:"type:varchar(20)" json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	Source       string     `gorm:"type:varchar(30)" json:"source"`
	AssignedAt   time.Time  `gorm:"index" json:"assignedAt"`
}
