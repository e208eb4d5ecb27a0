package models

import "time"

// Notification tells an employee that work was handed to them. EmployeeID is the
// directory account id of the recipient.
type Notification struct {
	ID           string     `gorm:"primarykey;type:varchar(64)" json:"id"`
	EmployeeID   string     `gorm:"type:varchar(64);not null;index" json:"employeeId"`
	EmployeeName string     `gorm:"type:varchar(255)" json:"employeeName"`
	TaskID       string     `gorm:"type:varchar(64)" json:"taskId"`
	TaskName     string     `gorm:"type:varchar(255)" json:"taskName"`
	ProjectName  string     `gorm:"type:varchar(255)" json:"projectName"`
	AssignedBy   string     `gorm:"type:varchar(255)" json:"assignedBy"`
	Message      string     `gorm:"type:text" json:"message"`
	IsRead       bool       `gorm:"not null" json:"isRead"`
	ReadAt       *time.Time `json:"readAt"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
}
