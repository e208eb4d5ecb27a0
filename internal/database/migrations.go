package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/workstream-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	table   string
	name    string
	columns string
}

// indexes are the composite lookups the struct tags cannot express.
var indexes = []index{
	{&models.Task{}, "tasks", "idx_tasks_project_status", "project_name, completion_status"},
	{&models.Task{}, "tasks", "idx_tasks_employee_status", "employee_name, completion_status"},
	{&models.TaskAssignment{}, "task_assignments", "idx_task_assignments_assigned_at", "assigned_at"},
	{&models.TaskAssignment{}, "task_assignments", "idx_task_assignments_task_id", "task_id"},
	{&models.TaskAssignment{}, "task_assignments", "idx_task_assignments_assigned_to_id", "assigned_to_id, assigned_at"},
	{&models.Notification{}, "notifications", "idx_notifications_employee_read", "employee_id, is_read"},
}

// AddIndexes creates any missing secondary index. It is safe to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}
	return nil
}
