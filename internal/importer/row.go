// Package importer turns loosely typed spreadsheet rows into task descriptors. No field
// is assumed to be present: each task field is read from the first populated column in
// a fallback list and otherwise defaulted.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/workstream-api/internal/models"
)

// Row is one parsed spreadsheet row keyed by column header.
type Row map[string]any

var (
	idColumns           = []string{"id", "ID"}
	employeeIDColumns   = []string{"Employee_ID", "employeeId"}
	employeeNameColumns = []string{"Employee_Name", "employeeName", "Name", "Lead"}
	roleColumns         = []string{"Role", "role"}
	dateColumns         = []string{"Date", "date"}
	projectColumns      = []string{"Project Name", "projectName", "Project"}
	taskColumns         = []string{"Task Assigned", "taskAssigned", "Task"}
	descriptionColumns  = []string{"Task Description", "taskDescription"}
	assignedByColumns   = []string{"Project Assigned By", "projectAssignedBy", "Assigned By"}
	startColumns        = []string{"Start Time", "startTime"}
	endColumns          = []string{"End Time", "endTime"}
	dueColumns          = []string{"Task Completion Due", "completionDue", "Completion Due", "Due"}
	statusColumns       = []string{"Task Completion Status", "completionStatus", "Status"}
	priorityColumns     = []string{"Priority", "priority"}
	remarksColumns      = []string{"Remarks", "remarks"}
	repoColumns         = []string{"Repo / URL", "repoUrl", "Repo"}
)

// Column defaults applied when no fallback column is populated.
const (
	DefaultEmployeeName = "Unknown"
	DefaultRole         = "LEAD"
	DefaultProjectName  = "General"
	DefaultTaskTitle    = "No Task"
	DefaultDescription  = "-"
	DefaultAssignedBy   = "System"
	DefaultStartTime    = "09:00"
	DefaultEndTime      = "18:00"
	DefaultRemarks      = "-"
)

// MapRow converts a row into a task descriptor. now is the fallback for unparseable
// dates.
func MapRow(row Row, now time.Time) models.Task {
	due := ParseDate(row.first(dueColumns), now)
	return models.Task{
		ID:               row.text(idColumns, ""),
		EmployeeID:       row.text(employeeIDColumns, ""),
		EmployeeName:     row.text(employeeNameColumns, DefaultEmployeeName),
		Role:             row.text(roleColumns, DefaultRole),
		Date:             ParseDate(row.first(dateColumns), now),
		ProjectName:      row.text(projectColumns, DefaultProjectName),
		TaskAssigned:     row.text(taskColumns, DefaultTaskTitle),
		TaskDescription:  row.text(descriptionColumns, DefaultDescription),
		AssignedBy:       row.text(assignedByColumns, DefaultAssignedBy),
		ScheduledStart:   row.text(startColumns, DefaultStartTime),
		ScheduledEnd:     row.text(endColumns, DefaultEndTime),
		CompletionDue:    &due,
		CompletionStatus: ParseStatus(row.text(statusColumns, "")),
		Priority:         row.text(priorityColumns, models.DefaultTaskPriority),
		Remarks:          row.text(remarksColumns, DefaultRemarks),
		RepoURL:          row.text(repoColumns, ""),
	}
}

// MapRows converts every row, preserving order.
func MapRows(rows []Row, now time.Time) []models.Task {
	out := make([]models.Task, len(rows))
	for i, r := range rows {
		out[i] = MapRow(r, now)
	}
	return out
}

// ParseStatus matches a status label ignoring case and spacing. Unknown labels map to
// Pending.
func ParseStatus(label string) models.TaskStatus {
	key := statusKey(label)
	for _, s := range models.TaskStatuses {
		if statusKey(string(s)) == key {
			return s
		}
	}
	return models.TaskStatusPending
}

func statusKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// first returns the value of the first populated column.
func (r Row) first(columns []string) any {
	for _, c := range columns {
		if v, ok := r[c]; ok && !empty(v) {
			return v
		}
	}
	return nil
}

func (r Row) text(columns []string, def string) string {
	v := r.first(columns)
	if v == nil {
		return def
	}
	return stringify(v)
}

// empty mirrors spreadsheet semantics: blank cells and zeroes count as missing.
func empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.DateOnly)
	}
	return fmt.Sprint(v)
}
