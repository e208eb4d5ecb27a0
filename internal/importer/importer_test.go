package importer

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workstream-api/internal/models"
)

var now = time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMapRow_SpreadsheetHeaders(t *testing.T) {
	task := MapRow(Row{
		"Employee_ID":            "S2",
		"Employee_Name":          " Magesh ",
		"Role":                   "BACKEND",
		"Date":                   "2025-05-30",
		"Project Name":           "Atlas",
		"Task Assigned":          "Auth API",
		"Task Description":       "Session endpoints",
		"Project Assigned By":    "Alex Rivera",
		"Start Time":             "10:00",
		"End Time":               "17:00",
		"Task Completion Due":    "12-06-2025",
		"Task Completion Status": "in progress",
		"Remarks":                "urgent",
		"Repo / URL":             "https://example.com/repo",
	}, now)

	assert.Equal(t, "S2", task.EmployeeID)
	assert.Equal(t, "Magesh", task.EmployeeName)
	assert.Equal(t, "BACKEND", task.Role)
	assert.Equal(t, date(2025, time.May, 30), task.Date)
	assert.Equal(t, "Atlas", task.ProjectName)
	assert.Equal(t, "Auth API", task.TaskAssigned)
	assert.Equal(t, "Session endpoints", task.TaskDescription)
	assert.Equal(t, "Alex Rivera", task.AssignedBy)
	assert.Equal(t, "10:00", task.ScheduledStart)
	assert.Equal(t, "17:00", task.ScheduledEnd)
	require.NotNil(t, task.CompletionDue)
	assert.Equal(t, date(2025, time.June, 12), *task.CompletionDue)
	assert.Equal(t, models.TaskStatusInProgress, task.CompletionStatus)
	assert.Equal(t, "urgent", task.Remarks)
	assert.Equal(t, "https://example.com/repo", task.RepoURL)
}

func TestMapRow_FallbackColumns(t *testing.T) {
	task := MapRow(Row{
		"Lead":        "Aniket",
		"Project":     "Comet",
		"Task":        "Landing page",
		"Assigned By": "Alex",
		"Due":         45000.0,
		"Status":      "COMPLETED",
	}, now)

	assert.Equal(t, "Aniket", task.EmployeeName)
	assert.Equal(t, "Comet", task.ProjectName)
	assert.Equal(t, "Landing page", task.TaskAssigned)
	assert.Equal(t, "Alex", task.AssignedBy)
	assert.Equal(t, date(2023, time.March, 15), *task.CompletionDue)
	assert.Equal(t, models.TaskStatusCompleted, task.CompletionStatus)
}

func TestMapRow_FirstPopulatedColumnWins(t *testing.T) {
	task := MapRow(Row{
		"Employee_Name": "",
		"employeeName":  nil,
		"Name":          "Tanishka Singh",
		"Lead":          "Someone Else",
	}, now)
	assert.Equal(t, "Tanishka Singh", task.EmployeeName)
}

func TestMapRow_Defaults(t *testing.T) {
	task := MapRow(Row{}, now)

	assert.Empty(t, task.ID)
	assert.Empty(t, task.EmployeeID)
	assert.Equal(t, DefaultEmployeeName, task.EmployeeName)
	assert.Equal(t, DefaultRole, task.Role)
	assert.Equal(t, date(2025, time.June, 2), task.Date)
	assert.Equal(t, DefaultProjectName, task.ProjectName)
	assert.Equal(t, DefaultTaskTitle, task.TaskAssigned)
	assert.Equal(t, DefaultDescription, task.TaskDescription)
	assert.Equal(t, DefaultAssignedBy, task.AssignedBy)
	assert.Equal(t, DefaultStartTime, task.ScheduledStart)
	assert.Equal(t, DefaultEndTime, task.ScheduledEnd)
	assert.Equal(t, date(2025, time.June, 2), *task.CompletionDue)
	assert.Equal(t, models.TaskStatusPending, task.CompletionStatus)
	assert.Equal(t, models.DefaultTaskPriority, task.Priority)
	assert.Equal(t, DefaultRemarks, task.Remarks)
	assert.Empty(t, task.RepoURL)
}

func TestMapRow_NumericCells(t *testing.T) {
	task := MapRow(Row{"Employee_ID": 1042.0, "id": json.Number("77")}, now)
	assert.Equal(t, "1042", task.EmployeeID)
	assert.Equal(t, "77", task.ID)
}

func TestMapRows(t *testing.T) {
	tasks := MapRows([]Row{{"Name": "A"}, {"Name": "B"}}, now)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].EmployeeName)
	assert.Equal(t, "B", tasks[1].EmployeeName)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		label string
		want  models.TaskStatus
	}{
		{"Pending", models.TaskStatusPending},
		{"in progress", models.TaskStatusInProgress},
		{"In_Progress", models.TaskStatusInProgress},
		{"completed", models.TaskStatusCompleted},
		{"DELAYED", models.TaskStatusDelayed},
		{"blocked", models.TaskStatusPending},
		{"", models.TaskStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.label))
		})
	}
}

func TestParseDate(t *testing.T) {
	today := date(2025, time.June, 2)

	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"missing", nil, today},
		{"empty string", "  ", today},
		{"serial float", 45658.0, date(2025, time.January, 1)},
		{"serial int", 45658, date(2025, time.January, 1)},
		{"serial json number", json.Number("45658"), date(2025, time.January, 1)},
		{"iso date", "2024-02-29", date(2024, time.February, 29)},
		{"iso timestamp", "2024-02-29T23:15:00Z", date(2024, time.February, 29)},
		{"day first dash", "5-3-2025", date(2025, time.March, 5)},
		{"day first slash", "05/03/2025", date(2025, time.March, 5)},
		{"day first dot", "31.12.2024", date(2024, time.December, 31)},
		{"impossible day", "31-02-2025", today},
		{"garbage", "next tuesday", today},
		{"two digit year", "05-03-25", today},
		{"time value", time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC), date(2024, time.July, 4)},
		{"last encodable serial", 2958465.0, date(9999, time.December, 31)},
		{"serial past year 9999", 1e300, today},
		{"negative serial", -5.0, today},
		{"infinite serial", math.Inf(1), today},
		{"nan serial", math.NaN(), today},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.in, now))
		})
	}
}
