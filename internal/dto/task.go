package dto

import (
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/utils"
	"github.com/yukikurage/workstream-api/internal/workstream"
)

// TaskResponse wraps a written task. CreatedProject is set when the write created the
// task's project.
type TaskResponse struct {
	Task           models.Task `json:"task"`
	CreatedProject *ProjectDTO `json:"createdProject,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []models.Task            `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ClearResponse reports a bulk clear of active tasks
type ClearResponse struct {
	Removed   int `json:"removed"`
	Preserved int `json:"preserved"`
}

// ImportReportDTO summarizes a bulk import
type ImportReportDTO struct {
	Imported        int                     `json:"imported"`
	Skipped         int                     `json:"skipped"`
	Tasks           []models.Task           `json:"tasks"`
	CreatedProjects []ProjectDTO            `json:"createdProjects"`
	Rejected        []services.RowRejection `json:"rejected"`
	Assignments     []models.TaskAssignment `json:"assignments"`
	Unassigned      []int                   `json:"unassigned"`
}

// DraftResponse carries AI-drafted tasks that have not been stored
type DraftResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// AssignmentListResponse represents a page of the assignment log
type AssignmentListResponse struct {
	Assignments []models.TaskAssignment  `json:"assignments"`
	Pagination  utils.PaginationResponse `json:"pagination"`
}

// ToTaskResponse converts a store result
func ToTaskResponse(res workstream.TaskResult) TaskResponse {
	out := TaskResponse{Task: res.Task}
	if res.CreatedProject != nil {
		p := ToProjectDTO(*res.CreatedProject, 0)
		out.CreatedProject = &p
	}
	return out
}

// ToTaskListResponse converts one page of tasks
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int) TaskListResponse {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return TaskListResponse{
		Tasks:      tasks,
		Pagination: params.Response(total),
	}
}

// ToClearResponse converts a clear result
func ToClearResponse(res workstream.ClearResult) ClearResponse {
	return ClearResponse{
		Removed:   len(res.Removed),
		Preserved: res.Preserved,
	}
}

// ToImportReportDTO converts an import report
func ToImportReportDTO(report services.ImportReport) ImportReportDTO {
	created := make([]ProjectDTO, len(report.CreatedProjects))
	for i, p := range report.CreatedProjects {
		created[i] = ToProjectDTO(p, 0)
	}
	out := ImportReportDTO{
		Imported:        len(report.Imported),
		Skipped:         len(report.Rejected),
		Tasks:           report.Imported,
		CreatedProjects: created,
		Rejected:        report.Rejected,
		Assignments:     report.Assignments,
		Unassigned:      report.Unassigned,
	}
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}
	if out.Rejected == nil {
		out.Rejected = []services.RowRejection{}
	}
	if out.Assignments == nil {
		out.Assignments = []models.TaskAssignment{}
	}
	if out.Unassigned == nil {
		out.Unassigned = []int{}
	}
	return out
}

// ToAssignmentListResponse converts one page of the assignment log
func ToAssignmentListResponse(rows []models.TaskAssignment, params utils.PaginationParams, total int64) AssignmentListResponse {
	if rows == nil {
		rows = []models.TaskAssignment{}
	}
	return AssignmentListResponse{
		Assignments: rows,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}

// ImportPreviewDTO shows what an import would store without storing it
type ImportPreviewDTO struct {
	Count       int                     `json:"count"`
	Tasks       []models.Task           `json:"tasks"`
	NewProjects []string                `json:"newProjects"`
	Rejected    []services.RowRejection `json:"rejected"`
	Assignments []models.TaskAssignment `json:"assignments"`
	Unassigned  []int                   `json:"unassigned"`
}

// ToImportPreviewDTO converts an import preview
func ToImportPreviewDTO(preview services.ImportPreview) ImportPreviewDTO {
	out := ImportPreviewDTO{
		Count:       len(preview.Tasks),
		Tasks:       preview.Tasks,
		NewProjects: preview.NewProjects,
		Rejected:    preview.Rejected,
		Assignments: preview.Assignments,
		Unassigned:  preview.Unassigned,
	}
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}
	if out.NewProjects == nil {
		out.NewProjects = []string{}
	}
	if out.Rejected == nil {
		out.Rejected = []services.RowRejection{}
	}
	if out.Assignments == nil {
		out.Assignments = []models.TaskAssignment{}
	}
	if out.Unassigned == nil {
		out.Unassigned = []int{}
	}
	return out
}

// HistoryResponse is one person's active and completed work
type HistoryResponse struct {
	Person         models.Person           `json:"person"`
	ActiveTasks    []models.Task           `json:"activeTasks"`
	CompletedTasks []models.Task           `json:"completedTasks"`
	Assignments    []models.TaskAssignment `json:"assignments"`
}

// ToHistoryResponse converts a person's history
func ToHistoryResponse(h services.PersonHistory) HistoryResponse {
	out := HistoryResponse{
		Person:         h.Person,
		ActiveTasks:    h.Active,
		CompletedTasks: h.Completed,
		Assignments:    h.Assignments,
	}
	if out.ActiveTasks == nil {
		out.ActiveTasks = []models.Task{}
	}
	if out.CompletedTasks == nil {
		out.CompletedTasks = []models.Task{}
	}
	if out.Assignments == nil {
		out.Assignments = []models.TaskAssignment{}
	}
	return out
}
