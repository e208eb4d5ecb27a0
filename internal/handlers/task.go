package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workstream-api/internal/dto"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/importer"
	"github.com/yukikurage/workstream-api/internal/middleware"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/utils"
)

type TaskHandler struct {
	workstream *services.WorkstreamService
	aiService  *services.AIService
}

func NewTaskHandler(workstream *services.WorkstreamService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		workstream: workstream,
		aiService:  aiService,
	}
}

// TaskRequest is the writable part of a task
type TaskRequest struct {
	EmployeeID       string            `json:"employeeId"`
	EmployeeName     string            `json:"employeeName"`
	Role             string            `json:"role"`
	Date             *time.Time        `json:"date"`
	ProjectName      string            `json:"projectName"`
	TaskAssigned     string            `json:"taskAssigned"`
	TaskDescription  string            `json:"taskDescription"`
	AssignedBy       string            `json:"assignedBy"`
	ScheduledStart   string            `json:"scheduledStart"`
	ScheduledEnd     string            `json:"scheduledEnd"`
	CompletionDue    *time.Time        `json:"completionDue"`
	CompletionStatus models.TaskStatus `json:"completionStatus"`
	Priority         string            `json:"priority"`
	Remarks          string            `json:"remarks"`
	RepoURL          string            `json:"repoUrl"`
}

func (r TaskRequest) toModel(id string) models.Task {
	task := models.Task{
		ID:               id,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		Role:             r.Role,
		ProjectName:      r.ProjectName,
		TaskAssigned:     r.TaskAssigned,
		TaskDescription:  r.TaskDescription,
		AssignedBy:       r.AssignedBy,
		ScheduledStart:   r.ScheduledStart,
		ScheduledEnd:     r.ScheduledEnd,
		CompletionDue:    r.CompletionDue,
		CompletionStatus: r.CompletionStatus,
		Priority:         r.Priority,
		Remarks:          r.Remarks,
		RepoURL:          r.RepoURL,
	}
	if r.Date != nil {
		task.Date = *r.Date
	}
	return task
}

// ListTasks returns one page of the tasks visible to the current account
func (h *TaskHandler) ListTasks(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total := h.workstream.Tasks(viewer, params)

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskInterface, exists := c.Get(middleware.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task, creating its project on first use
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	if req.AssignedBy == "" {
		if account, ok := middleware.GetAccount(c); ok {
			req.AssignedBy = account.Name
		}
	}

	res, err := h.workstream.CreateTask(req.toModel(""))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(res))
}

// UpdateTask replaces an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	res, err := h.workstream.UpdateTask(req.toModel(c.Param("id")))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(res))
}

type taskStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// UpdateTaskStatus changes a task's completion status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var req taskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}
	if req.Status == "" {
		apierrors.MissingField(c, "status")
		return
	}

	task, err := h.workstream.UpdateTaskStatus(c.Param("id"), req.Status)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ReopenTask reverts a completed task. The status defaults to Pending.
func (h *TaskHandler) ReopenTask(c *gin.Context) {
	var req taskStatusRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.InvalidFormat(c, "Invalid request body")
			return
		}
	}
	if req.Status == "" {
		req.Status = models.TaskStatusPending
	}

	task, err := h.workstream.ReopenTask(c.Param("id"), req.Status)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if _, err := h.workstream.DeleteTask(c.Param("id")); err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ClearActiveTasks removes every task outside completed projects
func (h *TaskHandler) ClearActiveTasks(c *gin.Context) {
	res, err := h.workstream.ClearActiveTasks()
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToClearResponse(res))
}

type importTasksRequest struct {
	Rows       []importer.Row `json:"rows"`
	Tasks      []TaskRequest  `json:"tasks"`
	AutoAssign bool           `json:"autoAssign"`
}

func (r importTasksRequest) toInput(c *gin.Context) services.ImportInput {
	input := services.ImportInput{
		Rows:       r.Rows,
		AutoAssign: r.AutoAssign,
	}
	for _, t := range r.Tasks {
		input.Tasks = append(input.Tasks, t.toModel(""))
	}
	if account, ok := middleware.GetAccount(c); ok {
		input.AssignedBy = account.Name
	}
	return input
}

// ImportTasks stores a batch of spreadsheet rows
func (h *TaskHandler) ImportTasks(c *gin.Context) {
	var req importTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	report, err := h.workstream.Import(req.toInput(c))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToImportReportDTO(report))
}

// PreviewImport maps and balances a batch the way ImportTasks would, without storing
// anything
func (h *TaskHandler) PreviewImport(c *gin.Context) {
	var req importTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	preview, err := h.workstream.PreviewImport(req.toInput(c))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToImportPreviewDTO(preview))
}

// GenerateTasks drafts tasks from free text using AI. With import set the drafts are
// stored through the regular import path.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text       string `json:"text" binding:"required"`
		Import     bool   `json:"import"`
		AutoAssign bool   `json:"autoAssign"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	var assignedBy string
	if account, ok := middleware.GetAccount(c); ok {
		assignedBy = account.Name
	}

	drafts, err := h.aiService.DraftTasks(c.Request.Context(), req.Text, assignedBy)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	if !req.Import {
		c.JSON(http.StatusOK, dto.DraftResponse{Tasks: drafts})
		return
	}

	report, err := h.workstream.Import(services.ImportInput{
		Tasks:      drafts,
		AutoAssign: req.AutoAssign,
		AssignedBy: assignedBy,
	})
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToImportReportDTO(report))
}
