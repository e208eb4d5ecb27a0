package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workstream-api/internal/dto"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/middleware"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/utils"
)

// ProjectHandler serves projects and the people working on them.
type ProjectHandler struct {
	workstream *services.WorkstreamService
}

func NewProjectHandler(workstream *services.WorkstreamService) *ProjectHandler {
	return &ProjectHandler{
		workstream: workstream,
	}
}

// ListProjects returns the projects visible to the current account, ordered by status
// priority. An optional status query narrows the result.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	status := models.ProjectStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		apierrors.BadRequest(c, "Invalid status filter")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectDTOs(h.workstream.Projects(viewer, status)),
	})
}

// CreateProject creates a project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name   string               `json:"name" binding:"required"`
		Status models.ProjectStatus `json:"status"`
		Health *int                 `json:"health"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	project, err := h.workstream.CreateProject(services.CreateProjectInput{
		Name:   req.Name,
		Status: req.Status,
		Health: req.Health,
	})
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(project, 0))
}

// UpdateProjectStatus overwrites a project's status. Setting Completed locks the
// project; any other status unlocks it.
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.ProjectStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}

	project, err := h.workstream.UpdateProjectStatus(c.Param("id"), req.Status)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project, 0))
}

// UpdateProjectHealth sets a project's health gauge
func (h *ProjectHandler) UpdateProjectHealth(c *gin.Context) {
	type UpdateHealthRequest struct {
		Health *int `json:"health"`
	}

	var req UpdateHealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}
	if req.Health == nil {
		apierrors.MissingField(c, "health")
		return
	}

	project, err := h.workstream.UpdateProjectHealth(c.Param("id"), *req.Health)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project, 0))
}

// GetRoster lists the members of a project
// Project is already loaded by RequireProjectAccess middleware
func (h *ProjectHandler) GetRoster(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	_, members, err := h.workstream.Roster(project.ID)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRosterResponse(project, members))
}

// Offboard removes a member's open tasks from a project. Completed tasks stay as
// history.
func (h *ProjectHandler) Offboard(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	type OffboardRequest struct {
		Person string `json:"person"`
	}

	var req OffboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidFormat(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Person) == "" {
		apierrors.MissingField(c, "person")
		return
	}

	res, err := h.workstream.Offboard(req.Person, project.Name)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOffboardResponse(res))
}

// ListLeads returns the availability of the people visible to the current account
func (h *ProjectHandler) ListLeads(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": dto.ToLeadDTOs(h.workstream.Leads(viewer)),
	})
}

// GetHistory returns a person's active and completed tasks. Employees may only read
// their own.
func (h *ProjectHandler) GetHistory(c *gin.Context) {
	viewer, exists := middleware.GetViewer(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	history, err := h.workstream.History(viewer, c.Param("id"))
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoryResponse(history))
}

// ListAssignments returns the assignment log, newest first
func (h *ProjectHandler) ListAssignments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rows, total, err := h.workstream.RecentAssignments(params)
	if err != nil {
		respondWorkstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentListResponse(rows, params, total))
}

func projectFromContext(c *gin.Context) (models.Project, bool) {
	v, exists := c.Get(middleware.ContextKeyProject)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return models.Project{}, false
	}
	project, ok := v.(models.Project)
	if !ok {
		apierrors.InternalError(c, "Invalid project data")
		return models.Project{}, false
	}
	return project, true
}
