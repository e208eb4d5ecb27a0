package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/views"
)

const (
	ContextKeyTask    = "task"
	ContextKeyProject = "project"
)

// RequireTaskAccess loads the task named by the id parameter into context.
// Employees only see tasks assigned to them.
func RequireTaskAccess(svc *services.WorkstreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, exists := GetViewer(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := svc.Task(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking task existence
		if !viewer.Sees(task) {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyTask, task)
		c.Next()
	}
}

// RequireProjectAccess loads the project named by the id parameter into context.
// Employees only see projects they have tasks in.
func RequireProjectAccess(svc *services.WorkstreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, exists := GetViewer(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		project, err := svc.Project(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		if !viewer.Manager && !visibleTo(svc, viewer, project.ID) {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyProject, project)
		c.Next()
	}
}

func visibleTo(svc *services.WorkstreamService, viewer views.Viewer, projectID string) bool {
	for _, p := range svc.Projects(viewer, "") {
		if p.ID == projectID {
			return true
		}
	}
	return false
}
