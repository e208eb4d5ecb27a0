package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workstream-api/internal/middleware"
	"github.com/yukikurage/workstream-api/internal/services"
)

// Services bundles what the HTTP API is built from. AI may be nil.
type Services struct {
	Auth          *services.AuthService
	Workstream    *services.WorkstreamService
	Notifications *services.NotificationService
	AI            *services.AIService
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	taskHandler := NewTaskHandler(svc.Workstream, svc.AI)
	projectHandler := NewProjectHandler(svc.Workstream)
	notificationHandler := NewNotificationHandler(svc.Notifications)

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireManager := middleware.RequireManager()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Workstream API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentAccount)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", requireManager, projectHandler.CreateProject)
			projects.PATCH("/:id/status", requireManager, projectHandler.UpdateProjectStatus)
			projects.PATCH("/:id/health", requireManager, projectHandler.UpdateProjectHealth)
			projects.GET("/:id/roster", middleware.RequireProjectAccess(svc.Workstream), projectHandler.GetRoster)
			projects.POST("/:id/offboard", requireManager, middleware.RequireProjectAccess(svc.Workstream), projectHandler.Offboard)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", requireManager, taskHandler.CreateTask)
			tasks.DELETE("", requireManager, taskHandler.ClearActiveTasks)
			tasks.POST("/import", requireManager, taskHandler.ImportTasks)
			tasks.POST("/import/preview", requireManager, taskHandler.PreviewImport)
			tasks.POST("/generate", requireManager, taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(svc.Workstream), taskHandler.GetTask)
			tasks.PUT("/:id", requireManager, taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", requireManager, taskHandler.UpdateTaskStatus)
			tasks.POST("/:id/reopen", requireManager, taskHandler.ReopenTask)
			tasks.DELETE("/:id", requireManager, taskHandler.DeleteTask)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.GET("/:id", notificationHandler.GetNotification)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		api.GET("/leads", requireAuth, projectHandler.ListLeads)
		api.GET("/people/:id/history", requireAuth, projectHandler.GetHistory)
		api.GET("/assignments", requireAuth, requireManager, projectHandler.ListAssignments)
	}
}
