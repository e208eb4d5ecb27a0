package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/workstream"
)

// respondWorkstreamError maps service and store errors onto the API error envelope.
func respondWorkstreamError(c *gin.Context, err error) {
	var verr *workstream.ValidationError
	switch {
	case errors.Is(err, workstream.ErrProjectLocked):
		apierrors.ProjectLocked(c, workstream.Reason(err))
	case errors.Is(err, workstream.ErrTaskLocked):
		apierrors.TaskLocked(c, workstream.Reason(err))
	case errors.Is(err, workstream.ErrUnknownTarget), errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, workstream.ErrProjectExists), errors.Is(err, workstream.ErrTaskExists):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, workstream.ErrTaskNotCompleted):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		apierrors.InsufficientPermissions(c, err.Error())
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, "Validation failed", verr.Fields)
	case errors.Is(err, workstream.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyImport),
		errors.Is(err, services.ErrTooManyImportRows),
		errors.Is(err, services.ErrAITooManyTasks),
		errors.Is(err, services.ErrAINoTasksGenerated):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrPersistFailed):
		log.Printf("Workstream write failed: %v", err)
		apierrors.OperationFailed(c, "Changes could not be saved")
	default:
		log.Printf("Workstream request failed: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
