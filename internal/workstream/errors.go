package workstream

import "errors"

var (
	ErrProjectLocked     = errors.New("project is completed and read-only")
	ErrTaskLocked        = errors.New("task is completed and preserved as history")
	ErrUnknownTarget     = errors.New("unknown task or project")
	ErrImportRowRejected = errors.New("import row rejected")
	ErrProjectExists     = errors.New("project with the same name already exists")
	ErrTaskExists        = errors.New("task with the same id already exists")
	ErrTaskNotCompleted  = errors.New("task is not completed")
	ErrInvalidInput      = errors.New("invalid input")
)

// Outcome tags the result of a store mutation for callers that report it.
type Outcome string

const (
	OutcomeOK            Outcome = "Ok"
	OutcomeProjectLocked Outcome = "ProjectLocked"
	OutcomeTaskLocked    Outcome = "TaskLocked"
	OutcomeUnknownTarget Outcome = "UnknownTarget"
	OutcomeRowRejected   Outcome = "ImportRowRejected"
	OutcomeInvalid       Outcome = "Invalid"
)

// OutcomeOf maps an error returned by the store to its outcome tag. Project locks win
// over every other reason.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrProjectLocked):
		return OutcomeProjectLocked
	case errors.Is(err, ErrTaskLocked):
		return OutcomeTaskLocked
	case errors.Is(err, ErrUnknownTarget):
		return OutcomeUnknownTarget
	case errors.Is(err, ErrImportRowRejected):
		return OutcomeRowRejected
	default:
		return OutcomeInvalid
	}
}

// Reason returns the message shown to end users for a rejected mutation.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProjectLocked):
		return "This project is completed. Its tasks and members are locked until the project is reopened."
	case errors.Is(err, ErrTaskLocked):
		return "This task is completed and kept as permanent history. It can no longer be edited or removed."
	case errors.Is(err, ErrUnknownTarget):
		return "The referenced task or project does not exist."
	case errors.Is(err, ErrProjectExists):
		return "A project with this name already exists."
	case errors.Is(err, ErrTaskNotCompleted):
		return "Only completed tasks can be reopened."
	default:
		return err.Error()
	}
}
