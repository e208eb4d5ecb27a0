// Package workstream holds the authoritative in-memory collection of projects and tasks
// and enforces their lifecycle rules: completed tasks are permanent history, completed
// projects lock every task they own, and unknown project names are created on first use.
package workstream

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/workstream-api/internal/models"
)

const (
	// DefaultProjectHealth is the health gauge given to projects created implicitly by a
	// task, and to explicit projects created without one.
	DefaultProjectHealth = 100

	DefaultEmployeeName = "Unknown"
	DefaultProjectName  = "General"

	taskIDPrefix    = "TASK"
	projectIDPrefix = "PRJ"
)

// Store is safe for concurrent use. Every operation checks its invariants and applies
// its mutation under a single lock; rejected operations leave the store untouched.
type Store struct {
	mu       sync.RWMutex
	projects []models.Project
	tasks    []models.Task

	newID func(prefix string) string
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides how task and project ids are minted.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store seeded with a snapshot of existing data.
func NewStore(snapshot Snapshot, opts ...Option) *Store {
	s := &Store{
		newID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.replaceLocked(snapshot)
	return s
}

// TaskResult describes a single successful task mutation.
type TaskResult struct {
	Task models.Task
	// CreatedProject is set when the mutation implicitly created a project.
	CreatedProject *models.Project
}

// OffboardResult reports the outcome of removing a member from a project.
type OffboardResult struct {
	PersonName  string
	ProjectName string
	Removed     []models.Task
	// Preserved counts the member's completed tasks kept as history.
	Preserved int
}

// RemovedCount returns how many active tasks were removed.
func (r OffboardResult) RemovedCount() int {
	return len(r.Removed)
}

// Message describes the outcome for the end user.
func (r OffboardResult) Message() string {
	if len(r.Removed) == 0 {
		return fmt.Sprintf("No active tasks to remove for %s in %s; history preserved.", r.PersonName, r.ProjectName)
	}
	return fmt.Sprintf("Removed %d active task(s) for %s from %s.", len(r.Removed), r.PersonName, r.ProjectName)
}

// ClearResult reports the outcome of ClearActiveTasks.
type ClearResult struct {
	Removed []models.Task
	// Preserved counts the tasks kept because their project is completed.
	Preserved int
}

// Rejection records why one bulk import item was skipped.
type Rejection struct {
	Index int
	Task  models.Task
	Err   error
}

// ImportResult reports the outcome of BulkImport.
type ImportResult struct {
	Imported        []models.Task
	CreatedProjects []models.Project
	Rejected        []Rejection
}

// ImportedCount returns the number of stored tasks.
func (r ImportResult) ImportedCount() int {
	return len(r.Imported)
}

// SkippedCount returns the number of rejected items.
func (r ImportResult) SkippedCount() int {
	return len(r.Rejected)
}

// IsProjectCompleted reports whether a project with the given name exists and is
// completed. Unknown names are never locked.
func (s *Store) IsProjectCompleted(projectName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isProjectCompletedLocked(projectName)
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.taskIndexLocked(id)
	if i < 0 {
		return models.Task{}, false
	}
	return cloneTask(s.tasks[i]), true
}

// Project returns the project with the given id.
func (s *Store) Project(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.projectIndexLocked(id)
	if i < 0 {
		return models.Project{}, false
	}
	return s.projects[i], true
}

// ProjectByName returns the project whose normalized name matches.
func (s *Store) ProjectByName(name string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.projectByNameLocked(name)
	if i < 0 {
		return models.Project{}, false
	}
	return s.projects[i], true
}

// AddTask stores a new task, creating its project when no project has that name.
func (s *Store) AddTask(task models.Task) (TaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTaskLocked(task)
}

// CheckTask runs the rules AddTask enforces without storing anything. It returns task
// with defaults filled in, or the error AddTask would fail with.
func (s *Store) CheckTask(task models.Task) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkTaskLocked(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces a stored task by id.
func (s *Store) UpdateTask(updated models.Task) (TaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.editableTaskLocked(updated.ID)
	if err != nil {
		return TaskResult{}, err
	}

	existing := s.tasks[i]
	applyTaskDefaults(&updated)
	if err := validateStruct(updated); err != nil {
		return TaskResult{}, err
	}
	if s.isProjectCompletedLocked(updated.ProjectName) {
		return TaskResult{}, fmt.Errorf("%w: %q", ErrProjectLocked, updated.ProjectName)
	}

	if updated.Date.IsZero() {
		updated.Date = existing.Date
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	created := s.ensureProjectLocked(updated.ProjectName)
	s.tasks[i] = cloneTask(updated)

	return TaskResult{Task: cloneTask(updated), CreatedProject: created}, nil
}

// UpdateTaskStatus changes only the completion status of a task. It is guarded exactly
// like UpdateTask.
func (s *Store) UpdateTaskStatus(id string, status models.TaskStatus) (models.Task, error) {
	if !status.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.editableTaskLocked(id)
	if err != nil {
		return models.Task{}, err
	}

	s.tasks[i].CompletionStatus = status
	s.tasks[i].UpdatedAt = s.now()
	return cloneTask(s.tasks[i]), nil
}

// ReopenTask reverts a completed task to an open status. This is the only way to lift a
// task-level lock, and it is refused while the task's project is completed.
func (s *Store) ReopenTask(id string, status models.TaskStatus) (models.Task, error) {
	if !status.Valid() || status == models.TaskStatusCompleted {
		return models.Task{}, fmt.Errorf("%w: cannot reopen into status %q", ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: task %q", ErrUnknownTarget, id)
	}
	task := s.tasks[i]
	if s.isProjectCompletedLocked(task.ProjectName) {
		return models.Task{}, fmt.Errorf("%w: %q", ErrProjectLocked, task.ProjectName)
	}
	if !task.IsCompleted() {
		return models.Task{}, fmt.Errorf("%w: task %q", ErrTaskNotCompleted, id)
	}

	s.tasks[i].CompletionStatus = status
	s.tasks[i].UpdatedAt = s.now()
	return cloneTask(s.tasks[i]), nil
}

// DeleteTask removes a task. Callers are expected to have confirmed the removal.
func (s *Store) DeleteTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.editableTaskLocked(id)
	if err != nil {
		return models.Task{}, err
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return removed, nil
}

// AddProject creates a project explicitly. The health gauge is stored as given; callers
// apply DefaultProjectHealth when none was asked for.
func (s *Store) AddProject(project models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	if err := validateStruct(project); err != nil {
		return models.Project{}, err
	}
	if s.projectByNameLocked(project.Name) >= 0 {
		return models.Project{}, fmt.Errorf("%w: %q", ErrProjectExists, project.Name)
	}
	if project.ID == "" {
		project.ID = s.newID(projectIDPrefix)
	} else if s.projectIndexLocked(project.ID) >= 0 {
		return models.Project{}, fmt.Errorf("%w: id %q", ErrProjectExists, project.ID)
	}

	now := s.now()
	project.NameKey = Normalize(project.Name)
	project.CreatedAt = now
	project.UpdatedAt = now
	s.projects = append(s.projects, project)
	return project, nil
}

// UpdateProjectStatus overwrites a project's status. Nothing prevents moving into or out
// of Completed: the lock protects the project's tasks, not the status field.
func (s *Store) UpdateProjectStatus(projectID string, status models.ProjectStatus) (models.Project, error) {
	if !status.Valid() {
		return models.Project{}, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndexLocked(projectID)
	if i < 0 {
		return models.Project{}, fmt.Errorf("%w: project %q", ErrUnknownTarget, projectID)
	}
	s.projects[i].Status = status
	s.projects[i].UpdatedAt = s.now()
	return s.projects[i], nil
}

// UpdateProjectHealth sets a project's health gauge.
func (s *Store) UpdateProjectHealth(projectID string, health int) (models.Project, error) {
	if health < 0 || health > 100 {
		return models.Project{}, fmt.Errorf("%w: health %d out of range 0-100", ErrInvalidInput, health)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndexLocked(projectID)
	if i < 0 {
		return models.Project{}, fmt.Errorf("%w: project %q", ErrUnknownTarget, projectID)
	}
	s.projects[i].Health = health
	s.projects[i].UpdatedAt = s.now()
	return s.projects[i], nil
}

// OffboardMember removes a person's open tasks from a project. Completed tasks for the
// same person and project stay as history.
func (s *Store) OffboardMember(personName, projectName string) (OffboardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projectByNameLocked(projectName)
	if p < 0 {
		return OffboardResult{}, fmt.Errorf("%w: project %q", ErrUnknownTarget, projectName)
	}
	if s.projects[p].IsCompleted() {
		return OffboardResult{}, fmt.Errorf("%w: %q", ErrProjectLocked, projectName)
	}

	result := OffboardResult{PersonName: personName, ProjectName: s.projects[p].Name}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !SameName(t.EmployeeName, personName) || !SameName(t.ProjectName, projectName) {
			kept = append(kept, t)
			continue
		}
		if t.IsCompleted() {
			result.Preserved++
			kept = append(kept, t)
			continue
		}
		result.Removed = append(result.Removed, t)
	}
	s.tasks = kept
	return result, nil
}

// ClearActiveTasks removes every task whose project is not completed.
func (s *Store) ClearActiveTasks() ClearResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ClearResult
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if s.isProjectCompletedLocked(t.ProjectName) {
			result.Preserved++
			kept = append(kept, t)
			continue
		}
		result.Removed = append(result.Removed, t)
	}
	s.tasks = kept
	return result
}

// BulkImport adds each task independently. Items targeting a completed project, or
// otherwise refused, are skipped and reported while the rest of the batch proceeds.
func (s *Store) BulkImport(tasks []models.Task) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ImportResult
	for i, task := range tasks {
		res, err := s.addTaskLocked(task)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{
				Index: i,
				Task:  task,
				Err:   fmt.Errorf("%w: row %d: %w", ErrImportRowRejected, i, err),
			})
			continue
		}
		result.Imported = append(result.Imported, res.Task)
		if res.CreatedProject != nil {
			result.CreatedProjects = append(result.CreatedProjects, *res.CreatedProject)
		}
	}
	return result
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Projects: s.projects, Tasks: s.tasks}.Clone()
}

// Replace swaps the whole state for the given snapshot.
func (s *Store) Replace(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(snapshot)
}

func (s *Store) replaceLocked(snapshot Snapshot) {
	c := snapshot.Clone()
	for i := range c.Projects {
		if c.Projects[i].NameKey == "" {
			c.Projects[i].NameKey = Normalize(c.Projects[i].Name)
		}
	}
	s.projects = c.Projects
	s.tasks = c.Tasks
}

func (s *Store) addTaskLocked(task models.Task) (TaskResult, error) {
	if err := s.checkTaskLocked(&task); err != nil {
		return TaskResult{}, err
	}
	if task.ID == "" {
		task.ID = s.newID(taskIDPrefix)
	}

	now := s.now()
	if task.Date.IsZero() {
		task.Date = now
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	created := s.ensureProjectLocked(task.ProjectName)
	s.tasks = append(s.tasks, cloneTask(task))
	return TaskResult{Task: cloneTask(task), CreatedProject: created}, nil
}

// checkTaskLocked fills defaults into task and applies the rules AddTask enforces.
func (s *Store) checkTaskLocked(task *models.Task) error {
	applyTaskDefaults(task)
	if err := validateStruct(*task); err != nil {
		return err
	}
	if s.isProjectCompletedLocked(task.ProjectName) {
		return fmt.Errorf("%w: %q", ErrProjectLocked, task.ProjectName)
	}
	if task.ID != "" && s.taskIndexLocked(task.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrTaskExists, task.ID)
	}
	return nil
}

// editableTaskLocked resolves a task id and applies the lock rules shared by edit,
// status change and delete. A project lock is reported ahead of a task lock.
func (s *Store) editableTaskLocked(id string) (int, error) {
	i := s.taskIndexLocked(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: task %q", ErrUnknownTarget, id)
	}
	task := s.tasks[i]
	if s.isProjectCompletedLocked(task.ProjectName) {
		return -1, fmt.Errorf("%w: %q", ErrProjectLocked, task.ProjectName)
	}
	if task.IsCompleted() {
		return -1, fmt.Errorf("%w: %q", ErrTaskLocked, id)
	}
	return i, nil
}

func (s *Store) ensureProjectLocked(name string) *models.Project {
	if s.projectByNameLocked(name) >= 0 {
		return nil
	}
	now := s.now()
	project := models.Project{
		ID:        s.newID(projectIDPrefix),
		Name:      name,
		NameKey:   Normalize(name),
		Status:    models.ProjectStatusActive,
		Health:    DefaultProjectHealth,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.projects = append(s.projects, project)
	return &project
}

func (s *Store) isProjectCompletedLocked(name string) bool {
	i := s.projectByNameLocked(name)
	return i >= 0 && s.projects[i].IsCompleted()
}

func (s *Store) projectByNameLocked(name string) int {
	key := Normalize(name)
	for i, p := range s.projects {
		if p.NameKey == key {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndexLocked(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func applyTaskDefaults(task *models.Task) {
	if task.EmployeeName == "" {
		task.EmployeeName = DefaultEmployeeName
	}
	if task.ProjectName == "" {
		task.ProjectName = DefaultProjectName
	}
	if task.CompletionStatus == "" {
		task.CompletionStatus = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.DefaultTaskPriority
	}
}
