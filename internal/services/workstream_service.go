package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/workstream-api/internal/balancer"
	"github.com/yukikurage/workstream-api/internal/constants"
	"github.com/yukikurage/workstream-api/internal/directory"
	"github.com/yukikurage/workstream-api/internal/importer"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/repository"
	"github.com/yukikurage/workstream-api/internal/utils"
	"github.com/yukikurage/workstream-api/internal/views"
	"github.com/yukikurage/workstream-api/internal/workstream"
)

var (
	ErrTooManyImportRows = errors.New("too many import rows")
	ErrEmptyImport       = errors.New("import contains no rows")
	ErrPersistFailed     = errors.New("failed to persist workstream changes")
	ErrAccessDenied      = errors.New("access denied")
)

// WorkstreamService serializes every mutation of the workstream: the store is changed
// and the resulting changeset is written before the next mutation starts. When a write
// fails the store is reloaded from the database so memory never runs ahead of it.
type WorkstreamService struct {
	mu       sync.Mutex
	store    *workstream.Store
	repo     repository.WorkstreamRepository
	dir      *directory.Directory
	balancer balancer.Options
	now      func() time.Time
	noticeID func() string
}

// NewWorkstreamService loads the persisted workstream and returns a ready service.
func NewWorkstreamService(repo repository.WorkstreamRepository, dir *directory.Directory, opts balancer.Options, storeOpts ...workstream.Option) (*WorkstreamService, error) {
	s := &WorkstreamService{
		store:    workstream.NewStore(workstream.Snapshot{}, storeOpts...),
		repo:     repo,
		dir:      dir,
		balancer: opts,
		now:      time.Now,
		noticeID: newNoticeID,
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func newNoticeID() string {
	return "NTF-" + uuid.NewString()
}

func (s *WorkstreamService) reload() error {
	projects, err := s.repo.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	tasks, err := s.repo.ListTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	s.store.Replace(workstream.Snapshot{Projects: projects, Tasks: tasks})
	return nil
}

// persist writes cs. Callers hold s.mu.
func (s *WorkstreamService) persist(cs repository.Changeset) error {
	err := s.repo.Apply(cs)
	if err == nil {
		return nil
	}

	log.Printf("Failed to persist workstream changes, reloading from database: %v", err)
	if reloadErr := s.reload(); reloadErr != nil {
		log.Printf("Failed to reload workstream: %v", reloadErr)
	}
	return fmt.Errorf("%w: %v", ErrPersistFailed, err)
}

// Snapshot returns a copy of the current workstream.
func (s *WorkstreamService) Snapshot() workstream.Snapshot {
	return s.store.Snapshot()
}

// People returns the personnel pool.
func (s *WorkstreamService) People() []models.Person {
	return s.dir.People()
}

// Project returns a project by id.
func (s *WorkstreamService) Project(id string) (models.Project, error) {
	p, ok := s.store.Project(id)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: project %q", workstream.ErrUnknownTarget, id)
	}
	return p, nil
}

// Task returns a task by id.
func (s *WorkstreamService) Task(id string) (models.Task, error) {
	t, ok := s.store.Task(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: task %q", workstream.ErrUnknownTarget, id)
	}
	return t, nil
}

// Leads returns the availability projection for viewer.
func (s *WorkstreamService) Leads(viewer views.Viewer) []views.Lead {
	return views.Availability(s.dir.People(), s.store.Snapshot(), viewer)
}

// Projects returns the projects visible to viewer, ordered by status priority.
func (s *WorkstreamService) Projects(viewer views.Viewer, status models.ProjectStatus) []views.ProjectSummary {
	return views.SortByStatusPriority(views.VisibleProjects(s.store.Snapshot(), viewer), status)
}

// Tasks returns one page of the tasks visible to viewer and the total count.
func (s *WorkstreamService) Tasks(viewer views.Viewer, params utils.PaginationParams) ([]models.Task, int) {
	tasks := views.VisibleTasks(s.store.Snapshot(), viewer)
	start, end := params.Window(len(tasks))
	return tasks[start:end], len(tasks)
}

// Roster returns the members of a project.
func (s *WorkstreamService) Roster(projectID string) (models.Project, []views.Lead, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return models.Project{}, nil, err
	}
	return p, views.Roster(p.Name, s.dir.People(), s.store.Snapshot()), nil
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name   string
	Status models.ProjectStatus
	Health *int
}

// CreateProject creates a project explicitly.
func (s *WorkstreamService) CreateProject(input CreateProjectInput) (models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Project{}, fmt.Errorf("%w: project name is required", workstream.ErrInvalidInput)
	}
	project := models.Project{Name: name, Status: input.Status, Health: workstream.DefaultProjectHealth}
	if input.Health != nil {
		if *input.Health < 0 || *input.Health > 100 {
			return models.Project{}, fmt.Errorf("%w: health must be between 0 and 100", workstream.ErrInvalidInput)
		}
		project.Health = *input.Health
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.AddProject(project)
	if err != nil {
		return models.Project{}, err
	}
	if err := s.persist(repository.Changeset{Projects: []models.Project{created}}); err != nil {
		return models.Project{}, err
	}
	return created, nil
}

// UpdateProjectStatus overwrites a project's status.
func (s *WorkstreamService) UpdateProjectStatus(id string, status models.ProjectStatus) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.UpdateProjectStatus(id, status)
	if err != nil {
		return models.Project{}, err
	}
	if err := s.persist(repository.Changeset{Projects: []models.Project{p}}); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// UpdateProjectHealth sets a project's health gauge.
func (s *WorkstreamService) UpdateProjectHealth(id string, health int) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.UpdateProjectHealth(id, health)
	if err != nil {
		return models.Project{}, err
	}
	if err := s.persist(repository.Changeset{Projects: []models.Project{p}}); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// CreateTask adds a task, creating its project on first use.
func (s *WorkstreamService) CreateTask(task models.Task) (workstream.TaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.AddTask(task)
	if err != nil {
		return workstream.TaskResult{}, err
	}
	if err := s.persist(taskChangeset(res)); err != nil {
		return workstream.TaskResult{}, err
	}
	return res, nil
}

// UpdateTask replaces a task.
func (s *WorkstreamService) UpdateTask(task models.Task) (workstream.TaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.UpdateTask(task)
	if err != nil {
		return workstream.TaskResult{}, err
	}
	if err := s.persist(taskChangeset(res)); err != nil {
		return workstream.TaskResult{}, err
	}
	return res, nil
}

// UpdateTaskStatus changes a task's completion status.
func (s *WorkstreamService) UpdateTaskStatus(id string, status models.TaskStatus) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.UpdateTaskStatus(id, status)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.persist(repository.Changeset{Tasks: []models.Task{task}}); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ReopenTask reverts a completed task to an open status.
func (s *WorkstreamService) ReopenTask(id string, status models.TaskStatus) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.ReopenTask(id, status)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.persist(repository.Changeset{Tasks: []models.Task{task}}); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *WorkstreamService) DeleteTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.DeleteTask(id)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.persist(repository.Changeset{DeletedTaskIDs: []string{task.ID}}); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Offboard removes a person's open tasks from a project.
func (s *WorkstreamService) Offboard(personName, projectName string) (workstream.OffboardResult, error) {
	if strings.TrimSpace(personName) == "" {
		return workstream.OffboardResult{}, fmt.Errorf("%w: person name is required", workstream.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.OffboardMember(personName, projectName)
	if err != nil {
		return workstream.OffboardResult{}, err
	}
	if err := s.persist(repository.Changeset{DeletedTaskIDs: taskIDs(res.Removed)}); err != nil {
		return workstream.OffboardResult{}, err
	}
	return res, nil
}

// ClearActiveTasks removes every task outside completed projects.
func (s *WorkstreamService) ClearActiveTasks() (workstream.ClearResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.store.ClearActiveTasks()
	if err := s.persist(repository.Changeset{DeletedTaskIDs: taskIDs(res.Removed)}); err != nil {
		return workstream.ClearResult{}, err
	}
	return res, nil
}

// RecentAssignments returns the assignment log, newest first.
func (s *WorkstreamService) RecentAssignments(params utils.PaginationParams) ([]models.TaskAssignment, int64, error) {
	if params.Offset+params.Limit > constants.MaxAssignmentLogEntries {
		params.Limit = constants.MaxAssignmentLogEntries - params.Offset
		if params.Limit <= 0 {
			return []models.TaskAssignment{}, 0, nil
		}
	}
	rows, total, err := s.repo.ListAssignments(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	if total > constants.MaxAssignmentLogEntries {
		total = constants.MaxAssignmentLogEntries
	}
	return rows, total, nil
}

// ImportInput describes one bulk import.
type ImportInput struct {
	// Rows are raw spreadsheet rows; Tasks are already-mapped descriptors. Both may be
	// given; rows are appended after tasks.
	Rows  []importer.Row
	Tasks []models.Task
	// AutoAssign hands descriptors without an owner to the least-loaded person.
	AutoAssign bool
	AssignedBy string
}

// RowRejection explains why one descriptor was not imported.
type RowRejection struct {
	Row     int                `json:"row"`
	Title   string             `json:"title"`
	Project string             `json:"project"`
	Outcome workstream.Outcome `json:"outcome"`
	Reason  string             `json:"reason"`
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Imported        []models.Task
	CreatedProjects []models.Project
	Rejected        []RowRejection
	Assignments     []models.TaskAssignment
	// Unassigned lists rows auto-assignment could not place; they are stored unowned.
	Unassigned []int
}

// ImportPreview is what an import would do, computed without writing anything.
type ImportPreview struct {
	// Tasks are the descriptors that would be stored, defaults and tentative owners
	// applied. Ids are minted only on import.
	Tasks       []models.Task
	NewProjects []string
	Rejected    []RowRejection
	// Assignments are the balancer's tentative decisions; their TaskID is empty.
	Assignments []models.TaskAssignment
	Unassigned  []int
}

// importPlan is the batch after mapping, screening and balancing.
type importPlan struct {
	descriptors []models.Task
	// screened holds the error the store would reject each descriptor with.
	screened   []error
	assignees  map[int]models.Person
	unassigned []int
}

func checkImportSize(input ImportInput) error {
	total := len(input.Rows) + len(input.Tasks)
	if total == 0 {
		return ErrEmptyImport
	}
	if total > constants.MaxImportRows {
		return fmt.Errorf("%w (max %d)", ErrTooManyImportRows, constants.MaxImportRows)
	}
	return nil
}

// plan maps the batch, screens every descriptor against the store and, when asked,
// balances the survivors without an owner. Callers hold s.mu.
func (s *WorkstreamService) plan(input ImportInput, now time.Time) importPlan {
	descriptors := make([]models.Task, 0, len(input.Rows)+len(input.Tasks))
	descriptors = append(descriptors, input.Tasks...)
	descriptors = append(descriptors, importer.MapRows(input.Rows, now)...)

	p := importPlan{
		descriptors: descriptors,
		screened:    s.screen(descriptors),
		assignees:   map[int]models.Person{},
	}
	if !input.AutoAssign {
		return p
	}

	p.assignees, p.unassigned = s.balance(descriptors, p.screened)
	for i, person := range p.assignees {
		descriptors[i].EmployeeName = person.Name
		descriptors[i].EmployeeID = person.ID
		descriptors[i].Role = person.Role
		if input.AssignedBy != "" {
			descriptors[i].AssignedBy = input.AssignedBy
		}
	}
	return p
}

// screen returns, per descriptor, the error the store would reject it with. An id that
// repeats within the batch is rejected after its first accepted use.
func (s *WorkstreamService) screen(descriptors []models.Task) []error {
	errs := make([]error, len(descriptors))
	seen := make(map[string]bool)
	for i, d := range descriptors {
		if _, err := s.store.CheckTask(d); err != nil {
			errs[i] = err
			continue
		}
		if d.ID == "" {
			continue
		}
		if seen[d.ID] {
			errs[i] = fmt.Errorf("%w: %q", workstream.ErrTaskExists, d.ID)
			continue
		}
		seen[d.ID] = true
	}
	return errs
}

func rejectionFor(row int, task models.Task, err error) RowRejection {
	return RowRejection{
		Row:     row,
		Title:   task.TaskAssigned,
		Project: task.ProjectName,
		Outcome: workstream.OutcomeOf(err),
		Reason:  workstream.Reason(err),
	}
}

// PreviewImport reports what Import would do with input. Nothing is stored, no
// project is created and no notification is sent.
func (s *WorkstreamService) PreviewImport(input ImportInput) (ImportPreview, error) {
	if err := checkImportSize(input); err != nil {
		return ImportPreview{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := s.plan(input, now)
	preview := ImportPreview{
		Tasks:      []models.Task{},
		Unassigned: p.unassigned,
	}

	newProjects := make(map[string]bool)
	for i, d := range p.descriptors {
		if err := p.screened[i]; err != nil {
			preview.Rejected = append(preview.Rejected, rejectionFor(i, d, fmt.Errorf("%w: row %d: %w", workstream.ErrImportRowRejected, i, err)))
			continue
		}
		task, err := s.store.CheckTask(d)
		if err != nil {
			preview.Rejected = append(preview.Rejected, rejectionFor(i, d, fmt.Errorf("%w: row %d: %w", workstream.ErrImportRowRejected, i, err)))
			continue
		}
		preview.Tasks = append(preview.Tasks, task)

		key := workstream.Normalize(task.ProjectName)
		if _, exists := s.store.ProjectByName(task.ProjectName); !exists && !newProjects[key] {
			newProjects[key] = true
			preview.NewProjects = append(preview.NewProjects, task.ProjectName)
		}
		if person, ok := p.assignees[i]; ok {
			preview.Assignments = append(preview.Assignments, assignmentFor(task, person, input.AssignedBy, now))
		}
	}
	return preview, nil
}

// Import maps, optionally balances, and stores a batch of task descriptors. Rows aimed
// at completed projects are skipped and reported; the rest of the batch proceeds.
// Every auto-assignment notifies its assignee.
func (s *WorkstreamService) Import(input ImportInput) (ImportReport, error) {
	if err := checkImportSize(input); err != nil {
		return ImportReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := s.plan(input, now)
	report := ImportReport{Unassigned: p.unassigned}

	res := s.store.BulkImport(p.descriptors)
	report.Imported = res.Imported
	report.CreatedProjects = res.CreatedProjects

	rejected := make(map[int]bool, len(res.Rejected))
	for _, r := range res.Rejected {
		rejected[r.Index] = true
		report.Rejected = append(report.Rejected, rejectionFor(r.Index, r.Task, r.Err))
	}

	var notifications []models.Notification
	next := 0
	for i := range p.descriptors {
		if rejected[i] {
			continue
		}
		task := res.Imported[next]
		next++
		if person, ok := p.assignees[i]; ok {
			a := assignmentFor(task, person, input.AssignedBy, now)
			report.Assignments = append(report.Assignments, a)
			notifications = append(notifications, s.notificationFor(a))
		}
	}

	err := s.persist(repository.Changeset{
		Projects:      res.CreatedProjects,
		Tasks:         res.Imported,
		Assignments:   report.Assignments,
		Notifications: notifications,
	})
	if err != nil {
		return ImportReport{}, err
	}
	return report, nil
}

// balance runs the assignment balancer over descriptors without an owner. Descriptors
// the store will reject are left alone so they do not consume capacity. Callers hold
// s.mu.
func (s *WorkstreamService) balance(descriptors []models.Task, screened []error) (map[int]models.Person, []int) {
	var (
		indices  []int
		requests []balancer.Request
	)
	for i, d := range descriptors {
		if screened[i] != nil || !unowned(d) {
			continue
		}
		indices = append(indices, i)
		requests = append(requests, balancer.Request{
			Title:       d.TaskAssigned,
			Description: d.TaskDescription,
			ProjectName: d.ProjectName,
			Priority:    d.Priority,
			DueDate:     d.CompletionDue,
		})
	}
	if len(requests) == 0 {
		return map[int]models.Person{}, nil
	}

	people := s.dir.People()
	counts := views.ActiveCounts(people, s.store.Snapshot())
	pool := make([]balancer.Candidate, len(people))
	for i, p := range people {
		pool[i] = balancer.Candidate{Person: p, Load: s.balancer.LoadForActiveTasks(counts[p.ID])}
	}

	assigned := make(map[int]models.Person)
	var unassigned []int
	for _, d := range balancer.New(pool, s.balancer).Assign(requests) {
		row := indices[d.Index]
		if d.Assignee == nil {
			unassigned = append(unassigned, row)
			continue
		}
		assigned[row] = *d.Assignee
	}
	return assigned, unassigned
}

// notificationFor tells the assignee of a about their new task.
func (s *WorkstreamService) notificationFor(a models.TaskAssignment) models.Notification {
	message := fmt.Sprintf("You were assigned the '%s' task.", a.TaskName)
	if a.AssignedBy != "" {
		message = fmt.Sprintf("%s selected you to do '%s' task.", a.AssignedBy, a.TaskName)
	}
	return models.Notification{
		ID:           s.noticeID(),
		EmployeeID:   a.AssignedToID,
		EmployeeName: a.AssignedTo,
		TaskID:       a.TaskID,
		TaskName:     a.TaskName,
		ProjectName:  a.ProjectName,
		AssignedBy:   a.AssignedBy,
		Message:      message,
		CreatedAt:    a.AssignedAt,
	}
}

// PersonHistory is one person's work and the assignments handed to them.
type PersonHistory struct {
	Person models.Person
	views.History
	Assignments []models.TaskAssignment
}

// History returns the active and completed work of the person with the given id.
// Employees may only read their own history.
func (s *WorkstreamService) History(viewer views.Viewer, personID string) (PersonHistory, error) {
	if !viewer.Manager && viewer.ID != personID {
		return PersonHistory{}, fmt.Errorf("%w: history of %q", ErrAccessDenied, personID)
	}

	var (
		person models.Person
		found  bool
	)
	for _, p := range s.dir.People() {
		if p.ID == personID {
			person, found = p, true
			break
		}
	}
	if !found {
		return PersonHistory{}, fmt.Errorf("%w: person %q", workstream.ErrUnknownTarget, personID)
	}

	assignments, err := s.repo.ListAssignmentsFor(person.ID, constants.MaxAssignmentLogEntries)
	if err != nil {
		return PersonHistory{}, fmt.Errorf("failed to list assignments: %w", err)
	}
	if assignments == nil {
		assignments = []models.TaskAssignment{}
	}

	return PersonHistory{
		Person:      person,
		History:     views.PersonHistory(person.Name, s.store.Snapshot()),
		Assignments: assignments,
	}, nil
}

func unowned(t models.Task) bool {
	name := strings.TrimSpace(t.EmployeeName)
	return name == "" || strings.EqualFold(name, importer.DefaultEmployeeName)
}

func assignmentFor(task models.Task, p models.Person, assignedBy string, at time.Time) models.TaskAssignment {
	if assignedBy == "" {
		assignedBy = task.AssignedBy
	}
	return models.TaskAssignment{
		TaskID:       task.ID,
		TaskName:     task.TaskAssigned,
		ProjectName:  task.ProjectName,
		AssignedTo:   p.Name,
		AssignedToID: p.ID,
		AssignedBy:   assignedBy,
		Priority:     task.Priority,
		DueDate:      task.CompletionDue,
		Source:       models.AssignmentSourceImport,
		AssignedAt:   at,
	}
}

func taskChangeset(res workstream.TaskResult) repository.Changeset {
	cs := repository.Changeset{Tasks: []models.Task{res.Task}}
	if res.CreatedProject != nil {
		cs.Projects = []models.Project{*res.CreatedProject}
	}
	return cs
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
