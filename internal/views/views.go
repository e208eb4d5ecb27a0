// Package views computes read-only projections over a workstream snapshot. Nothing here
// is persisted; every projection is recomputed from the snapshot it is given.
package views

import (
	"sort"
	"strings"

	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/workstream"
)

// MaxTags is the number of distinct task titles shown per person.
const MaxTags = 3

// Viewer is the identity a projection is computed for. ID is the directory account id.
type Viewer struct {
	ID      string
	Name    string
	Manager bool
}

// Sees reports whether t is visible to the viewer. Employees see tasks whose owner
// name contains their own; an employee without a name sees nothing.
func (v Viewer) Sees(t models.Task) bool {
	if v.Manager {
		return true
	}
	own := workstream.Normalize(v.Name)
	return own != "" && containsFold(t.EmployeeName, own)
}

// Lead is a person together with their current workload.
type Lead struct {
	models.Person
	Availability int      `json:"availability"`
	Tags         []string `json:"tags"`
}

// ProjectSummary is a project with its derived member count.
type ProjectSummary struct {
	models.Project
	MemberCount int `json:"memberCount"`
}

// isActive reports whether a task counts toward someone's workload.
func isActive(t models.Task, completed map[string]bool) bool {
	return !t.IsCompleted() && !completed[workstream.Normalize(t.ProjectName)]
}

func lead(p models.Person, tasks []models.Task) Lead {
	l := Lead{Person: p, Availability: len(tasks), Tags: []string{}}
	seen := make(map[string]bool)
	for _, t := range tasks {
		if len(l.Tags) == MaxTags {
			break
		}
		if seen[t.TaskAssigned] {
			continue
		}
		seen[t.TaskAssigned] = true
		l.Tags = append(l.Tags, t.TaskAssigned)
	}
	return l
}

// Availability returns every person's active-task count and up to MaxTags titles.
// Task assignees are matched loosely with workstream.NamesMatch. Managers get the whole
// pool, least busy first; anyone else only sees the leads whose name contains theirs.
func Availability(people []models.Person, snap workstream.Snapshot, viewer Viewer) []Lead {
	completed := snap.CompletedProjects()

	leads := make([]Lead, 0, len(people))
	for _, p := range people {
		var active []models.Task
		for _, t := range snap.Tasks {
			if workstream.NamesMatch(t.EmployeeName, p.Name) && isActive(t, completed) {
				active = append(active, t)
			}
		}
		leads = append(leads, lead(p, active))
	}

	if viewer.Manager {
		sort.SliceStable(leads, func(i, j int) bool {
			return leads[i].Availability < leads[j].Availability
		})
		return leads
	}

	own := workstream.Normalize(viewer.Name)
	if own == "" {
		return []Lead{}
	}
	filtered := leads[:0]
	for _, l := range leads {
		if containsFold(l.Name, own) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// ActiveCounts returns each person's active-task count keyed by person id.
func ActiveCounts(people []models.Person, snap workstream.Snapshot) map[string]int {
	out := make(map[string]int, len(people))
	for _, l := range Availability(people, snap, Viewer{Manager: true}) {
		out[l.ID] = l.Availability
	}
	return out
}

// Roster returns the people working on a project, each with the active tasks they hold
// in that project only. Assignees are matched by name equality; names on tasks that are
// not in the directory appear with an empty id and role.
func Roster(projectName string, people []models.Person, snap workstream.Snapshot) []Lead {
	locked := snap.CompletedProjects()[workstream.Normalize(projectName)]

	var order []string
	byName := make(map[string][]models.Task)
	display := make(map[string]string)
	for _, t := range snap.Tasks {
		if !workstream.SameName(t.ProjectName, projectName) {
			continue
		}
		key := workstream.Normalize(t.EmployeeName)
		if _, ok := byName[key]; !ok {
			order = append(order, key)
			byName[key] = nil
			display[key] = t.EmployeeName
		}
		if !t.IsCompleted() && !locked {
			byName[key] = append(byName[key], t)
		}
	}

	roster := make([]Lead, 0, len(order))
	for _, key := range order {
		person := models.Person{Name: display[key]}
		for _, p := range people {
			if workstream.Normalize(p.Name) == key {
				person = p
				break
			}
		}
		roster = append(roster, lead(person, byName[key]))
	}
	return roster
}

// VisibleTasks returns the tasks a viewer may see.
func VisibleTasks(snap workstream.Snapshot, viewer Viewer) []models.Task {
	if viewer.Manager {
		return snap.Tasks
	}
	var out []models.Task
	for _, t := range snap.Tasks {
		if viewer.Sees(t) {
			out = append(out, t)
		}
	}
	return out
}

// VisibleProjects returns the projects a viewer may see, each with its member count.
// Employees only see projects holding at least one of their tasks.
func VisibleProjects(snap workstream.Snapshot, viewer Viewer) []ProjectSummary {
	summaries := ProjectsWithMembers(snap)
	if viewer.Manager {
		return summaries
	}

	mine := make(map[string]bool)
	for _, t := range VisibleTasks(snap, viewer) {
		mine[workstream.Normalize(t.ProjectName)] = true
	}
	out := make([]ProjectSummary, 0, len(summaries))
	for _, s := range summaries {
		if mine[workstream.Normalize(s.Name)] {
			out = append(out, s)
		}
	}
	return out
}

// ProjectsWithMembers attaches the number of distinct assignee names to each project.
func ProjectsWithMembers(snap workstream.Snapshot) []ProjectSummary {
	members := make(map[string]map[string]bool)
	for _, t := range snap.Tasks {
		key := workstream.Normalize(t.ProjectName)
		if members[key] == nil {
			members[key] = make(map[string]bool)
		}
		members[key][workstream.Normalize(t.EmployeeName)] = true
	}

	out := make([]ProjectSummary, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		out = append(out, ProjectSummary{
			Project:     p,
			MemberCount: len(members[workstream.Normalize(p.Name)]),
		})
	}
	return out
}

// History is one person's work split by whether it still counts toward their load.
type History struct {
	Active []models.Task `json:"activeTasks"`
	// Completed holds finished tasks and tasks frozen by a completed project.
	Completed []models.Task `json:"completedTasks"`
}

// PersonHistory returns every task tied to the named person. Assignees are matched the
// same way as in Availability, so the active list agrees with the person's load.
func PersonHistory(name string, snap workstream.Snapshot) History {
	completed := snap.CompletedProjects()
	h := History{Active: []models.Task{}, Completed: []models.Task{}}
	if workstream.Normalize(name) == "" {
		return h
	}
	for _, t := range snap.Tasks {
		if !workstream.NamesMatch(t.EmployeeName, name) {
			continue
		}
		if isActive(t, completed) {
			h.Active = append(h.Active, t)
		} else {
			h.Completed = append(h.Completed, t)
		}
	}
	return h
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(workstream.Normalize(s), lowerSubstr)
}
