package workstream

import "github.com/yukikurage/workstream-api/internal/models"

// Snapshot is a point-in-time copy of the store's collections. Tasks keep insertion
// order.
type Snapshot struct {
	Projects []models.Project
	Tasks    []models.Task
}

// Clone returns a copy that shares no mutable state with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Projects: make([]models.Project, len(s.Projects)),
		Tasks:    make([]models.Task, len(s.Tasks)),
	}
	copy(out.Projects, s.Projects)
	for i, t := range s.Tasks {
		out.Tasks[i] = cloneTask(t)
	}
	return out
}

// ProjectByName finds a project by normalized name.
func (s Snapshot) ProjectByName(name string) (models.Project, bool) {
	key := Normalize(name)
	for _, p := range s.Projects {
		if Normalize(p.Name) == key {
			return p, true
		}
	}
	return models.Project{}, false
}

// CompletedProjects returns the normalized names of every completed project.
func (s Snapshot) CompletedProjects() map[string]bool {
	out := make(map[string]bool)
	for _, p := range s.Projects {
		if p.IsCompleted() {
			out[Normalize(p.Name)] = true
		}
	}
	return out
}

func cloneTask(t models.Task) models.Task {
	if t.CompletionDue != nil {
		due := *t.CompletionDue
		t.CompletionDue = &due
	}
	return t
}
