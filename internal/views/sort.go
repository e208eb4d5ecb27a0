package views

import (
	"sort"

	"github.com/yukikurage/workstream-api/internal/models"
)

var statusPriority = map[models.ProjectStatus]int{
	models.ProjectStatusActive:           0,
	models.ProjectStatusUnderMaintenance: 1,
	models.ProjectStatusReview:           2,
	models.ProjectStatusDelayed:          3,
	models.ProjectStatusPending:          4,
	models.ProjectStatusCompleted:        5,
}

const unknownStatusPriority = 99

// StatusPriority returns the sort rank of a project status. Unknown statuses rank last.
func StatusPriority(s models.ProjectStatus) int {
	if p, ok := statusPriority[s]; ok {
		return p
	}
	return unknownStatusPriority
}

// SortByStatusPriority orders projects by status rank, keeping the input order among
// equal ranks. When filter is non-empty only projects with that status are returned.
func SortByStatusPriority(projects []ProjectSummary, filter models.ProjectStatus) []ProjectSummary {
	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		if filter != "" && p.Status != filter {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return StatusPriority(out[i].Status) < StatusPriority(out[j].Status)
	})
	return out
}
