package dto

import (
	"time"

	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/views"
	"github.com/yukikurage/workstream-api/internal/workstream"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Status      models.ProjectStatus `json:"status"`
	Health      int                  `json:"health"`
	MemberCount int                  `json:"memberCount"`
	Locked      bool                 `json:"locked"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// LeadDTO represents a person and their workload
type LeadDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Availability int      `json:"availability"`
	Tags         []string `json:"tags"`
}

// RosterResponse lists the members working on a project
type RosterResponse struct {
	Project ProjectDTO `json:"project"`
	Members []LeadDTO  `json:"members"`
}

// OffboardResponse reports the outcome of removing a member from a project
type OffboardResponse struct {
	Message   string   `json:"message"`
	Removed   int      `json:"removed"`
	Preserved int      `json:"preserved"`
	TaskIDs   []string `json:"taskIds"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(p models.Project, memberCount int) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Status:      p.Status,
		Health:      p.Health,
		MemberCount: memberCount,
		Locked:      p.IsCompleted(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProjectDTOs converts project summaries
func ToProjectDTOs(summaries []views.ProjectSummary) []ProjectDTO {
	out := make([]ProjectDTO, len(summaries))
	for i, s := range summaries {
		out[i] = ToProjectDTO(s.Project, s.MemberCount)
	}
	return out
}

// ToLeadDTO converts a lead projection
func ToLeadDTO(l views.Lead) LeadDTO {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	return LeadDTO{
		ID:           l.ID,
		Name:         l.Name,
		Role:         l.Role,
		Availability: l.Availability,
		Tags:         tags,
	}
}

// ToLeadDTOs converts lead projections
func ToLeadDTOs(leads []views.Lead) []LeadDTO {
	out := make([]LeadDTO, len(leads))
	for i, l := range leads {
		out[i] = ToLeadDTO(l)
	}
	return out
}

// ToRosterResponse builds the roster payload for a project
func ToRosterResponse(p models.Project, members []views.Lead) RosterResponse {
	return RosterResponse{
		Project: ToProjectDTO(p, len(members)),
		Members: ToLeadDTOs(members),
	}
}

// ToOffboardResponse converts an offboarding result
func ToOffboardResponse(res workstream.OffboardResult) OffboardResponse {
	ids := make([]string, len(res.Removed))
	for i, t := range res.Removed {
		ids[i] = t.ID
	}
	return OffboardResponse{
		Message:   res.Message(),
		Removed:   res.RemovedCount(),
		Preserved: res.Preserved,
		TaskIDs:   ids,
	}
}
