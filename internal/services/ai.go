package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/workstream-api/internal/constants"
	"github.com/yukikurage/workstream-api/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAITooManyTasks         = errors.New("AI generated too many tasks")
)

// ChatCompleter is the subset of the OpenAI client the service needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client ChatCompleter
	model  string
	now    func() time.Time
}

// GeneratedTask is a task draft extracted from free text.
type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectName string     `json:"project_name"`
	Assignee    string     `json:"assignee"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func NewAIService(apiKey, model string) *AIService {
	return NewAIServiceWithClient(openai.NewClient(apiKey), model)
}

// NewAIServiceWithClient builds the service around an existing client.
func NewAIServiceWithClient(client ChatCompleter, model string) *AIService {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AIService{
		client: client,
		model:  model,
		now:    time.Now,
	}
}

// GenerateTasksFromText analyzes text and extracts task drafts using OpenAI
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	currentTime := s.now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You extract work items for a project dashboard from meeting notes.

Current time: %s

Text:
%s

Return a JSON array of tasks in this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "project_name": "project the task belongs to, or empty if not stated",
    "assignee": "person responsible, or empty if not stated",
    "priority": "Low, Medium or High",
    "due_date": "deadline in ISO8601 (e.g. 2025-10-28T23:59:59Z), or null"
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") to concrete dates
- Return JSON only, without commentary`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// DraftTasks turns free text into task descriptors ready for import. Nothing is stored.
func (s *AIService) DraftTasks(ctx context.Context, text string, assignedBy string) ([]models.Task, error) {
	generated, err := s.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(generated) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("%w (max %d)", ErrAITooManyTasks, constants.MaxAIGeneratedTasks)
	}

	cutoff := s.now().Add(-24 * time.Hour)
	drafts := make([]models.Task, 0, len(generated))
	for _, g := range generated {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			continue
		}

		due := g.DueDate
		if due != nil && due.Before(cutoff) {
			due = nil
		}

		drafts = append(drafts, models.Task{
			EmployeeName:     strings.TrimSpace(g.Assignee),
			ProjectName:      strings.TrimSpace(g.ProjectName),
			TaskAssigned:     title,
			TaskDescription:  strings.TrimSpace(g.Description),
			AssignedBy:       assignedBy,
			CompletionDue:    due,
			CompletionStatus: models.TaskStatusPending,
			Priority:         normalizePriority(g.Priority),
		})
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return drafts, nil
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "low":
		return "Low"
	case "high":
		return "High"
	default:
		return models.DefaultTaskPriority
	}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
