package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workstream-api/internal/models"
)

type fakeCompleter struct {
	reply string
	err   error
	req   openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

func newTestAIService(c *fakeCompleter) *AIService {
	s := NewAIServiceWithClient(c, "")
	s.now = func() time.Time { return testNow }
	return s
}

func TestAIService_DraftTasks(t *testing.T) {
	c := &fakeCompleter{reply: "```json\n" + `[
  {"title": "Ship login page", "description": "finish styling", "project_name": "Atlas", "assignee": "Aniket", "priority": "HIGH", "due_date": "2025-05-09T18:00:00Z"},
  {"title": "  ", "description": "blank title is dropped"},
  {"title": "Backfill report", "priority": "urgent", "due_date": "2024-01-01T00:00:00Z"}
]` + "\n```"}
	s := newTestAIService(c)

	drafts, err := s.DraftTasks(context.Background(), "notes", "Alex Rivera")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, openai.GPT4oMini, c.req.Model)
	assert.Contains(t, c.req.Messages[0].Content, "notes")

	assert.Equal(t, "Ship login page", drafts[0].TaskAssigned)
	assert.Equal(t, "Atlas", drafts[0].ProjectName)
	assert.Equal(t, "Aniket", drafts[0].EmployeeName)
	assert.Equal(t, "High", drafts[0].Priority)
	assert.Equal(t, "Alex Rivera", drafts[0].AssignedBy)
	assert.Equal(t, models.TaskStatusPending, drafts[0].CompletionStatus)
	require.NotNil(t, drafts[0].CompletionDue)

	assert.Equal(t, models.DefaultTaskPriority, drafts[1].Priority)
	assert.Nil(t, drafts[1].CompletionDue, "past deadlines are dropped")
}

func TestAIService_Errors(t *testing.T) {
	var nilService *AIService
	_, err := nilService.DraftTasks(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)

	_, err = newTestAIService(&fakeCompleter{reply: "[]"}).DraftTasks(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)

	many := "["
	for i := 0; i < 11; i++ {
		if i > 0 {
			many += ","
		}
		many += `{"title": "t"}`
	}
	many += "]"
	_, err = newTestAIService(&fakeCompleter{reply: many}).DraftTasks(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrAITooManyTasks)

	upstream := errors.New("rate limited")
	_, err = newTestAIService(&fakeCompleter{err: upstream}).DraftTasks(context.Background(), "x", "")
	assert.ErrorIs(t, err, upstream)

	_, err = newTestAIService(&fakeCompleter{reply: "not json"}).DraftTasks(context.Background(), "x", "")
	assert.Error(t, err)
}
