package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLLMClient returns a fixed response for testing.
type mockLLMClient struct {
	response string
	err      error
	calls    int
	lastReq  llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "test-model"}, nil
}

const loginPlan = `{
  "feature": {"title": "  Login revamp ", "description": "Rebuild sign-in."},
  "pbis": [
    {"title": "Phase 1: Form", "description": "New form.", "tasks": [
      {"title": "Markup", "effort": 2},
      {"title": "Validation"}
    ]},
    {"title": "Phase 2: SSO", "tasks": [{"title": "OIDC", "effort": 5}]}
  ]
}`

func TestPlanParser_Parse_Success(t *testing.T) {
	client := &mockLLMClient{response: loginPlan}
	parser := NewPlanParser(client)

	h, err := parser.Parse(context.Background(), "login: form then sso")
	require.NoError(t, err)

	assert.Equal(t, "Login revamp", h.Feature.Title)
	require.Len(t, h.PBIs, 2)
	assert.Equal(t, "Phase 1: Form", h.PBIs[0].Title)
	require.Len(t, h.PBIs[0].Tasks, 2)
	require.NotNil(t, h.PBIs[0].Tasks[0].Effort)
	assert.Equal(t, 2, *h.PBIs[0].Tasks[0].Effort)
	assert.Nil(t, h.PBIs[0].Tasks[1].Effort)
	assert.Equal(t, 3, h.TaskCount())

	assert.Equal(t, llm.TaskParsePlan, client.lastReq.Task)
	assert.Contains(t, client.lastReq.SystemPrompt, "Every PBI must have at least one Task")
	assert.Contains(t, client.lastReq.UserPrompt, "login: form then sso")
}

func TestPlanParser_Parse_FencedResponse(t *testing.T) {
	client := &mockLLMClient{response: "Sure!\n```json\n" + loginPlan + "\n```"}

	h, err := NewPlanParser(client).Parse(context.Background(), "plan")
	require.NoError(t, err)
	assert.Len(t, h.PBIs, 2)
}

func TestPlanParser_Parse_EmptyTextSkipsLLM(t *testing.T) {
	client := &mockLLMClient{response: loginPlan}

	_, err := NewPlanParser(client).Parse(context.Background(), "  \n ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, 0, client.calls)
}

func TestPlanParser_Parse_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		contains string
	}{
		{name: "prose only", response: "I cannot help with that.", contains: "no JSON object"},
		{name: "no pbis", response: `{"feature":{"title":"F"},"pbis":[]}`, contains: "no backlog items"},
		{name: "missing feature title", response: `{"feature":{"title":""},"pbis":[{"title":"P"}]}`, contains: "feature.title is required"},
		{name: "zero effort", response: `{"feature":{"title":"F"},"pbis":[{"title":"P","tasks":[{"title":"T","effort":0}]}]}`, contains: "effort must be"},
		{name: "timeout", err: llm.ErrTimeout, contains: "timed out"},
		{name: "unreachable", err: llm.ErrUnavailable, contains: "unreachable"},
		{name: "other upstream", err: errors.New("boom"), contains: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockLLMClient{response: tt.response, err: tt.err}
			h, err := NewPlanParser(client).Parse(context.Background(), "some plan")

			assert.Nil(t, h)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)
			assert.Equal(t, domain.KindParse, domain.KindOf(err))
			assert.Contains(t, err.Error(), tt.contains)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestTidyHierarchy(t *testing.T) {
	h := domain.Hierarchy{
		Feature: domain.PlanFeature{Title: " F ", Description: "\td\n"},
		PBIs: []domain.PlanPBI{
			{Title: " P ", Tasks: []domain.PlanTask{{Title: " T "}}},
		},
	}
	TidyHierarchy(&h)
	assert.Equal(t, "F", h.Feature.Title)
	assert.Equal(t, "d", h.Feature.Description)
	assert.Equal(t, "P", h.PBIs[0].Title)
	assert.Equal(t, "T", h.PBIs[0].Tasks[0].Title)
}
