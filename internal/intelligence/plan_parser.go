package intelligence

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/llm"
)

// PlanParser turns free-form plan text into a Hierarchy.
type PlanParser interface {
	Parse(ctx context.Context, text string) (*domain.Hierarchy, error)
}

type planParser struct {
	client llm.LLMClient
}

// NewPlanParser creates a PlanParser backed by an LLM client.
func NewPlanParser(client llm.LLMClient) PlanParser {
	return &planParser{client: client}
}

const parseOp = "parse plan"

func (p *planParser) Parse(ctx context.Context, text string) (*domain.Hierarchy, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Errorf(domain.KindParse, parseOp, "plan text is empty")
	}

	resp, err := p.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskParsePlan,
		SystemPrompt: planSystemPrompt,
		UserPrompt:   planUserPrompt(text),
	})
	if err != nil {
		return nil, &domain.Error{
			Kind:    domain.KindParse,
			Op:      parseOp,
			Message: upstreamMessage(err),
			Err:     err,
		}
	}

	h, err := llm.ExtractJSON(resp.Text, validateHierarchy)
	if err != nil {
		return nil, &domain.Error{
			Kind:    domain.KindParse,
			Op:      parseOp,
			Message: "could not read a plan from the model response: " + err.Error(),
			Err:     err,
		}
	}

	TidyHierarchy(&h)
	return &h, nil
}

// validateHierarchy rejects plans the preview stage cannot accept.
func validateHierarchy(h domain.Hierarchy) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if h.IsEmpty() {
		return errors.New("plan has no backlog items")
	}
	return nil
}

// TidyHierarchy trims whitespace from every title and description.
func TidyHierarchy(h *domain.Hierarchy) {
	h.Feature.Title = strings.TrimSpace(h.Feature.Title)
	h.Feature.Description = strings.TrimSpace(h.Feature.Description)
	for i := range h.PBIs {
		pbi := &h.PBIs[i]
		pbi.Title = strings.TrimSpace(pbi.Title)
		pbi.Description = strings.TrimSpace(pbi.Description)
		for j := range pbi.Tasks {
			pbi.Tasks[j].Title = strings.TrimSpace(pbi.Tasks[j].Title)
		}
	}
}

func upstreamMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return "the plan parser timed out"
	case errors.Is(err, llm.ErrUnavailable):
		return "the plan parser is unreachable"
	case errors.Is(err, llm.ErrNotConfigured):
		return "the plan parser is not configured: " + err.Error()
	}
	return "the plan parser failed: " + err.Error()
}
