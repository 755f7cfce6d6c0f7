package testutil

import (
	"fmt"

	"github.com/alexanderramin/wisync/internal/domain"
)

// Hierarchy options
type HierarchyOption func(*domain.Hierarchy)

// WithPBI appends a PBI with the given tasks.
func WithPBI(title string, tasks ...domain.PlanTask) HierarchyOption {
	return func(h *domain.Hierarchy) {
		if tasks == nil {
			tasks = []domain.PlanTask{}
		}
		h.PBIs = append(h.PBIs, domain.PlanPBI{
			Title:       title,
			Description: title + " description",
			Tasks:       tasks,
		})
	}
}

// WithoutPBIs produces an empty plan.
func WithoutPBIs() HierarchyOption {
	return func(h *domain.Hierarchy) { h.PBIs = nil }
}

// NewTestHierarchy builds a Feature with two PBIs of two and one tasks
// unless options replace the PBIs.
func NewTestHierarchy(feature string, opts ...HierarchyOption) *domain.Hierarchy {
	h := &domain.Hierarchy{
		Feature: domain.PlanFeature{Title: feature, Description: feature + " description"},
	}
	if len(opts) == 0 {
		opts = []HierarchyOption{
			WithPBI("Login API", Task("Write handler", 2), Task("Add tests", 1)),
			WithPBI("Login UI", Task("Build form", 3)),
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Task builds a plan task. effort <= 0 leaves it unestimated.
func Task(title string, effort int) domain.PlanTask {
	t := domain.PlanTask{Title: title}
	if effort > 0 {
		t.Effort = IntPtr(effort)
	}
	return t
}

// NewTestConfig returns a complete Config pointing at orgURL.
func NewTestConfig(orgURL string) domain.Config {
	return domain.Config{
		OrgURL:        orgURL,
		Project:       "Platform",
		AssignedTo:    "dev@example.com",
		AreaPath:      `Platform\Team`,
		IterationPath: `Platform\Sprint 1`,
	}
}

// NewTestWorkItem returns a remote snapshot with every editable field set.
func NewTestWorkItem(id int, title, state string) *domain.WorkItem {
	return &domain.WorkItem{
		ID:   id,
		Type: domain.TypePBI,
		URL:  fmt.Sprintf("https://dev.azure.com/acme/_apis/wit/workItems/%d", id),
		WorkItemFields: domain.WorkItemFields{
			Title:         title,
			State:         state,
			AssignedTo:    "dev@example.com",
			AreaPath:      `Platform\Team`,
			IterationPath: `Platform\Sprint 1`,
		},
	}
}

func IntPtr(v int) *int { return &v }
