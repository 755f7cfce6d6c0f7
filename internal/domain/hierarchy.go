package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Hierarchy is a parsed plan: one Feature owning ordered PBIs, each owning
// ordered Tasks. It is consumed once by hierarchy creation and never edited.
type Hierarchy struct {
	Feature PlanFeature `json:"feature" yaml:"feature"`
	PBIs    []PlanPBI   `json:"pbis" yaml:"pbis"`
}

type PlanFeature struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type PlanPBI struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Tasks       []PlanTask `json:"tasks" yaml:"tasks"`
}

// PlanTask is a leaf task. Effort is in whole days; nil means unestimated.
type PlanTask struct {
	Title  string `json:"title" yaml:"title"`
	Effort *int   `json:"effort,omitempty" yaml:"effort,omitempty"`
}

// IsEmpty reports whether the plan has no PBIs.
func (h *Hierarchy) IsEmpty() bool {
	return h == nil || len(h.PBIs) == 0
}

// TaskCount is the total number of tasks across all PBIs.
func (h *Hierarchy) TaskCount() int {
	if h == nil {
		return 0
	}
	n := 0
	for _, p := range h.PBIs {
		n += len(p.Tasks)
	}
	return n
}

// ValidateEffort rejects zero or negative effort. Absent effort is valid.
func (t PlanTask) ValidateEffort() error {
	if t.Effort != nil && *t.Effort <= 0 {
		return fmt.Errorf("effort must be a positive number of days, got %d", *t.Effort)
	}
	return nil
}

// Validate checks structural validity and reports every problem found.
// A hierarchy with zero PBIs is valid.
func (h *Hierarchy) Validate() error {
	if h == nil {
		return Errorf(KindValidation, "validate hierarchy", "hierarchy is nil")
	}
	var errs []error
	if strings.TrimSpace(h.Feature.Title) == "" {
		errs = append(errs, errors.New("feature.title is required"))
	}
	for i, p := range h.PBIs {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("pbis[%d].title is required", i))
		}
		for j, t := range p.Tasks {
			if strings.TrimSpace(t.Title) == "" {
				errs = append(errs, fmt.Errorf("pbis[%d].tasks[%d].title is required", i, j))
			}
			if err := t.ValidateEffort(); err != nil {
				errs = append(errs, fmt.Errorf("pbis[%d].tasks[%d]: %w", i, j, err))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return NewError(KindValidation, "validate hierarchy", errors.Join(errs...))
}
