package domain

import (
	"sort"
	"strings"
)

// CreatedItem identifies an item that exists remotely after a create call.
type CreatedItem struct {
	ID       int          `json:"id"`
	Type     WorkItemType `json:"type"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	WebURL   string       `json:"web_url"`
	ParentID int          `json:"parent_id,omitempty"`
}

// FailedItem is a constituent create call that the remote rejected.
type FailedItem struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// CreatedPBI is a PBI that exists remotely with the outcome of its tasks.
type CreatedPBI struct {
	Item        CreatedItem   `json:"item"`
	Tasks       []CreatedItem `json:"tasks"`
	FailedTasks []FailedItem  `json:"failed_tasks,omitempty"`
}

// FailedPBI is a PBI whose creation failed; its tasks were not attempted.
type FailedPBI struct {
	FailedItem
	SkippedTasks int `json:"skipped_tasks"`
}

// CreateTree records exactly which parts of a hierarchy exist remotely.
type CreateTree struct {
	Feature    *CreatedItem `json:"feature,omitempty"`
	PBIs       []CreatedPBI `json:"pbis"`
	FailedPBIs []FailedPBI  `json:"failed_pbis,omitempty"`
	FeatureErr string       `json:"feature_error,omitempty"`
}

// PBICount is the number of PBIs created.
func (t *CreateTree) PBICount() int { return len(t.PBIs) }

// TaskCount is the number of tasks created.
func (t *CreateTree) TaskCount() int {
	n := 0
	for _, p := range t.PBIs {
		n += len(p.Tasks)
	}
	return n
}

// Complete reports whether every constituent call succeeded.
func (t *CreateTree) Complete() bool {
	if t.Feature == nil || len(t.FailedPBIs) > 0 {
		return false
	}
	for _, p := range t.PBIs {
		if len(p.FailedTasks) > 0 {
			return false
		}
	}
	return true
}

// Failures lists a one-line reason for every failed constituent call.
func (t *CreateTree) Failures() []string {
	var out []string
	if t.FeatureErr != "" {
		out = append(out, "feature: "+t.FeatureErr)
	}
	for _, p := range t.FailedPBIs {
		out = append(out, "pbi "+quote(p.Title)+": "+p.Reason)
	}
	for _, p := range t.PBIs {
		for _, ft := range p.FailedTasks {
			out = append(out, "task "+quote(ft.Title)+": "+ft.Reason)
		}
	}
	return out
}

// CreatedIDs lists every id that exists remotely, tasks before their
// parents. Batch deletes run concurrently and do not keep this order; a
// recycle-bin delete does not depend on it.
func (t *CreateTree) CreatedIDs() []int {
	var ids []int
	for _, p := range t.PBIs {
		for _, task := range p.Tasks {
			ids = append(ids, task.ID)
		}
		ids = append(ids, p.Item.ID)
	}
	if t.Feature != nil {
		ids = append(ids, t.Feature.ID)
	}
	return ids
}

func quote(s string) string { return "\"" + strings.ReplaceAll(s, "\"", "'") + "\"" }

// CreateResult summarizes a fully realized hierarchy.
type CreateResult struct {
	FeatureID  int    `json:"feature_id"`
	FeatureURL string `json:"feature_url"`
	PBICount   int    `json:"pbi_count"`
	TaskCount  int    `json:"task_count"`
}

// SingleItemRequest describes one item to create outside of a hierarchy.
type SingleItemRequest struct {
	Type          WorkItemType
	Title         string
	Description   string
	AssignedTo    string
	AreaPath      string
	IterationPath string
	Effort        *int
	ParentID      *int
}

// Validate runs the client-side checks that must pass before any remote call.
func (r SingleItemRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return Errorf(KindValidation, "create work item", "title is required")
	}
	switch r.Type {
	case TypeFeature, TypePBI, TypeTask:
	default:
		return Errorf(KindValidation, "create work item", "cannot create items of type %q", r.Type)
	}
	if r.Effort != nil {
		if r.Type != TypeTask {
			return Errorf(KindValidation, "create work item", "effort only applies to tasks")
		}
		if *r.Effort <= 0 {
			return Errorf(KindValidation, "create work item", "effort must be a positive number of days, got %d", *r.Effort)
		}
	}
	if r.ParentID != nil && *r.ParentID <= 0 {
		return Errorf(KindValidation, "create work item", "parent id must be a positive integer, got %d", *r.ParentID)
	}
	return nil
}

// DeleteBatchResult maps every requested id to whether its delete succeeded.
// The key set always equals the requested id set.
type DeleteBatchResult struct {
	Outcomes map[int]bool `json:"outcomes"`
}

// NewDeleteBatchResult seeds every id as failed.
func NewDeleteBatchResult(ids []int) DeleteBatchResult {
	out := DeleteBatchResult{Outcomes: make(map[int]bool, len(ids))}
	for _, id := range ids {
		out.Outcomes[id] = false
	}
	return out
}

// Succeeded returns the deleted ids in ascending order.
func (r DeleteBatchResult) Succeeded() []int { return r.filter(true) }

// Failed returns the ids whose delete failed, in ascending order.
func (r DeleteBatchResult) Failed() []int { return r.filter(false) }

func (r DeleteBatchResult) filter(want bool) []int {
	ids := make([]int, 0, len(r.Outcomes))
	for id, ok := range r.Outcomes {
		if ok == want {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// SucceededCount is derived from Outcomes.
func (r DeleteBatchResult) SucceededCount() int { return len(r.Succeeded()) }

// FailedCount is derived from Outcomes.
func (r DeleteBatchResult) FailedCount() int { return len(r.Failed()) }

// AllSucceeded reports whether every requested delete succeeded.
func (r DeleteBatchResult) AllSucceeded() bool {
	return len(r.Outcomes) > 0 && r.FailedCount() == 0
}
