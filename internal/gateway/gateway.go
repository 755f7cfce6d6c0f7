// Package gateway is the single contract workflows use to reach the
// outside world: the plan parser, the work tracker and the settings store.
// Each call is one request/response with no retries at this layer.
package gateway

import (
	"context"

	"github.com/alexanderramin/wisync/internal/domain"
)

// Gateway is the remote surface the workflows depend on.
type Gateway interface {
	// Parse turns free text into a Hierarchy or fails with a parse error.
	// It has no effect on the tracker.
	Parse(ctx context.Context, text string) (*domain.Hierarchy, error)

	// CreateHierarchy realizes h remotely. It is not atomic: a failure
	// after the Feature exists returns a *domain.PartialCreateError whose
	// tree is what now exists remotely.
	CreateHierarchy(ctx context.Context, h *domain.Hierarchy, ov domain.Overrides, epicID *int) (*domain.CreateResult, error)

	CreateSingle(ctx context.Context, req domain.SingleItemRequest) (*domain.CreatedItem, error)
	FetchWorkItem(ctx context.Context, id int) (*domain.WorkItem, error)

	// PatchWorkItem sends only changes, which must be non-empty.
	PatchWorkItem(ctx context.Context, id int, changes domain.FieldChanges) error

	// DeleteWorkItems never fails as a whole. The result has exactly one
	// entry per distinct requested id.
	DeleteWorkItems(ctx context.Context, ids []int) domain.DeleteBatchResult

	ListFeatures(ctx context.Context) ([]domain.Feature, error)
	GetConfig(ctx context.Context) (domain.Config, error)
	SaveConfig(ctx context.Context, cfg domain.Config) error
}

// Parser turns free text into a Hierarchy.
type Parser interface {
	Parse(ctx context.Context, text string) (*domain.Hierarchy, error)
}
