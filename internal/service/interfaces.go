package service

import (
	"context"

	"github.com/alexanderramin/wisync/internal/domain"
)

// SettingsService reads and writes the persisted tracker Config.
type SettingsService interface {
	Get(ctx context.Context) (domain.Config, error)
	// Save normalizes and validates cfg before persisting it. The saved
	// value is returned.
	Save(ctx context.Context, cfg domain.Config) (domain.Config, error)
}

// HistoryService keeps the local creation journal.
type HistoryService interface {
	RecordHierarchy(ctx context.Context, title string, epicID *int, tree *domain.CreateTree, createErr error) (*domain.CreateRun, error)
	RecordSingle(ctx context.Context, req domain.SingleItemRequest, item *domain.CreatedItem, createErr error) (*domain.CreateRun, error)
	List(ctx context.Context, limit int) ([]domain.CreateRun, error)
	// Get resolves a full run id or a unique prefix of one.
	Get(ctx context.Context, id string) (*domain.CreateRun, error)
	Forget(ctx context.Context, remoteIDs []int) (int, error)
}

// TokenCache is a credential cache that must be dropped when the tracker
// connection settings change.
type TokenCache interface {
	Configure(authHelperPath string)
	Clear()
}
