package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/wisync/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SettingsRepo persists the single tracker connection Config.
type SettingsRepo interface {
	Get(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}

// JournalRepo records creation runs and the remote items each one left.
type JournalRepo interface {
	CreateRun(ctx context.Context, run *domain.CreateRun) error
	AddItems(ctx context.Context, runID string, items []domain.JournalItem) error
	// ListRuns returns the newest runs first, without items. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]domain.CreateRun, error)
	GetRun(ctx context.Context, id string) (*domain.CreateRun, error)
	// ForgetItems drops journal rows for remote ids that were deleted.
	ForgetItems(ctx context.Context, remoteIDs []int) (int, error)
}
