package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wisync/internal/db"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/repository"
	"github.com/google/uuid"
)

// minPrefix is the shortest run id prefix Get will try to resolve.
const minPrefix = 4

type historyService struct {
	journal  repository.JournalRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewHistoryService(journal repository.JournalRepo, uow db.UnitOfWork, observers ...UseCaseObserver) HistoryService {
	return &historyService{
		journal:  journal,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *historyService) RecordHierarchy(ctx context.Context, title string, epicID *int, tree *domain.CreateTree, createErr error) (*domain.CreateRun, error) {
	run := s.newRun(domain.RunHierarchy, title, createErr)
	run.EpicID = epicID
	run.Items = domain.JournalItemsFromTree(tree)
	if createErr != nil && len(run.Items) > 0 {
		run.Status = domain.RunPartial
	}
	return run, s.save(ctx, run)
}

func (s *historyService) RecordSingle(ctx context.Context, req domain.SingleItemRequest, item *domain.CreatedItem, createErr error) (*domain.CreateRun, error) {
	run := s.newRun(domain.RunSingle, req.Title, createErr)
	run.EpicID = req.ParentID
	if item != nil {
		run.Items = []domain.JournalItem{{
			Seq:      1,
			RemoteID: item.ID,
			Type:     item.Type,
			Title:    item.Title,
			ParentID: item.ParentID,
			WebURL:   item.WebURL,
		}}
	}
	return run, s.save(ctx, run)
}

func (s *historyService) newRun(kind domain.RunKind, title string, createErr error) *domain.CreateRun {
	run := &domain.CreateRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     strings.TrimSpace(title),
		Status:    domain.RunComplete,
		CreatedAt: s.now(),
	}
	if createErr != nil {
		run.Status = domain.RunFailed
		run.Error = createErr.Error()
	}
	return run
}

// save writes the run and its items atomically.
func (s *historyService) save(ctx context.Context, run *domain.CreateRun) (err error) {
	done := Track(ctx, s.observer, "record-run", map[string]any{
		"kind":   string(run.Kind),
		"status": string(run.Status),
		"items":  len(run.Items),
	})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		journal := repository.NewSQLiteJournalRepo(tx)
		if err := journal.CreateRun(ctx, run); err != nil {
			return err
		}
		return journal.AddItems(ctx, run.ID, run.Items)
	})
	if err != nil {
		return fmt.Errorf("recording create run: %w", err)
	}
	run.ItemCount = len(run.Items)
	return nil
}

func (s *historyService) List(ctx context.Context, limit int) ([]domain.CreateRun, error) {
	return s.journal.ListRuns(ctx, limit)
}

func (s *historyService) Get(ctx context.Context, id string) (*domain.CreateRun, error) {
	id = strings.TrimSpace(id)
	run, err := s.journal.GetRun(ctx, id)
	if err == nil || !errors.Is(err, repository.ErrNotFound) || len(id) < minPrefix {
		return run, err
	}

	runs, err := s.journal.ListRuns(ctx, 0)
	if err != nil {
		return nil, err
	}
	var match string
	for _, r := range runs {
		if !strings.HasPrefix(r.ID, id) {
			continue
		}
		if match != "" {
			return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
		}
		match = r.ID
	}
	if match == "" {
		return nil, fmt.Errorf("create run %q: %w", id, repository.ErrNotFound)
	}
	return s.journal.GetRun(ctx, match)
}

func (s *historyService) Forget(ctx context.Context, remoteIDs []int) (int, error) {
	return s.journal.ForgetItems(ctx, remoteIDs)
}
