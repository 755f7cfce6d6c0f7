package workflow

import (
	"context"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/gateway"
	"github.com/alexanderramin/wisync/internal/service"
)

// SaveResult reports what Save sent. NothingToSave means no call was made.
type SaveResult struct {
	Changes       domain.FieldChanges
	NothingToSave bool
}

// UpdateWorkflow fetches one work item, tracks edits against the fetched
// snapshot and patches only the fields that differ.
type UpdateWorkflow struct {
	gw       gateway.Gateway
	observer service.UseCaseObserver
	g        guard

	snapshot *domain.WorkItem
	edited   domain.WorkItemFields
}

func NewUpdateWorkflow(gw gateway.Gateway, observer service.UseCaseObserver) *UpdateWorkflow {
	if observer == nil {
		observer = service.NoopUseCaseObserver{}
	}
	return &UpdateWorkflow{gw: gw, observer: observer}
}

// Fetch loads id and seeds the edit copy from it.
func (w *UpdateWorkflow) Fetch(ctx context.Context, id int) (wi *domain.WorkItem, err error) {
	const op = "get work item"
	done := service.Track(ctx, w.observer, "fetch-work-item", map[string]any{"id": id})
	defer func() { done(err) }()

	if id <= 0 {
		return nil, domain.Errorf(domain.KindValidation, op, "work item id must be a positive integer, got %d", id)
	}

	w.g.mu.Lock()
	token, err := w.g.begin(op)
	w.g.mu.Unlock()
	if err != nil {
		return nil, err
	}

	wi, err = w.gw.FetchWorkItem(ctx, id)

	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if !w.g.finish(token) {
		return nil, staleError(op)
	}
	if err != nil {
		return nil, err
	}
	snap := *wi
	w.snapshot = &snap
	w.edited = snap.WorkItemFields
	return wi, nil
}

// Snapshot is the last known remote state, nil before a fetch.
func (w *UpdateWorkflow) Snapshot() *domain.WorkItem {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if w.snapshot == nil {
		return nil
	}
	cp := *w.snapshot
	return &cp
}

// Edited is the current edit copy.
func (w *UpdateWorkflow) Edited() domain.WorkItemFields {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	return w.edited
}

// Edit changes one field of the edit copy. It is rejected while a fetch or
// save is in flight, since their reply replaces the edit copy.
func (w *UpdateWorkflow) Edit(f domain.Field, value string) error {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if err := w.g.check("edit work item"); err != nil {
		return err
	}
	if w.snapshot == nil {
		return domain.Errorf(domain.KindValidation, "edit work item", "fetch a work item first")
	}
	return w.edited.Set(f, value)
}

// Pending is the diff Save would send now.
func (w *UpdateWorkflow) Pending() domain.FieldChanges {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if w.snapshot == nil {
		return domain.FieldChanges{}
	}
	return domain.Diff(w.snapshot.WorkItemFields, w.edited)
}

// Save patches the fields that differ from the snapshot. An empty diff is
// reported as nothing to save without calling the gateway. On success the
// changes are merged over the snapshot.
func (w *UpdateWorkflow) Save(ctx context.Context) (res SaveResult, err error) {
	const op = "update work item"
	fields := map[string]any{}
	done := service.Track(ctx, w.observer, "update-work-item", fields)
	defer func() { done(err) }()

	w.g.mu.Lock()
	if w.snapshot == nil {
		w.g.mu.Unlock()
		return SaveResult{}, domain.Errorf(domain.KindValidation, op, "fetch a work item first")
	}
	changes := domain.Diff(w.snapshot.WorkItemFields, w.edited)
	if len(changes) == 0 {
		w.g.mu.Unlock()
		fields["nothing_to_save"] = true
		return SaveResult{Changes: changes, NothingToSave: true}, nil
	}
	token, err := w.g.begin(op)
	if err != nil {
		w.g.mu.Unlock()
		return SaveResult{}, err
	}
	id := w.snapshot.ID
	w.g.mu.Unlock()

	fields["id"] = id
	fields["fields"] = len(changes)
	err = w.gw.PatchWorkItem(ctx, id, changes)

	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if !w.g.finish(token) {
		return SaveResult{}, staleError(op)
	}
	if err != nil {
		return SaveResult{}, err
	}
	merged := w.snapshot.Apply(changes)
	w.snapshot = &merged
	w.edited = merged.WorkItemFields
	return SaveResult{Changes: changes}, nil
}

// Reset forgets the snapshot and discards any reply still in flight.
func (w *UpdateWorkflow) Reset() {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	w.g.abandon()
	w.snapshot = nil
	w.edited = domain.WorkItemFields{}
}
