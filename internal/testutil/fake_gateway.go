package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/wisync/internal/domain"
)

// PatchCall is one recorded PatchWorkItem invocation.
type PatchCall struct {
	ID      int
	Changes domain.FieldChanges
}

// FakeGateway is an in-memory remote gateway. Responses are set through
// the exported fields; every call is recorded. Items are patched in place
// so a fetch after a patch sees the merged snapshot.
type FakeGateway struct {
	mu sync.Mutex

	Config     domain.Config
	ConfigErr  error
	SaveErr    error
	Hierarchy  *domain.Hierarchy
	ParseErr   error
	Result     *domain.CreateResult
	CreateErr  error
	Created    *domain.CreatedItem
	SingleErr  error
	Items      map[int]*domain.WorkItem
	PatchErr   error
	FailDelete map[int]bool
	Features   []domain.Feature
	ListErr    error

	// Gate, when set, blocks every call until a value is received or ctx ends.
	Gate chan struct{}

	calls   []string
	patches []PatchCall
	deletes [][]int
	saved   []domain.Config
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Config:     NewTestConfig("https://dev.azure.com/acme"),
		Items:      map[int]*domain.WorkItem{},
		FailDelete: map[int]bool{},
	}
}

func (f *FakeGateway) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	gate := f.Gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeGateway) Parse(ctx context.Context, text string) (*domain.Hierarchy, error) {
	if err := f.enter(ctx, "Parse"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ParseErr != nil {
		return nil, f.ParseErr
	}
	if f.Hierarchy == nil {
		return nil, domain.Errorf(domain.KindParse, "parse plan", "no plan found in %q", text)
	}
	return f.Hierarchy, nil
}

func (f *FakeGateway) CreateHierarchy(ctx context.Context, h *domain.Hierarchy, ov domain.Overrides, epicID *int) (*domain.CreateResult, error) {
	if err := f.enter(ctx, "CreateHierarchy"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if f.Result != nil {
		return f.Result, nil
	}
	return &domain.CreateResult{
		FeatureID:  1000,
		FeatureURL: f.Config.ItemURL(1000),
		PBICount:   len(h.PBIs),
		TaskCount:  h.TaskCount(),
	}, nil
}

func (f *FakeGateway) CreateSingle(ctx context.Context, req domain.SingleItemRequest) (*domain.CreatedItem, error) {
	if err := f.enter(ctx, "CreateSingle"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SingleErr != nil {
		return nil, f.SingleErr
	}
	if f.Created != nil {
		return f.Created, nil
	}
	return &domain.CreatedItem{ID: 2000, Type: req.Type, Title: req.Title, WebURL: f.Config.ItemURL(2000)}, nil
}

func (f *FakeGateway) FetchWorkItem(ctx context.Context, id int) (*domain.WorkItem, error) {
	if err := f.enter(ctx, "FetchWorkItem"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wi, ok := f.Items[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "get work item", "work item %d does not exist", id)
	}
	cp := *wi
	return &cp, nil
}

func (f *FakeGateway) PatchWorkItem(ctx context.Context, id int, changes domain.FieldChanges) error {
	if err := f.enter(ctx, "PatchWorkItem"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	recorded := make(domain.FieldChanges, len(changes))
	for k, v := range changes {
		recorded[k] = v
	}
	f.patches = append(f.patches, PatchCall{ID: id, Changes: recorded})
	if f.PatchErr != nil {
		return f.PatchErr
	}
	wi, ok := f.Items[id]
	if !ok {
		return domain.Errorf(domain.KindUpdate, "update work item", "work item %d does not exist", id)
	}
	merged := wi.Apply(changes)
	f.Items[id] = &merged
	return nil
}

func (f *FakeGateway) DeleteWorkItems(ctx context.Context, ids []int) domain.DeleteBatchResult {
	result := domain.NewDeleteBatchResult(ids)
	if err := f.enter(ctx, "DeleteWorkItems"); err != nil {
		return result
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, append([]int(nil), ids...))
	for id := range result.Outcomes {
		if f.FailDelete[id] {
			continue
		}
		result.Outcomes[id] = true
		delete(f.Items, id)
	}
	return result
}

func (f *FakeGateway) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	if err := f.enter(ctx, "ListFeatures"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]domain.Feature(nil), f.Features...), nil
}

func (f *FakeGateway) GetConfig(ctx context.Context) (domain.Config, error) {
	if err := f.enter(ctx, "GetConfig"); err != nil {
		return domain.Config{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Config, f.ConfigErr
}

func (f *FakeGateway) SaveConfig(ctx context.Context, cfg domain.Config) error {
	if err := f.enter(ctx, "SaveConfig"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.saved = append(f.saved, cfg)
	f.Config = cfg
	return nil
}

// Calls returns the method names invoked so far, in order.
func (f *FakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount counts invocations of one method.
func (f *FakeGateway) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *FakeGateway) Patches() []PatchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PatchCall(nil), f.patches...)
}

func (f *FakeGateway) Deletes() [][]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int(nil), f.deletes...)
}

func (f *FakeGateway) SavedConfigs() []domain.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Config(nil), f.saved...)
}

// String summarizes recorded calls for assertion messages.
func (f *FakeGateway) String() string {
	return fmt.Sprintf("FakeGateway%v", f.Calls())
}
