package workflow

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/gateway"
	"github.com/alexanderramin/wisync/internal/service"
)

// Stage is a state of the hierarchy create workflow.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageParsing    Stage = "parsing"
	StagePreviewing Stage = "previewing"
	StageCreating   Stage = "creating"
	StageDone       Stage = "done"
	StageError      Stage = "error"
)

// CreateState is a copy of the create workflow's state for rendering.
type CreateState struct {
	Stage Stage
	// FailedStage is StageParsing or StageCreating while Stage is StageError.
	FailedStage Stage
	Err         error
	Text        string
	Hierarchy   *domain.Hierarchy
	Overrides   domain.Overrides
	EpicID      *int
	Result      *domain.CreateResult
	// Partial is what exists remotely after a partially failed create.
	Partial *domain.CreateTree
}

// CreateWorkflow drives text → preview → remote hierarchy.
//
//	idle → parsing → previewing → creating → done
//	parsing | creating → error (last good text or hierarchy kept for retry)
type CreateWorkflow struct {
	gw       gateway.Gateway
	observer service.UseCaseObserver
	g        guard
	st       CreateState
}

func NewCreateWorkflow(gw gateway.Gateway, observer service.UseCaseObserver) *CreateWorkflow {
	if observer == nil {
		observer = service.NoopUseCaseObserver{}
	}
	return &CreateWorkflow{gw: gw, observer: observer, st: CreateState{Stage: StageIdle}}
}

// State returns a copy of the current state.
func (w *CreateWorkflow) State() CreateState {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	return w.st
}

// Parse sends text to the parser. It is admitted from idle, previewing and
// error. Overrides are seeded from the current Config; a Config failure
// leaves them blank.
func (w *CreateWorkflow) Parse(ctx context.Context, text string) (h *domain.Hierarchy, err error) {
	const op = "parse plan"
	done := service.Track(ctx, w.observer, "parse-plan", map[string]any{"chars": len(text)})
	defer func() { done(err) }()

	w.g.mu.Lock()
	if err := w.g.check(op); err != nil {
		w.g.mu.Unlock()
		return nil, err
	}
	switch w.st.Stage {
	case StageIdle, StagePreviewing, StageError:
	default:
		w.g.mu.Unlock()
		return nil, domain.Errorf(domain.KindValidation, op, "cannot parse while %s; start over first", w.st.Stage)
	}
	token, err := w.g.begin(op)
	if err != nil {
		w.g.mu.Unlock()
		return nil, err
	}
	w.st = CreateState{Stage: StageParsing, Text: text}
	w.g.mu.Unlock()

	ov := domain.Overrides{}
	if cfg, cerr := w.gw.GetConfig(ctx); cerr == nil {
		ov = domain.OverridesFrom(cfg)
	}

	if strings.TrimSpace(text) == "" {
		err = domain.Errorf(domain.KindParse, op, "plan text is empty")
	} else {
		h, err = w.gw.Parse(ctx, text)
		if err == nil && h.IsEmpty() {
			h, err = nil, domain.Errorf(domain.KindParse, op, "the plan has no backlog items")
		}
		if err == nil {
			if verr := h.Validate(); verr != nil {
				h, err = nil, domain.NewError(domain.KindParse, op, verr)
			}
		}
	}

	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if !w.g.finish(token) {
		return nil, staleError(op)
	}
	w.st.Overrides = ov
	if err != nil {
		w.st.Stage, w.st.FailedStage, w.st.Err = StageError, StageParsing, err
		return nil, err
	}
	w.st.Stage = StagePreviewing
	w.st.Hierarchy = h
	return h, nil
}

// SetOverrides replaces the preview's assignment overrides.
func (w *CreateWorkflow) SetOverrides(ov domain.Overrides) error {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if err := w.editable("set overrides"); err != nil {
		return err
	}
	w.st.Overrides = ov
	return nil
}

// SetEpicID sets the optional parent epic from user text. Anything that is
// not a positive integer clears it.
func (w *CreateWorkflow) SetEpicID(text string) error {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if err := w.editable("set epic"); err != nil {
		return err
	}
	w.st.EpicID = parseEpicID(text)
	return nil
}

func (w *CreateWorkflow) editable(op string) error {
	if err := w.g.check(op); err != nil {
		return err
	}
	if w.st.Hierarchy == nil || (w.st.Stage != StagePreviewing && w.st.Stage != StageError) {
		return domain.Errorf(domain.KindValidation, op, "there is no plan to preview")
	}
	return nil
}

func parseEpicID(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// Create realizes the previewed hierarchy. It is admitted from previewing
// and from a create error, which retries the whole tree. On success the
// hierarchy is discarded and the workflow is done.
func (w *CreateWorkflow) Create(ctx context.Context) (res *domain.CreateResult, err error) {
	const op = "create hierarchy"
	fields := map[string]any{}
	done := service.Track(ctx, w.observer, "create-hierarchy", fields)
	defer func() { done(err) }()

	w.g.mu.Lock()
	if err := w.g.check(op); err != nil {
		w.g.mu.Unlock()
		return nil, err
	}
	retry := w.st.Stage == StageError && w.st.FailedStage == StageCreating
	if (w.st.Stage != StagePreviewing && !retry) || w.st.Hierarchy == nil {
		w.g.mu.Unlock()
		return nil, domain.Errorf(domain.KindValidation, op, "there is no previewed plan to create")
	}
	token, err := w.g.begin(op)
	if err != nil {
		w.g.mu.Unlock()
		return nil, err
	}
	h, ov := w.st.Hierarchy, w.st.Overrides
	var epicID *int
	if w.st.EpicID != nil {
		id := *w.st.EpicID
		epicID = &id
	}
	w.st.Stage, w.st.FailedStage, w.st.Err, w.st.Partial = StageCreating, "", nil, nil
	w.g.mu.Unlock()

	fields["pbis"] = len(h.PBIs)
	fields["tasks"] = h.TaskCount()
	res, err = w.gw.CreateHierarchy(ctx, h, ov, epicID)

	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if !w.g.finish(token) {
		return nil, staleError(op)
	}
	if err != nil {
		w.st.Stage, w.st.FailedStage, w.st.Err = StageError, StageCreating, err
		var partial *domain.PartialCreateError
		if errors.As(err, &partial) {
			w.st.Partial = partial.Tree
		}
		return nil, err
	}
	w.st.Stage = StageDone
	w.st.Result = res
	w.st.Hierarchy = nil
	return res, nil
}

// StartOver returns to idle. A reply to an operation still in flight is
// discarded when it arrives.
func (w *CreateWorkflow) StartOver() {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	w.g.abandon()
	w.st = CreateState{Stage: StageIdle}
}
