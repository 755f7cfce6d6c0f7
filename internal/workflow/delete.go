package workflow

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/gateway"
	"github.com/alexanderramin/wisync/internal/service"
)

// ParseIDs splits text on whitespace and commas and keeps the positive
// integers, first occurrence order, without duplicates. Anything else is
// dropped silently.
func ParseIDs(text string) []int {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	seen := make(map[int]bool, len(tokens))
	ids := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		ids = append(ids, n)
	}
	return ids
}

// DeleteWorkflow gates a batch delete behind arm → confirm. Changing the
// input disarms it.
type DeleteWorkflow struct {
	gw       gateway.Gateway
	observer service.UseCaseObserver
	g        guard

	input  string
	ids    []int
	armed  bool
	result *domain.DeleteBatchResult
}

func NewDeleteWorkflow(gw gateway.Gateway, observer service.UseCaseObserver) *DeleteWorkflow {
	if observer == nil {
		observer = service.NoopUseCaseObserver{}
	}
	return &DeleteWorkflow{gw: gw, observer: observer}
}

// SetInput replaces the id text. A different text disarms confirmation and
// discards the reply of any delete still in flight.
func (w *DeleteWorkflow) SetInput(text string) []int {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if text != w.input {
		if w.g.busy {
			w.g.abandon()
		}
		w.armed = false
		w.result = nil
	}
	w.input = text
	w.ids = ParseIDs(text)
	return slices.Clone(w.ids)
}

// IDs are the ids parsed from the current input.
func (w *DeleteWorkflow) IDs() []int {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	return slices.Clone(w.ids)
}

// Armed reports whether Confirm will dispatch.
func (w *DeleteWorkflow) Armed() bool {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	return w.armed
}

// Arm is the first confirmation step.
func (w *DeleteWorkflow) Arm() error {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if err := w.g.check("delete work items"); err != nil {
		return err
	}
	if len(w.ids) == 0 {
		return domain.Errorf(domain.KindValidation, "delete work items", "no valid work item ids entered")
	}
	w.armed = true
	return nil
}

// Disarm cancels a pending confirmation.
func (w *DeleteWorkflow) Disarm() {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	w.armed = false
}

// Confirm is the second step: one gateway call with every parsed id. The
// outcome map is returned as is; failed ids are not retried.
func (w *DeleteWorkflow) Confirm(ctx context.Context) (res domain.DeleteBatchResult, err error) {
	const op = "delete work items"
	fields := map[string]any{}
	done := service.Track(ctx, w.observer, "delete-batch", fields)
	defer func() { done(err) }()

	w.g.mu.Lock()
	if !w.armed {
		w.g.mu.Unlock()
		return domain.DeleteBatchResult{}, domain.Errorf(domain.KindValidation, op, "deletion is not armed; confirm twice to delete")
	}
	token, err := w.g.begin(op)
	if err != nil {
		w.g.mu.Unlock()
		return domain.DeleteBatchResult{}, err
	}
	ids := slices.Clone(w.ids)
	w.armed = false
	w.g.mu.Unlock()

	fields["requested"] = len(ids)
	res = w.gw.DeleteWorkItems(ctx, ids)
	fields["deleted"] = res.SucceededCount()
	fields["failed"] = res.FailedCount()

	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	if !w.g.finish(token) {
		return domain.DeleteBatchResult{}, staleError(op)
	}
	w.result = &res
	return res, nil
}

// Result is the outcome of the last confirmed delete for the current input.
func (w *DeleteWorkflow) Result() *domain.DeleteBatchResult {
	w.g.mu.Lock()
	defer w.g.mu.Unlock()
	return w.result
}
