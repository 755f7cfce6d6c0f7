// Package workflow holds the stateful create, update and delete flows the
// CLI drives. Each workflow admits one operation at a time and discards
// replies to operations abandoned by a reset.
package workflow

import (
	"sync"

	"github.com/alexanderramin/wisync/internal/domain"
)

// guard is the admission lock and operation token shared by the workflows.
// Callers hold mu while reading or writing workflow state.
type guard struct {
	mu   sync.Mutex
	busy bool
	seq  uint64
}

// check fails fast while an operation is in flight. Callers must hold mu.
func (g *guard) check(op string) error {
	if g.busy {
		return domain.Errorf(domain.KindBusy, op, "another operation is still in progress")
	}
	return nil
}

// begin admits an operation. Callers must hold mu.
func (g *guard) begin(op string) (uint64, error) {
	if err := g.check(op); err != nil {
		return 0, err
	}
	g.busy = true
	g.seq++
	return g.seq, nil
}

// finish ends the operation started with token. It reports false when the
// operation was abandoned, in which case state must be left alone. Callers
// must hold mu.
func (g *guard) finish(token uint64) bool {
	if token != g.seq {
		return false
	}
	g.busy = false
	return true
}

// abandon invalidates any in-flight operation. Callers must hold mu.
func (g *guard) abandon() {
	g.seq++
	g.busy = false
}

func staleError(op string) error {
	return domain.Errorf(domain.KindStale, op, "the operation was abandoned before its reply arrived")
}
