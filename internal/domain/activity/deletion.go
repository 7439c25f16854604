package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DeleteState is the per-record state of the delete workflow.
type DeleteState string

const (
	DeleteIdle       DeleteState = "idle"
	DeleteConfirming DeleteState = "confirming"
	DeleteDeleting   DeleteState = "deleting"
	DeleteDeleted    DeleteState = "deleted"
	DeleteFailed     DeleteState = "failed"
)

// DeleteFunc performs the backend delete for one record id.
type DeleteFunc func(ctx context.Context, id string) error

// TransitionHook observes delete workflow transitions.
type TransitionHook func(id string, from, to DeleteState)

type transition struct {
	from, to DeleteState
}

// Deleter runs the confirm-then-delete workflow. At most one delete per id
// is in flight; ids are independent of each other.
type Deleter struct {
	del  DeleteFunc
	hook TransitionHook

	mu     sync.Mutex
	states map[string]DeleteState
}

// NewDeleter creates a Deleter. hook may be nil.
func NewDeleter(del DeleteFunc, hook TransitionHook) *Deleter {
	return &Deleter{
		del:    del,
		hook:   hook,
		states: make(map[string]DeleteState),
	}
}

// State returns the current state for id.
func (d *Deleter) State(id string) DeleteState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked(id)
}

func (d *Deleter) stateLocked(id string) DeleteState {
	if st, ok := d.states[id]; ok {
		return st
	}
	return DeleteIdle
}

// Request asks for confirmation to delete id.
func (d *Deleter) Request(id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	d.mu.Lock()
	st := d.stateLocked(id)
	switch st {
	case DeleteDeleting:
		d.mu.Unlock()
		return ErrDeleteInFlight
	case DeleteConfirming:
		d.mu.Unlock()
		return nil
	}
	d.states[id] = DeleteConfirming
	d.mu.Unlock()

	d.emit(id, transition{st, DeleteConfirming})
	return nil
}

// Cancel abandons a pending confirmation. No-op in any other state.
func (d *Deleter) Cancel(id string) {
	d.mu.Lock()
	if d.stateLocked(id) != DeleteConfirming {
		d.mu.Unlock()
		return
	}
	delete(d.states, id)
	d.mu.Unlock()

	d.emit(id, transition{DeleteConfirming, DeleteIdle})
}

// Confirm runs the delete for a previously requested id. A NotFound from the
// backend counts as success. On failure the id returns to idle and may be
// requested again.
func (d *Deleter) Confirm(ctx context.Context, id string) error {
	d.mu.Lock()
	switch d.stateLocked(id) {
	case DeleteDeleting:
		d.mu.Unlock()
		return ErrDeleteInFlight
	case DeleteConfirming:
	default:
		d.mu.Unlock()
		return ErrNotConfirmed
	}
	d.states[id] = DeleteDeleting
	d.mu.Unlock()
	d.emit(id, transition{DeleteConfirming, DeleteDeleting})

	err := d.del(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		d.mu.Lock()
		delete(d.states, id)
		d.mu.Unlock()
		d.emit(id, transition{DeleteDeleting, DeleteFailed}, transition{DeleteFailed, DeleteIdle})
		return fmt.Errorf("deleting activity %s: %w", id, err)
	}

	d.mu.Lock()
	delete(d.states, id)
	d.mu.Unlock()
	d.emit(id, transition{DeleteDeleting, DeleteDeleted})
	return nil
}

func (d *Deleter) emit(id string, ts ...transition) {
	if d.hook == nil {
		return
	}
	for _, t := range ts {
		d.hook(id, t.from, t.to)
	}
}
