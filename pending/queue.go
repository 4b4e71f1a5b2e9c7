// Package pending bridges the gap between "user tried to act" and "user must
// authenticate first". It holds at most one deferred intent, replayed exactly
// once after the next successful authentication.
package pending

import (
	"context"
	"sync"
)

// Kind tags the deferred action.
type Kind string

// KindAddToCart is currently the only deferred action the app records.
const KindAddToCart Kind = "ADD_TO_CART"

// Action is one user intent captured while unauthenticated.
type Action struct {
	Kind      Kind
	ProductID string
	Quantity  int
}

// Queue is a single-slot, last-intent-wins store for a deferred action.
// Intent never outlives the process; abandoning a login attempt simply
// leaves the slot to be overwritten or consumed later.
type Queue struct {
	lock    sync.Mutex
	pending *Action
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue stores the action, silently replacing any previous one.
func (q *Queue) Enqueue(action Action) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.pending = &action
}

// Peek returns the stored action without consuming it.
func (q *Queue) Peek() (Action, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.pending == nil {
		return Action{}, false
	}
	return *q.pending, true
}

// Consume executes the stored action, if any, and clears the slot no matter
// how execution goes — a failed replay is reported to the caller, never
// retried. Call immediately after a successful authentication event.
func (q *Queue) Consume(ctx context.Context, exec func(context.Context, Action) error) error {
	q.lock.Lock()
	action := q.pending
	q.pending = nil
	q.lock.Unlock()

	if action == nil {
		return nil
	}
	return exec(ctx, *action)
}
