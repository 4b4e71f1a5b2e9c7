package poll

import (
	"context"
	"sync"
	"time"

	"github.com/myshop/go-shop-client/api"
	"github.com/myshop/go-shop-client/session"
	"github.com/rs/zerolog"
)

// OrderService is the slice of the API client the watcher needs.
type OrderService interface {
	GetOrder(ctx context.Context, orderID string) (api.Order, error)
}

// OrderWatch follows one order while its detail view is active, stopping
// permanently once the order reaches a terminal status (delivered or
// cancelled). The consumer must call Stop on teardown so no background
// polling outlives the view.
type OrderWatch struct {
	sync *Synchronizer

	lock sync.Mutex
	last *api.Order
}

// NewOrderWatch creates a watcher for a single order.
func NewOrderWatch(store *session.Store, orders OrderService, orderID string, interval time.Duration, log zerolog.Logger) *OrderWatch {
	w := &OrderWatch{}
	w.sync = NewSynchronizer("order:"+orderID, interval,
		func(ctx context.Context) (bool, error) {
			order, err := orders.GetOrder(ctx, orderID)
			if err != nil {
				return false, err
			}
			w.lock.Lock()
			w.last = &order
			w.lock.Unlock()
			return order.Status.Terminal(), nil
		},
		WithGate(store.Authenticated),
		WithLogger(log),
	)
	return w
}

// Run blocks, driving the watcher until terminal status, context end, or Stop.
func (w *OrderWatch) Run(ctx context.Context) { w.sync.Run(ctx) }

// Stop ends polling permanently (view unmounted).
func (w *OrderWatch) Stop() { w.sync.Stop() }

// State returns the underlying synchronizer state.
func (w *OrderWatch) State() State { return w.sync.State() }

// Last returns the most recently fetched order, if any tick has succeeded.
func (w *OrderWatch) Last() (api.Order, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.last == nil {
		return api.Order{}, false
	}
	return *w.last, true
}
