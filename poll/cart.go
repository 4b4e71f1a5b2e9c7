package poll

import (
	"context"
	"sync"
	"time"

	"github.com/myshop/go-shop-client/api"
	"github.com/myshop/go-shop-client/session"
	"github.com/rs/zerolog"
)

// CartService is the slice of the API client the badge needs.
type CartService interface {
	GetCart(ctx context.Context) (api.Cart, error)
}

// CartBadge keeps the cart item count current while a non-admin session is
// active. Admins do not accumulate a shopping cart, so an admin session
// leaves the badge idle.
type CartBadge struct {
	sync *Synchronizer

	lock  sync.Mutex
	count int
}

// NewCartBadge creates the badge synchronizer. Run must be called to start
// polling.
func NewCartBadge(store *session.Store, carts CartService, interval time.Duration, log zerolog.Logger) *CartBadge {
	b := &CartBadge{}
	b.sync = NewSynchronizer("cart", interval,
		func(ctx context.Context) (bool, error) {
			cart, err := carts.GetCart(ctx)
			if err != nil {
				return false, err
			}
			b.lock.Lock()
			b.count = cart.ItemCount()
			b.lock.Unlock()
			return false, nil
		},
		WithGate(func() bool {
			s := store.Session()
			return s.Authenticated() && !s.User.IsAdmin()
		}),
		WithLogger(log),
	)
	return b
}

// Run blocks, driving the badge until the context ends or Stop is called.
func (b *CartBadge) Run(ctx context.Context) { b.sync.Run(ctx) }

// Stop ends polling permanently.
func (b *CartBadge) Stop() { b.sync.Stop() }

// State returns the underlying synchronizer state.
func (b *CartBadge) State() State { return b.sync.State() }

// Count returns the last known cart item count. Stale values survive failed
// ticks and session churn; only a successful fetch replaces them.
func (b *CartBadge) Count() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.count
}

// Bump adjusts the local count optimistically after a successful add-to-cart
// so the badge reflects the action before the next poll lands.
func (b *CartBadge) Bump(quantity int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.count += quantity
}
