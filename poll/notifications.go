package poll

import (
	"context"
	"sync"
	"time"

	"github.com/myshop/go-shop-client/api"
	"github.com/myshop/go-shop-client/session"
	"github.com/rs/zerolog"
)

// NotificationService is the slice of the API client the feed needs.
type NotificationService interface {
	ListNotifications(ctx context.Context) (api.Page[api.Notification], error)
}

// NotificationFeed mirrors the server-side notification feed while a
// non-admin session is active, and announces newly arrived unread entries
// through the OnNew callback (the original UI raised a toast).
type NotificationFeed struct {
	sync  *Synchronizer
	onNew func(api.Notification)

	lock  sync.Mutex
	items []api.Notification
}

// NotificationFeedOption defines a function type to modify the feed.
type NotificationFeedOption func(*NotificationFeed)

// WithOnNew sets the callback fired when the newest feed entry changes and
// is unread.
func WithOnNew(onNew func(api.Notification)) NotificationFeedOption {
	return func(f *NotificationFeed) {
		f.onNew = onNew
	}
}

// NewNotificationFeed creates the feed synchronizer.
func NewNotificationFeed(store *session.Store, notifications NotificationService, interval time.Duration, log zerolog.Logger, options ...NotificationFeedOption) *NotificationFeed {
	f := &NotificationFeed{}
	for _, opt := range options {
		opt(f)
	}
	f.sync = NewSynchronizer("notifications", interval,
		func(ctx context.Context) (bool, error) {
			page, err := notifications.ListNotifications(ctx)
			if err != nil {
				return false, err
			}
			f.absorb(page.Content)
			return false, nil
		},
		WithGate(func() bool {
			s := store.Session()
			return s.Authenticated() && !s.User.IsAdmin()
		}),
		WithLogger(log),
	)
	return f
}

// absorb replaces the cached feed and detects a new unread arrival at the
// head of the list.
func (f *NotificationFeed) absorb(latest []api.Notification) {
	f.lock.Lock()
	previous := f.items
	f.items = latest
	f.lock.Unlock()

	if f.onNew == nil || len(previous) == 0 || len(latest) == 0 {
		return
	}
	if previous[0].ID != latest[0].ID && !latest[0].IsRead {
		f.onNew(latest[0])
	}
}

// Run blocks, driving the feed until the context ends or Stop is called.
func (f *NotificationFeed) Run(ctx context.Context) { f.sync.Run(ctx) }

// Stop ends polling permanently.
func (f *NotificationFeed) Stop() { f.sync.Stop() }

// State returns the underlying synchronizer state.
func (f *NotificationFeed) State() State { return f.sync.State() }

// Items returns the last known feed contents.
func (f *NotificationFeed) Items() []api.Notification {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.items
}

// Unread counts the unread entries in the last known feed.
func (f *NotificationFeed) Unread() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	unread := 0
	for _, n := range f.items {
		if !n.IsRead {
			unread++
		}
	}
	return unread
}
