// Package bootstrap recovers a session on cold start, before any protected
// view is allowed to render. The application must wait for Ready before
// evaluating guards, otherwise an actually-authenticated user would briefly
// see the unauthenticated UI.
package bootstrap

import (
	"context"

	"github.com/myshop/go-shop-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Refresher mints credentials from the durable, server-held refresh
// credential. Satisfied by *api.Client.
type Refresher interface {
	Refresh(ctx context.Context) (session.Credentials, error)
}

// Bootstrapper runs the one-time silent session recovery.
type Bootstrapper struct {
	store     *session.Store
	refresher Refresher
	log       zerolog.Logger
	ready     chan struct{}
}

// BootstrapperOption defines a function type to modify the Bootstrapper.
type BootstrapperOption func(*Bootstrapper)

// WithLogger sets the bootstrapper logger.
func WithLogger(log zerolog.Logger) BootstrapperOption {
	return func(b *Bootstrapper) {
		b.log = log
	}
}

// New creates a Bootstrapper.
func New(store *session.Store, refresher Refresher, options ...BootstrapperOption) (*Bootstrapper, error) {
	if store == nil {
		return nil, errors.New("[bootstrap.New] store is required")
	}
	if refresher == nil {
		return nil, errors.New("[bootstrap.New] refresher is required")
	}
	b := &Bootstrapper{
		store:     store,
		refresher: refresher,
		log:       zerolog.Nop(),
		ready:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(b)
	}
	return b, nil
}

// Run attempts the recovery and marks the bootstrapper ready regardless of
// outcome. A store that already holds a token (carried over in-memory from
// an earlier step in the same process) skips the network call entirely. On
// any refresh failure the store is left empty; the first guarded navigation
// will redirect to login.
func (b *Bootstrapper) Run(ctx context.Context) error {
	defer close(b.ready)

	if b.store.Authenticated() {
		b.log.Debug().Msg("session already present, skipping recovery")
		return nil
	}

	creds, err := b.refresher.Refresh(ctx)
	if err != nil {
		b.log.Info().Err(err).Msg("no recoverable session")
		return nil
	}
	if err := b.store.Set(creds); err != nil {
		return errors.Wrap(err, "[Bootstrapper.Run] store.Set")
	}

	event := b.log.Info().Str("user", creds.User.Email)
	if expiry, ok := session.TokenExpiry(creds.AccessToken); ok {
		event = event.Time("token_expiry", expiry)
	}
	event.Msg("session recovered")
	return nil
}

// Ready is closed once Run has resolved, success or failure.
func (b *Bootstrapper) Ready() <-chan struct{} {
	return b.ready
}
