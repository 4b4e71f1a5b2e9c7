package bootstrap_test

import (
	"context"
	"testing"

	"github.com/myshop/go-shop-client/bootstrap"
	"github.com/myshop/go-shop-client/session"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls int
	creds session.Credentials
	err   error
}

var _ bootstrap.Refresher = (*fakeRefresher)(nil)

func (f *fakeRefresher) Refresh(ctx context.Context) (session.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

func assertReady(t *testing.T, b *bootstrap.Bootstrapper) {
	t.Helper()
	select {
	case <-b.Ready():
	default:
		t.Fatal("bootstrapper must be ready after Run resolves")
	}
}

func TestBootstrapper_RecoversSession(t *testing.T) {
	store := session.NewStore()
	refresher := &fakeRefresher{creds: session.Credentials{
		AccessToken: "recovered",
		User:        session.User{ID: "u-1", Email: "jane@example.com", Role: session.RoleCustomer},
	}}

	b, err := bootstrap.New(store, refresher)
	require.NoError(t, err)
	require.NoError(t, b.Run(context.Background()))

	assertReady(t, b)
	require.Equal(t, 1, refresher.calls)
	require.True(t, store.Authenticated())
	require.Equal(t, "recovered", store.Token())
}

func TestBootstrapper_RefreshFailureLeavesStoreEmpty(t *testing.T) {
	store := session.NewStore()
	refresher := &fakeRefresher{err: errors.New("refresh token missing")}

	b, err := bootstrap.New(store, refresher)
	require.NoError(t, err)
	require.NoError(t, b.Run(context.Background()))

	assertReady(t, b)
	require.Equal(t, 1, refresher.calls)
	require.False(t, store.Authenticated())
}

func TestBootstrapper_SkipsRecoveryWhenSessionPresent(t *testing.T) {
	store := session.NewStore()
	require.NoError(t, store.Set(session.Credentials{
		AccessToken: "existing",
		User:        session.User{ID: "u-1"},
	}))
	refresher := &fakeRefresher{}

	b, err := bootstrap.New(store, refresher)
	require.NoError(t, err)
	require.NoError(t, b.Run(context.Background()))

	assertReady(t, b)
	require.Zero(t, refresher.calls)
	require.Equal(t, "existing", store.Token())
}

func TestBootstrapper_RequiresDependencies(t *testing.T) {
	_, err := bootstrap.New(nil, &fakeRefresher{})
	require.Error(t, err)

	_, err = bootstrap.New(session.NewStore(), nil)
	require.Error(t, err)
}
