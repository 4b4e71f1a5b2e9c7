package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/myshop/go-shop-client/session"
	"github.com/stretchr/testify/require"
)

func TestStore_SetAndClear(t *testing.T) {
	store := session.NewStore()

	require.False(t, store.Authenticated())
	require.Empty(t, store.Token())

	err := store.Set(session.Credentials{
		AccessToken: "token-1",
		User:        session.User{ID: "u-1", Email: "jane@example.com", Role: session.RoleCustomer},
	})
	require.NoError(t, err)

	s := store.Session()
	require.True(t, s.Authenticated())
	require.Equal(t, "token-1", s.AccessToken)
	require.Equal(t, "u-1", s.User.ID)

	store.Clear()
	require.False(t, store.Authenticated())
	require.Nil(t, store.Session().User)
}

func TestStore_SetRejectsBlankToken(t *testing.T) {
	store := session.NewStore()

	err := store.Set(session.Credentials{User: session.User{ID: "u-1"}})
	require.Error(t, err)
	require.False(t, store.Authenticated())
}

// Token and user must always be observed together or not at all.
func TestStore_UserNeverWithoutToken(t *testing.T) {
	store := session.NewStore()

	observe := func() {
		s := store.Session()
		require.Equal(t, s.AccessToken != "", s.User != nil)
	}

	observe()
	require.NoError(t, store.Set(session.Credentials{AccessToken: "t", User: session.User{ID: "u"}}))
	observe()
	store.Clear()
	observe()
}

func TestStore_SetOverwritesWholesale(t *testing.T) {
	store := session.NewStore()

	require.NoError(t, store.Set(session.Credentials{AccessToken: "t1", User: session.User{ID: "u-1"}}))
	require.NoError(t, store.Set(session.Credentials{AccessToken: "t2", User: session.User{ID: "u-2"}}))

	s := store.Session()
	require.Equal(t, "t2", s.AccessToken)
	require.Equal(t, "u-2", s.User.ID)
}

func TestUser_IsAdmin(t *testing.T) {
	require.True(t, session.User{Role: session.RoleAdmin}.IsAdmin())
	require.True(t, session.User{Role: session.RoleAdminLegacy}.IsAdmin())
	require.False(t, session.User{Role: session.RoleCustomer}.IsAdmin())
}

func TestTokenExpiry(t *testing.T) {
	t.Run("jwt with exp", func(t *testing.T) {
		exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u-1",
			"exp": exp.Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		got, ok := session.TokenExpiry(signed)
		require.True(t, ok)
		require.Equal(t, exp.Unix(), got.Unix())
	})

	t.Run("opaque token", func(t *testing.T) {
		_, ok := session.TokenExpiry("not-a-jwt")
		require.False(t, ok)
	})

	t.Run("jwt without exp", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1"})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, ok := session.TokenExpiry(signed)
		require.False(t, ok)
	})
}
