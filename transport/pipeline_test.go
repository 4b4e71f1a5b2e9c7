package transport_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/myshop/go-shop-client/ratelimit"
	"github.com/myshop/go-shop-client/session"
	"github.com/myshop/go-shop-client/transport"
	"github.com/stretchr/testify/require"
)

const (
	staleToken = "stale-token"
	freshToken = "fresh-token"
)

// fakeRefresher counts refresh calls and can be told to fail.
type fakeRefresher struct {
	calls   atomic.Int32
	fail    bool
	token   string
	blockFn func()
}

var _ transport.Refresher = (*fakeRefresher)(nil)

func (f *fakeRefresher) Refresh(ctx context.Context) (session.Credentials, error) {
	f.calls.Add(1)
	if f.blockFn != nil {
		f.blockFn()
	}
	if f.fail {
		return session.Credentials{}, io.ErrUnexpectedEOF
	}
	token := f.token
	if token == "" {
		token = freshToken
	}
	return session.Credentials{
		AccessToken: token,
		User:        session.User{ID: "u-1", Email: "jane@example.com", Role: session.RoleCustomer},
	}, nil
}

type testFixture struct {
	store       *session.Store
	notice      *ratelimit.Notice
	refresher   *fakeRefresher
	pipeline    *transport.Pipeline
	client      *http.Client
	authExpired atomic.Int32
}

func setupTestFixture(t *testing.T, options ...transport.PipelineOption) *testFixture {
	t.Helper()

	f := &testFixture{
		store:     session.NewStore(),
		notice:    ratelimit.NewNotice(),
		refresher: &fakeRefresher{},
	}
	options = append([]transport.PipelineOption{
		transport.WithNotice(f.notice),
		transport.WithAuthExpiredHandler(func() { f.authExpired.Add(1) }),
	}, options...)

	pipeline, err := transport.NewPipeline(f.store, options...)
	require.NoError(t, err)
	pipeline.SetRefresher(f.refresher)

	f.pipeline = pipeline
	f.client = &http.Client{Transport: pipeline}
	return f
}

func (f *testFixture) signIn(t *testing.T, token string) {
	t.Helper()
	err := f.store.Set(session.Credentials{
		AccessToken: token,
		User:        session.User{ID: "u-1", Email: "jane@example.com", Role: session.RoleCustomer},
	})
	require.NoError(t, err)
}

func bearerOf(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func TestPipeline_AttachesBearerAndRequestID(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, staleToken)

	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "Bearer "+staleToken, gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestPipeline_NoSessionSendsUnauthenticated(t *testing.T) {
	f := setupTestFixture(t)

	var gotAuth string
	sawAuthHeader := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawAuthHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Empty(t, gotAuth)
	require.False(t, sawAuthHeader)
}

// A single 401 triggers exactly one refresh and one retry carrying the new token.
func TestPipeline_RefreshAndRetryOnce(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, staleToken)

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if bearerOf(r) != freshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(2), requests.Load())
	require.Equal(t, int32(1), f.refresher.calls.Load())
	require.Equal(t, freshToken, f.store.Token())
	require.Zero(t, f.authExpired.Load())
}

// A request body is replayed on the retry.
func TestPipeline_RetryReplaysBody(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, staleToken)

	var bodies []string
	var lock sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		lock.Lock()
		bodies = append(bodies, string(raw))
		lock.Unlock()
		if bearerOf(r) != freshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := f.client.Post(server.URL, "application/json", bytes.NewReader([]byte(`{"productId":"p-1"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{`{"productId":"p-1"}`, `{"productId":"p-1"}`}, bodies)
}

// When the retried call fails with 401 again, the session is cleared and no
// further refresh is attempted for that request.
func TestPipeline_SecondUnauthorizedIsTerminal(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, staleToken)

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(2), requests.Load())
	require.Equal(t, int32(1), f.refresher.calls.Load())
	require.False(t, f.store.Authenticated())
	require.Equal(t, int32(1), f.authExpired.Load())
}

// When the refresh itself fails, the session is cleared, the login redirect
// is signalled, and the caller sees the original 401.
func TestPipeline_RefreshFailureClearsSession(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, staleToken)
	f.refresher.fail = true

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), requests.Load(), "failed refresh must not retry the original request")
	require.Equal(t, int32(1), f.refresher.calls.Load())
	require.False(t, f.store.Authenticated())
	require.Equal(t, int32(1), f.authExpired.Load())
}

// Concurrent requests that all fail with 401 share a single refresh call.
func TestPipeline_ConcurrentRefreshIsCoalesced(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, staleToken)
	f.refresher.blockFn = func() { time.Sleep(250 * time.Millisecond) }

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerOf(r) != freshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	const concurrency = 5
	var wg sync.WaitGroup
	statuses := make([]int, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.client.Get(server.URL)
			if err != nil {
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for _, status := range statuses {
		require.Equal(t, http.StatusOK, status)
	}
	require.Equal(t, int32(1), f.refresher.calls.Load())
	require.Equal(t, freshToken, f.store.Token())
}

func TestPipeline_RateLimitAdvisory(t *testing.T) {
	t.Run("with header and message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t, freshToken)

		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":{"message":"Too many cancellations"}}`))
		}))
		defer server.Close()

		resp, err := f.client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		require.Equal(t, int32(1), requests.Load(), "429 must never be retried")

		advisory, ok := f.notice.Current()
		require.True(t, ok)
		require.Equal(t, "Too many cancellations", advisory.Message)
		require.Equal(t, 30*time.Second, advisory.RetryAfter)

		// The body survives the advisory extraction for the caller.
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(raw), "Too many cancellations")
	})

	t.Run("missing header defaults to sixty seconds", func(t *testing.T) {
		f := setupTestFixture(t)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		resp, err := f.client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		advisory, ok := f.notice.Current()
		require.True(t, ok)
		require.Equal(t, 60*time.Second, advisory.RetryAfter)
		require.Equal(t, ratelimit.DefaultMessage, advisory.Message)
	})
}

// Other status codes pass through untouched.
func TestPipeline_PassThrough(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, freshToken)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"insufficient stock"}}`))
	}))
	defer server.Close()

	resp, err := f.client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, int32(0), f.refresher.calls.Load())
	require.True(t, f.store.Authenticated())
}
