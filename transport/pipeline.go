// Package transport implements the client's request pipeline: a single
// http.RoundTripper that every API call flows through. Outbound it attaches
// the current bearer token and a correlation ID; inbound it applies the
// cross-cutting policies — one-shot silent refresh on 401, rate-limit
// advisory extraction on 429 — and passes everything else through untouched.
package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/myshop/go-shop-client/ratelimit"
	"github.com/myshop/go-shop-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
	headerCache         = "X-Cache"

	bearerPrefix = "Bearer "

	// Concurrent 401s share one refresh call under this key.
	refreshGroupKey = "refresh"
)

// Refresher mints a fresh set of credentials using the durable, server-held
// refresh credential. Implementations must not route through the Pipeline
// itself, otherwise a 401 from the refresh endpoint would recurse.
type Refresher interface {
	Refresh(ctx context.Context) (session.Credentials, error)
}

// Pipeline is the shared RoundTripper for all authenticated API traffic.
//
// For any single logical request the refresh-and-retry path executes at most
// once: a 401 on the retried call is terminal and clears the session instead
// of triggering another refresh. Concurrent requests that fail while a
// refresh is already underway join the in-flight refresh rather than issuing
// their own.
type Pipeline struct {
	base          http.RoundTripper
	store         *session.Store
	notice        *ratelimit.Notice
	refresher     Refresher
	onAuthExpired func()
	group         singleflight.Group
	log           zerolog.Logger
}

// PipelineOption defines a function type to modify the Pipeline instance.
type PipelineOption func(*Pipeline)

// WithBase sets the underlying RoundTripper (defaults to http.DefaultTransport).
func WithBase(rt http.RoundTripper) PipelineOption {
	return func(p *Pipeline) {
		p.base = rt
	}
}

// WithNotice sets the rate-limit advisory slot fed by 429 responses.
func WithNotice(notice *ratelimit.Notice) PipelineOption {
	return func(p *Pipeline) {
		p.notice = notice
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(log zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithAuthExpiredHandler sets the callback invoked when authorization is
// unrecoverable — the application's hard redirect to the login entry point.
func WithAuthExpiredHandler(handler func()) PipelineOption {
	return func(p *Pipeline) {
		p.onAuthExpired = handler
	}
}

// NewPipeline creates a Pipeline that reads and rewrites session state
// through the given store.
func NewPipeline(store *session.Store, options ...PipelineOption) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("[NewPipeline] store is required")
	}
	p := &Pipeline{
		base:   http.DefaultTransport,
		store:  store,
		notice: ratelimit.NewNotice(),
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// SetRefresher installs the silent-refresh primitive. Installed after
// construction because the API client that implements it is itself built on
// top of the pipeline's http.Client.
func (p *Pipeline) SetRefresher(r Refresher) {
	p.refresher = r
}

// RoundTrip implements http.RoundTripper.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	resp, err := p.base.RoundTrip(p.outbound(req, p.store.Token(), requestID, req.Body))
	if err != nil {
		return nil, err
	}
	p.logCacheIndicator(req, resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return p.recoverAuthorization(req, resp, requestID)
	case http.StatusTooManyRequests:
		return p.publishRateLimit(req, resp)
	}
	return resp, nil
}

// outbound clones the request and applies the outbound stage: bearer token
// (when a session exists) and correlation ID.
func (p *Pipeline) outbound(req *http.Request, token, requestID string, body io.ReadCloser) *http.Request {
	attempt := req.Clone(req.Context())
	attempt.Body = body
	if token != "" {
		attempt.Header.Set(headerAuthorization, bearerPrefix+token)
	} else {
		attempt.Header.Del(headerAuthorization)
	}
	attempt.Header.Set(headerRequestID, requestID)
	return attempt
}

// recoverAuthorization handles the one-shot refresh-and-retry path for a 401.
// The failing response is returned unchanged to the caller whenever recovery
// is impossible; recovery failure additionally clears the session and signals
// the login redirect.
func (p *Pipeline) recoverAuthorization(req *http.Request, failed *http.Response, requestID string) (*http.Response, error) {
	if p.refresher == nil {
		p.terminalAuthFailure()
		return failed, nil
	}

	// A consumed body that cannot be rebuilt rules out a retry.
	if req.Body != nil && req.GetBody == nil {
		p.terminalAuthFailure()
		return failed, nil
	}

	token, err := p.sharedRefresh(req.Context())
	if err != nil {
		p.log.Debug().Str("request_id", requestID).Err(err).Msg("silent refresh failed")
		p.terminalAuthFailure()
		return failed, nil
	}

	drainAndClose(failed.Body)

	var retryBody io.ReadCloser
	if req.GetBody != nil {
		retryBody, err = req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[Pipeline.recoverAuthorization] GetBody")
		}
	}

	p.log.Debug().Str("request_id", requestID).Str("path", req.URL.Path).Msg("retrying request with refreshed token")
	resp, err := p.base.RoundTrip(p.outbound(req, token, requestID, retryBody))
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// Second authorization failure is terminal, never another refresh.
		p.terminalAuthFailure()
	case http.StatusTooManyRequests:
		return p.publishRateLimit(req, resp)
	}
	return resp, nil
}

// sharedRefresh coalesces concurrent refresh attempts into a single upstream
// call and publishes the result to the store before any waiter proceeds.
func (p *Pipeline) sharedRefresh(ctx context.Context) (string, error) {
	token, err, _ := p.group.Do(refreshGroupKey, func() (interface{}, error) {
		creds, err := p.refresher.Refresh(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "[Pipeline.sharedRefresh] refresher.Refresh")
		}
		if err := p.store.Set(creds); err != nil {
			return nil, errors.Wrap(err, "[Pipeline.sharedRefresh] store.Set")
		}
		return creds.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (p *Pipeline) terminalAuthFailure() {
	p.store.Clear()
	if p.onAuthExpired != nil {
		p.onAuthExpired()
	}
}

func (p *Pipeline) logCacheIndicator(req *http.Request, resp *http.Response) {
	if indicator := resp.Header.Get(headerCache); indicator != "" {
		p.log.Debug().Str("path", req.URL.Path).Str("cache", indicator).Msg("cache indicator")
	}
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
