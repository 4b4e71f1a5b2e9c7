// Package api is the typed client for the myShop backend. Every endpoint
// returns the standard envelope {success, data, error:{message}}; this
// package decodes it and translates failures into the error taxonomy in
// errors.go. Cross-cutting auth behaviour (bearer injection, refresh-and-
// retry, rate-limit advisories) lives in the transport pipeline the client
// is constructed with, not here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultBaseURL matches a locally running backend.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// Client issues calls against the backend. Authenticated traffic goes
// through the pipeline-backed http.Client; auth endpoints (login, register,
// refresh) go through the bare client, which shares the cookie jar carrying
// the httpOnly refresh credential but bypasses the pipeline so a 401 from
// the auth endpoints can never recurse into another refresh.
type Client struct {
	baseURL  string
	http     *http.Client
	bare     *http.Client
	validate *Validator
	log      zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient sets the client used for all non-auth endpoints. Its
// transport should be the request pipeline.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithBareClient sets the client used for the auth endpoints. It should
// share the cookie jar with the pipeline client and use a plain transport.
func WithBareClient(bareClient *http.Client) ClientOption {
	return func(c *Client) {
		c.bare = bareClient
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client for the given base URL (e.g.
// "https://shop.example.com/api/v1").
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	c := &Client{
		baseURL:  baseURL,
		http:     http.DefaultClient,
		validate: NewValidator(),
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.bare == nil {
		c.bare = c.http
	}
	return c, nil
}

// envelope is the standard response wrapper around every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// do issues one call and decodes the envelope's data into out (when non-nil).
// Request bodies are marshalled to JSON up front so the pipeline can replay
// them on its one-shot retry.
func (c *Client) do(ctx context.Context, httpClient *http.Client, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.do] marshal %s %s", method, path)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{Err: err}
	}

	var env envelope
	decodable := json.Unmarshal(raw, &env) == nil

	if resp.StatusCode >= 400 {
		message := ""
		if decodable && env.Error != nil {
			message = env.Error.Message
		}
		return newStatusError(resp.StatusCode, message)
	}

	if !decodable {
		return errors.Errorf("[Client.do] %s %s: response is not an envelope", method, path)
	}
	if !env.Success {
		message := "request failed"
		if env.Error != nil && env.Error.Message != "" {
			message = env.Error.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message, kind: ErrValidationRejected}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrapf(err, "[Client.do] decode %s %s", method, path)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, c.http, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, c.http, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, c.http, http.MethodPut, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.http, http.MethodDelete, path, nil, nil, out)
}
