package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"
)

// defaultRetryAfter is used when a 429 carries no parseable Retry-After header.
const defaultRetryAfter = 60 * time.Second

// maxAdvisoryBody bounds how much of a 429 body is read for its message.
const maxAdvisoryBody = 64 << 10

// publishRateLimit extracts the retry-after duration and message from a 429
// response and raises the process-wide advisory. The response is handed back
// to the caller with its body intact; rate-limited calls are never retried
// automatically.
func (p *Pipeline) publishRateLimit(req *http.Request, resp *http.Response) (*http.Response, error) {
	retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))

	var message string
	if resp.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAdvisoryBody))
		_ = resp.Body.Close()
		if err == nil {
			message = envelopeErrorMessage(raw)
			resp.Body = io.NopCloser(bytes.NewReader(raw))
		} else {
			resp.Body = http.NoBody
		}
	}

	p.notice.Publish(message, retryAfter)
	p.log.Warn().
		Str("path", req.URL.Path).
		Dur("retry_after", retryAfter).
		Msg("rate limited")
	return resp, nil
}

// parseRetryAfter understands the delta-seconds form of the header. The
// backend's rate limiter only ever emits seconds; anything else falls back
// to the default.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

// envelopeErrorMessage pulls error.message out of the standard response
// envelope, returning "" when the body is not an envelope.
func envelopeErrorMessage(raw []byte) string {
	var payload struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == nil {
		return ""
	}
	return payload.Error.Message
}
