// Package ratelimit holds the process-wide rate-limit advisory: a single,
// user-visible notice raised when any request receives HTTP 429. Only the
// most recent advisory is kept, and it expires on its own once the
// retry-after countdown elapses.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultMessage is shown when the 429 response carried no usable message.
const DefaultMessage = "Please slow down. You've exceeded the rate limit for this endpoint."

// Advisory describes one rate-limit event.
type Advisory struct {
	Message    string        // Human-readable explanation, server-provided or DefaultMessage
	RetryAfter time.Duration // How long the caller was told to wait
	IssuedAt   time.Time     // When the 429 was observed
}

// Notice is the singleton advisory slot. Publishing replaces whatever was
// there before; reading past the countdown returns nothing.
type Notice struct {
	lock    sync.Mutex
	current *Advisory
	nowTime func() time.Time
}

// NoticeOption configures a Notice.
type NoticeOption func(*Notice)

// WithNowTime sets the clock function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) NoticeOption {
	return func(n *Notice) {
		n.nowTime = nowFunc
	}
}

// NewNotice creates an empty advisory slot.
func NewNotice(options ...NoticeOption) *Notice {
	n := &Notice{nowTime: time.Now}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// Publish replaces the current advisory. Blank messages fall back to
// DefaultMessage and the issue time is stamped here so Remaining is
// consistent with the Notice's own clock.
func (n *Notice) Publish(message string, retryAfter time.Duration) {
	if message == "" {
		message = DefaultMessage
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.current = &Advisory{
		Message:    message,
		RetryAfter: retryAfter,
		IssuedAt:   n.nowTime(),
	}
}

// Current returns the active advisory, or false when there is none or the
// countdown has run out. An expired advisory is dropped on read.
func (n *Notice) Current() (Advisory, bool) {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.current == nil {
		return Advisory{}, false
	}
	if n.nowTime().Sub(n.current.IssuedAt) >= n.current.RetryAfter {
		n.current = nil
		return Advisory{}, false
	}
	return *n.current, true
}

// Remaining returns the time left on the active countdown, zero when none.
func (n *Notice) Remaining() time.Duration {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.current == nil {
		return 0
	}
	remaining := n.current.RetryAfter - n.nowTime().Sub(n.current.IssuedAt)
	if remaining <= 0 {
		n.current = nil
		return 0
	}
	return remaining
}

// Dismiss clears the advisory before its countdown ends.
func (n *Notice) Dismiss() {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.current = nil
}
