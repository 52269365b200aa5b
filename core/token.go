package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/repolens/internal/util"
)

// ErrCancelled is returned by Token.Check once the token has been cancelled.
// Analyzer units and the orchestrator classify an error chain containing it
// as a cancellation rather than a failure.
var ErrCancelled = errors.New("operation was cancelled")

// CancelledMessage is the error text recorded on results synthesized for
// units that were cancelled before producing an outcome.
const CancelledMessage = "Operation was cancelled"

// Token is a shared, poll-based cooperative cancellation signal.
//
// A token is created per logical operation (typically one orchestration run),
// handed to every unit of work participating in that operation, and polled at
// natural checkpoints inside long loops. Cancellation is advisory: a unit that
// never polls simply runs to completion. The flag is monotonic: once
// cancelled a token stays cancelled for its lifetime.
//
// All methods are safe for concurrent use and tolerate a nil receiver, so
// callers may treat the token as optional.
type Token struct {
	id        string
	created   time.Time
	cancelled atomic.Bool
	done      chan struct{}
	once      sync.Once
}

// NewToken creates a fresh, uncancelled token with a generated id.
func NewToken() *Token {
	return &Token{
		id:      util.NewID(),
		created: time.Now(),
		done:    make(chan struct{}),
	}
}

// ID returns the opaque token identifier.
func (t *Token) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Cancel sets the cancelled flag. It is idempotent: calling it twice has the
// same effect as once. The flag becomes visible to every reader on any
// goroutine, and Done() is closed exactly once.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.cancelled.Store(true)
	t.once.Do(func() { close(t.done) })
}

// IsCancelled reports whether Cancel has been called. It never blocks.
func (t *Token) IsCancelled() bool {
	if t == nil {
		return false
	}
	return t.cancelled.Load()
}

// Check returns nil while the token is live and ErrCancelled on every call
// after Cancel, including the very first. It is intended to be called at
// bounded intervals inside scan loops so cancellation latency is bounded by
// the checkpoint interval, not by the total work size.
func (t *Token) Check() error {
	if t.IsCancelled() {
		return ErrCancelled
	}
	return nil
}

// Done returns a channel closed when the token is cancelled, enabling
// select-based waits alongside the polling API. A nil token yields a channel
// that never closes.
func (t *Token) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

// Elapsed returns the wall-clock time since the token was created. It exists
// for display purposes only; the token itself enforces no timeout.
func (t *Token) Elapsed() time.Duration {
	if t == nil {
		return 0
	}
	return time.Since(t.created)
}
