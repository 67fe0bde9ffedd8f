// Package errtrack reports unexpected errors from external collaborators to
// an error tracking sink. Handlers never crash on a failed store, blob, or
// index call; they capture the error here and answer with a generic message.
package errtrack

import (
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/radiorasclat/api/internal/version"
)

// Sink receives errors worth investigating.
type Sink interface {
	Capture(err error)
}

// Sentry reports captured errors to a Sentry project.
type Sentry struct{}

// NewSentry initializes the Sentry SDK. An empty DSN disables transport,
// which keeps local development quiet.
func NewSentry(dsn, environment string) (*Sentry, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     version.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing sentry: %w", err)
	}
	return &Sentry{}, nil
}

// Capture forwards the error to Sentry.
func (s *Sentry) Capture(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Close flushes buffered events before shutdown.
func (s *Sentry) Close() {
	sentry.Flush(2 * time.Second)
}

// Recorder collects captured errors in memory. Used in tests.
type Recorder struct {
	mu     sync.Mutex
	errors []error
}

// Capture appends the error to the recorder.
func (r *Recorder) Capture(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// Errors returns a copy of all captured errors.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errors))
	copy(out, r.errors)
	return out
}

// Nop discards all errors.
type Nop struct{}

// Capture does nothing.
func (Nop) Capture(error) {}
