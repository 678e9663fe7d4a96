// Package cascade expresses "try the AI path, fall back to the heuristic"
// as one combinator so every such cascade reads and behaves the same way.
package cascade

import (
	"context"
	"errors"
	"log/slog"

	"github.com/remaimber-it/interviewer/internal/metrics"
)

// ErrEmpty marks a primary step that ran but produced nothing usable.
var ErrEmpty = errors.New("primary step produced no usable result")

// Outcome is the result of a primary step: either a value or a soft failure.
type Outcome[T any] struct {
	op    string
	value T
	err   error
	log   *slog.Logger
}

// Attempt runs primary and captures its result. A nil logger means
// slog.Default().
func Attempt[T any](ctx context.Context, logger *slog.Logger, op string, primary func(context.Context) (T, error)) Outcome[T] {
	if logger == nil {
		logger = slog.Default()
	}
	v, err := primary(ctx)
	return Outcome[T]{op: op, value: v, err: err, log: logger}
}

// Skip returns an already failed outcome, for when the primary path is
// disabled up front.
func Skip[T any](op string, reason error) Outcome[T] {
	return Outcome[T]{op: op, err: reason}
}

// Ok reports whether the primary step succeeded.
func (o Outcome[T]) Ok() bool { return o.err == nil }

// Err returns the soft failure, if any.
func (o Outcome[T]) Err() error { return o.err }

// Value returns the primary value, which is the zero value on failure.
func (o Outcome[T]) Value() T { return o.value }

// OrElse returns the primary value, or the fallback's value when the
// primary step failed. Failures are logged and counted, never returned.
func (o Outcome[T]) OrElse(fallback func() T) T {
	if o.err == nil {
		return o.value
	}

	metrics.FallbacksTotal.WithLabelValues(o.op).Inc()
	if o.log != nil {
		o.log.Warn("falling back", "op", o.op, "reason", o.err)
	}
	return fallback()
}
