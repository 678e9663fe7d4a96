// Package completion turns prompts into raw model text. The core treats the
// returned text as untrusted and parses it elsewhere.
package completion

import (
	"context"
	"errors"
	"fmt"
)

// Options bound a single completion call.
type Options struct {
	MaxTokens   int
	Temperature float64
	Stop        []string
}

// Prompt is a system/user message pair plus call options.
type Prompt struct {
	System  string
	User    string
	Options Options
}

// Client calls a text completion provider. Implementations may call an
// HTTP endpoint, an SDK, or return canned text (for tests).
type Client interface {
	// Complete returns the raw model text for the prompt.
	Complete(ctx context.Context, p Prompt) (string, error)
	// Ping checks that the provider is reachable and the model exists.
	Ping(ctx context.Context) error
	// Name identifies the provider in logs and metrics.
	Name() string
}

// ErrDisabled is wrapped by UnavailableError when no provider is configured
// or the startup ping failed.
var ErrDisabled = errors.New("text completion disabled")

// UnavailableError is returned when the provider cannot be reached, so the
// caller can tell "service down" from "model answered badly".
type UnavailableError struct {
	Provider string
	Reason   string
	Wrapped  error
}

func (e *UnavailableError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("completion unavailable (%s): %s: %v", e.Provider, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("completion unavailable (%s): %s", e.Provider, e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Wrapped
}
