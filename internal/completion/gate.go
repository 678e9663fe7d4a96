package completion

import (
	"context"
	"log/slog"
	"time"

	"github.com/remaimber-it/interviewer/internal/metrics"
)

// Gate fronts a Client with the availability decided once at startup.
// Requests never re-ping; when the ping failed every call returns an
// *UnavailableError immediately.
type Gate struct {
	client    Client
	available bool
}

// NewGate pings client once and caches the result. A nil client yields a
// permanently disabled gate.
func NewGate(ctx context.Context, client Client, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		logger.Info("text completion disabled")
		return &Gate{}
	}

	if err := client.Ping(ctx); err != nil {
		logger.Warn("text completion unavailable, using deterministic fallbacks",
			"provider", client.Name(), "error", err)
		return &Gate{client: client}
	}

	logger.Info("text completion available", "provider", client.Name())
	return &Gate{client: client, available: true}
}

// NewStaticGate wraps client with a fixed availability, skipping the ping.
func NewStaticGate(client Client, available bool) *Gate {
	return &Gate{client: client, available: available && client != nil}
}

// Available reports the cached ping result.
func (g *Gate) Available() bool {
	return g != nil && g.available
}

// Provider names the wrapped client, or "none".
func (g *Gate) Provider() string {
	if g == nil || g.client == nil {
		return "none"
	}
	return g.client.Name()
}

// Complete forwards to the client when available and records metrics.
func (g *Gate) Complete(ctx context.Context, p Prompt) (string, error) {
	if !g.Available() {
		return "", &UnavailableError{Provider: g.Provider(), Reason: "disabled", Wrapped: ErrDisabled}
	}

	provider := g.client.Name()
	start := time.Now()
	out, err := g.client.Complete(ctx, p)
	metrics.CompletionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CompletionRequestsTotal.WithLabelValues(provider, outcome).Inc()

	return out, err
}
