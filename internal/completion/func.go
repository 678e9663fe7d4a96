package completion

import "context"

// FuncClient adapts a function to the Client interface. It always pings
// successfully. Useful for tests and for wiring canned responses.
type FuncClient func(ctx context.Context, p Prompt) (string, error)

// Compile-time check: FuncClient satisfies the Client interface.
var _ Client = FuncClient(nil)

func (f FuncClient) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

func (f FuncClient) Ping(context.Context) error { return nil }

func (f FuncClient) Name() string { return "func" }
