package guard

import "context"

// Callback returns a pre-execution hook that ensures trusted state.
// Frameworks register it to run before a chat, kickoff or tool call.
func (g *Guard) Callback(opts *EnsureOptions) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := g.Ensure(ctx, opts)
		return err
	}
}

// Wrap returns a function that ensures trusted state before delegating
// to fn, returning fn's result unchanged.
func Wrap[T any](g *Guard, opts *EnsureOptions, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		if _, err := g.Ensure(ctx, opts); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	}
}
