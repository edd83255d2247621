package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx retrieves the logger from the context, falling back to the global logger.
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}

// WithActor returns a context whose logger carries the actor of a social action.
func WithActor(ctx context.Context, actorID string) context.Context {
	l := Ctx(ctx).With().
		Str(FieldActorID, actorID).
		Logger()
	return WithLogger(ctx, l)
}
