package audit

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// WithActor attaches the id of the user performing the request.
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	if actor == uuid.Nil {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting user id, or nil for system-initiated work.
func ActorFrom(ctx context.Context) *uuid.UUID {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(actorKey{}).(uuid.UUID); ok {
		return &v
	}
	return nil
}
