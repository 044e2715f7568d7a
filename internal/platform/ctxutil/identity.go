package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type identityKey struct{}

// Identity is the already-resolved caller identity attached by the identity middleware.
type Identity struct {
	LearnerID uuid.UUID
	Token     string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if id, ok := val.(*Identity); ok {
		return id
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
