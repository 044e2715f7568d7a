package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// VariantCache is a read-through cache of a section's variants. Implementations
// must treat their own failures as misses.
type VariantCache interface {
	Get(ctx context.Context, sectionID uuid.UUID) ([]*types.ContentVariant, bool)
	Set(ctx context.Context, sectionID uuid.UUID, variants []*types.ContentVariant)
	Invalidate(ctx context.Context, sectionIDs ...uuid.UUID)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev types.Event) error
}

type noopVariantCache struct{}

func (noopVariantCache) Get(context.Context, uuid.UUID) ([]*types.ContentVariant, bool) {
	return nil, false
}
func (noopVariantCache) Set(context.Context, uuid.UUID, []*types.ContentVariant) {}
func (noopVariantCache) Invalidate(context.Context, ...uuid.UUID)                {}

func NewNoopVariantCache() VariantCache { return noopVariantCache{} }

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, types.Event) error { return nil }

func NewNoopEventPublisher() EventPublisher { return noopEventPublisher{} }

// publishEvent delivers ev on a detached context. Failures are logged and counted
// and never reach the caller.
func publishEvent(ctx context.Context, pub EventPublisher, log *logger.Logger, metrics *observability.Metrics, ev types.Event) {
	if pub == nil {
		return
	}
	rt, _ := ctxutil.RequestTraceFrom(ctx)
	if ev.RequestID == "" {
		ev.RequestID = rt.RequestID
	}
	if err := pub.Publish(context.WithoutCancel(ctx), ev); err != nil {
		metrics.IncEventPublished(string(ev.Type), false)
		fields := append([]interface{}{"type", ev.Type, "learner_id", ev.LearnerID, "error", err}, rt.LogFields()...)
		log.Warn("event publish failed", fields...)
		return
	}
	metrics.IncEventPublished(string(ev.Type), true)
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func intPtr(v int) *int { return &v }
