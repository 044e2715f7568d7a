package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

const variantKeyPrefix = "variants:"

func VariantKey(sectionID uuid.UUID) string {
	return variantKeyPrefix + sectionID.String()
}

// VariantCache stores a section's full variant list (answer keys included) as JSON.
// Redis failures are logged and reported as misses.
type VariantCache struct {
	rdb     goredis.UniversalClient
	ttl     time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewVariantCache(rdb goredis.UniversalClient, ttl time.Duration, log *logger.Logger, metrics *observability.Metrics) *VariantCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &VariantCache{rdb: rdb, ttl: ttl, log: log.With("service", "RedisVariantCache"), metrics: metrics}
}

func (c *VariantCache) Get(ctx context.Context, sectionID uuid.UUID) ([]*types.ContentVariant, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, VariantKey(sectionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.metrics.IncCacheLookup("miss")
		return nil, false
	}
	if err != nil {
		c.metrics.IncCacheLookup("error")
		c.log.Warn("variant cache read failed", "section_id", sectionID, "error", err)
		return nil, false
	}
	variants, err := DecodeVariants(raw)
	if err != nil {
		c.metrics.IncCacheLookup("error")
		c.log.Warn("variant cache payload corrupt", "section_id", sectionID, "error", err)
		_ = c.rdb.Del(ctx, VariantKey(sectionID)).Err()
		return nil, false
	}
	c.metrics.IncCacheLookup("hit")
	return variants, true
}

func (c *VariantCache) Set(ctx context.Context, sectionID uuid.UUID, variants []*types.ContentVariant) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := EncodeVariants(variants)
	if err != nil {
		c.log.Warn("variant cache encode failed", "section_id", sectionID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, VariantKey(sectionID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("variant cache write failed", "section_id", sectionID, "error", err)
	}
}

func (c *VariantCache) Invalidate(ctx context.Context, sectionIDs ...uuid.UUID) {
	if c == nil || c.rdb == nil || len(sectionIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(sectionIDs))
	for _, id := range sectionIDs {
		keys = append(keys, VariantKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("variant cache invalidate failed", "sections", len(keys), "error", err)
	}
}

// cachedVariant is the cache wire format, decoupled from the API JSON tags.
type cachedVariant struct {
	ID        uuid.UUID         `json:"id"`
	SectionID uuid.UUID         `json:"section_id"`
	StyleID   *uuid.UUID        `json:"style_id,omitempty"`
	Title     string            `json:"title,omitempty"`
	Body      string            `json:"body,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Questions []*cachedQuestion `json:"questions,omitempty"`
}

type cachedQuestion struct {
	ID         uuid.UUID       `json:"id"`
	Position   int             `json:"position"`
	Prompt     string          `json:"prompt"`
	Choices    json.RawMessage `json:"choices,omitempty"`
	CorrectKey string          `json:"correct_key"`
}

func EncodeVariants(variants []*types.ContentVariant) ([]byte, error) {
	out := make([]*cachedVariant, 0, len(variants))
	for _, v := range variants {
		if v == nil {
			continue
		}
		cv := &cachedVariant{
			ID:        v.ID,
			SectionID: v.SectionID,
			StyleID:   v.StyleID,
			Title:     v.Title,
			Body:      v.Body,
			CreatedAt: v.CreatedAt,
		}
		for _, q := range v.Questions {
			if q == nil {
				continue
			}
			cv.Questions = append(cv.Questions, &cachedQuestion{
				ID:         q.ID,
				Position:   q.Position,
				Prompt:     q.Prompt,
				Choices:    json.RawMessage(q.Choices),
				CorrectKey: q.CorrectKey,
			})
		}
		out = append(out, cv)
	}
	return json.Marshal(out)
}

func DecodeVariants(raw []byte) ([]*types.ContentVariant, error) {
	var in []*cachedVariant
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]*types.ContentVariant, 0, len(in))
	for _, cv := range in {
		if cv == nil {
			continue
		}
		v := &types.ContentVariant{
			ID:        cv.ID,
			SectionID: cv.SectionID,
			StyleID:   cv.StyleID,
			Title:     cv.Title,
			Body:      cv.Body,
			CreatedAt: cv.CreatedAt,
		}
		for _, q := range cv.Questions {
			if q == nil {
				continue
			}
			v.Questions = append(v.Questions, &types.Question{
				ID:         q.ID,
				VariantID:  cv.ID,
				Position:   q.Position,
				Prompt:     q.Prompt,
				Choices:    []byte(q.Choices),
				CorrectKey: q.CorrectKey,
			})
		}
		out = append(out, v)
	}
	return out, nil
}
