package learning

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

type ResolutionStatus string

const (
	ResolutionMatched       ResolutionStatus = "matched"
	ResolutionFallback      ResolutionStatus = "fallback"
	ResolutionNotConfigured ResolutionStatus = "not_configured"
)

// Resolution is the outcome of picking a variant for a learner. NotConfigured is a
// normal value, not an error.
type Resolution struct {
	Status       ResolutionStatus `json:"status"`
	StyleMatched bool             `json:"style_matched"`
	Variant      *ContentVariant  `json:"variant,omitempty"`
}

func (r Resolution) Configured() bool { return r.Variant != nil }

// SortVariants orders variants by created_at then id. The slice is sorted in place.
func SortVariants(variants []*ContentVariant) {
	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}

// SelectVariant picks the variant to serve for styleID:
//   - the first exact style match in stable order
//   - else the first style-agnostic default
//   - else the first variant of any style
//
// Input order does not matter; nil entries are ignored.
func SelectVariant(variants []*ContentVariant, styleID *uuid.UUID) Resolution {
	pool := make([]*ContentVariant, 0, len(variants))
	for _, v := range variants {
		if v != nil {
			pool = append(pool, v)
		}
	}
	if len(pool) == 0 {
		return Resolution{Status: ResolutionNotConfigured}
	}
	SortVariants(pool)

	if styleID != nil && *styleID != uuid.Nil {
		for _, v := range pool {
			if v.StyleID != nil && *v.StyleID == *styleID {
				return Resolution{Status: ResolutionMatched, StyleMatched: true, Variant: v}
			}
		}
	}
	for _, v := range pool {
		if v.IsDefault() {
			return Resolution{Status: ResolutionFallback, Variant: v}
		}
	}
	return Resolution{Status: ResolutionFallback, Variant: pool[0]}
}
