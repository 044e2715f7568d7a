package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainagg.CodeValidation},
		{"conflict", ConflictError("stale"), domainagg.CodeConflict},
		{"unavailable", UnavailableError("down"), domainagg.CodeStoreUnavailable},
		{"not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"deadline", context.DeadlineExceeded, domainagg.CodeStoreUnavailable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, domainagg.CodeValidation},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, domainagg.CodeStoreUnavailable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: enrollment.learner_id"), domainagg.CodeConflict},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), domainagg.CodeValidation},
		{"unknown", errors.New("connection refused"), domainagg.CodeStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError("op", tt.in)
			if !domainagg.IsCode(err, tt.want) {
				t.Fatalf("want %q got %q (%v)", tt.want, domainagg.CodeOf(err), err)
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatalf("expected nil")
	}
}

func TestMapErrorPassthroughEngineError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeInvalidSection, "op", "wrong course", nil)
	out := MapError("other", fmt.Errorf("ctx: %w", in))
	if !domainagg.IsCode(out, domainagg.CodeInvalidSection) {
		t.Fatalf("expected passthrough, got %v", out)
	}
}
