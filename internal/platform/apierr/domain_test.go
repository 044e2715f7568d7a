package apierr

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
)

func TestFromDomain(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domainagg.NewError(domainagg.CodeValidation, "op", "bad", nil), http.StatusBadRequest, "validation"},
		{domainagg.NewError(domainagg.CodeNotFound, "op", "missing", nil), http.StatusNotFound, "not_found"},
		{domainagg.NewError(domainagg.CodeInvalidSection, "op", "learn", nil), http.StatusUnprocessableEntity, "invalid_section"},
		{domainagg.NewError(domainagg.CodeStoreUnavailable, "op", "down", nil), http.StatusServiceUnavailable, "store_unavailable"},
		{domainagg.NewError(domainagg.CodeImmutable, "op", "frozen", nil), http.StatusConflict, "immutable"},
		{errors.New("boom"), http.StatusInternalServerError, "fallback"},
		{NotFound("custom", nil), http.StatusNotFound, "custom"},
	}
	for _, tc := range cases {
		got := FromDomain("fallback", tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("%v: want %d/%s got %d/%s", tc.err, tc.status, tc.code, got.Status, got.Code)
		}
	}
	if FromDomain("x", nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}
