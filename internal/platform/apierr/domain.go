package apierr

import (
	"errors"
	"net/http"

	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
)

// FromDomain maps an error to its HTTP form. An existing *Error is returned as-is;
// coded domain errors map by code; anything else becomes a 500 with fallbackCode.
func FromDomain(fallbackCode string, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := domainagg.CodeOf(err)
	switch code {
	case domainagg.CodeValidation:
		return BadRequest(string(code), err)
	case domainagg.CodeNotFound:
		return NotFound(string(code), err)
	case domainagg.CodeConflict, domainagg.CodeImmutable:
		return New(http.StatusConflict, string(code), err)
	case domainagg.CodeInvalidSection, domainagg.CodeNotConfigured:
		return Unprocessable(string(code), err)
	case domainagg.CodeStoreUnavailable:
		return Unavailable(string(code), err)
	case domainagg.CodeConfiguration, domainagg.CodeInternal:
		return Internal(string(code), err)
	}
	return Internal(fallbackCode, err)
}
