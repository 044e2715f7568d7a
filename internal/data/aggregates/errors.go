package aggregates

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("store validation")
	// ErrConflict indicates a uniqueness or concurrency conflict.
	ErrConflict = errors.New("store conflict")
	// ErrUnavailable indicates the backing store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

func UnavailableError(msg string) error {
	return errors.Join(ErrUnavailable, errors.New(strings.TrimSpace(msg)))
}

// MapError maps gorm, driver and context failures into engine error codes.
// Anything not recognised as a caller or constraint problem is a store fault.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrUnavailable):
		return domainagg.Wrap(domainagg.CodeStoreUnavailable, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeStoreUnavailable, op, err)
	case errors.Is(err, driver.ErrBadConn):
		return domainagg.Wrap(domainagg.CodeStoreUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "23503", "23502", "22P02":
			return domainagg.Wrap(domainagg.CodeValidation, op, err) // fk / not_null / invalid_text_representation
		default:
			return domainagg.Wrap(domainagg.CodeStoreUnavailable, op, err)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainagg.Wrap(domainagg.CodeStoreUnavailable, op, err)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "foreign key constraint failed"), strings.Contains(msg, "not null constraint failed"):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeStoreUnavailable, op, err)
	}
}
