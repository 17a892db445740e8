package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

// Lookup failures are the repository sentinels so callers can test with
// errors.Is regardless of which layer produced them.
var (
	ErrSpaceNotFound   = repository.ErrSpaceNotFound
	ErrBookingNotFound = repository.ErrBookingNotFound
	ErrForbidden       = repository.ErrForbidden
)

// ValidationError reports malformed input, keyed by request field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError means the requested slot or space cannot be booked.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Reason }

// AuthError means the operation needs an authenticated session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "unauthorized: " + e.Reason }

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// NotificationError records a failed confirmation dispatch.  It never fails
// the booking that triggered it.
type NotificationError struct {
	BookingID string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify booking %s: %v", e.BookingID, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// storageErr passes lookup sentinels through and wraps everything else.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrSpaceNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrForbidden):
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func requireSession(sess *model.Session) error {
	if !sess.Authenticated() {
		return &AuthError{Reason: "missing session"}
	}
	return nil
}
