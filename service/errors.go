package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAuthenticated means no valid platform session was supplied. It is a
// hard precondition failure, never silently retried.
var ErrNotAuthenticated = errors.New("no valid platform session")

// UpstreamError is a non-success HTTP status from the data platform.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("platform returned status %d: %s", e.StatusCode, e.Message)
}

// AccessForbiddenError tags a 403 upstream response so callers can render a
// permission-specific message. Resource is the denied service or table name
// when it could be extracted from the upstream message, otherwise empty.
type AccessForbiddenError struct {
	StatusCode int
	Message    string
	Resource   string
}

func (e *AccessForbiddenError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("access forbidden to %q: %s", e.Resource, e.Message)
	}
	return fmt.Sprintf("access forbidden: %s", e.Message)
}

func (e *AccessForbiddenError) Unwrap() error {
	return &UpstreamError{StatusCode: e.StatusCode, Message: e.Message}
}

// UnknownTableError is raised before any network call when a requested table
// is not part of the service.
type UnknownTableError struct {
	Table string
	Valid []string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q, valid tables: %s", e.Table, strings.Join(e.Valid, ", "))
}

// UnknownFieldError is raised before any network call when a requested field
// does not exist in the table's schema.
type UnknownFieldError struct {
	Field string
	Table string
	Valid []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q in table %q, valid fields: %s", e.Field, e.Table, strings.Join(e.Valid, ", "))
}

// NoSearchableFieldsError means filter construction found no string-typed
// candidate fields to search.
type NoSearchableFieldsError struct {
	Table string
}

func (e *NoSearchableFieldsError) Error() string {
	return fmt.Sprintf("table %q has no searchable string fields", e.Table)
}

// extractDeniedResource pulls the first single-quoted name out of an
// upstream 403 message, e.g. "Access Forbidden to requested service 'db'.".
func extractDeniedResource(message string) string {
	start := strings.Index(message, "'")
	if start < 0 {
		return ""
	}
	rest := message[start+1:]
	end := strings.Index(rest, "'")
	if end <= 0 {
		return ""
	}
	return rest[:end]
}
