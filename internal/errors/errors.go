// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed input. It is raised before
// any external call or write happens.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// Helper constructor
func NewValidation(message string, fields []string) error {
	return &ValidationError{Message: message, Fields: fields}
}

// NotFoundError covers both a genuinely absent row and a row owned by a
// different user; callers cannot tell the two apart.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNasabahNotFound(id string) error {
	return &NotFoundError{Resource: "nasabah", ID: id}
}

// UpstreamError means the scoring API failed. Status is the HTTP status it
// answered with, or 0 when the call never reached it.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("scoring api returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("scoring api unreachable: %s", e.Body)
}

func NewUpstream(status int, body string) error {
	return &UpstreamError{Status: status, Body: body}
}

// PersistenceError wraps a failed database operation after rollback.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
