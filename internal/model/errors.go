package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrForbidden       = errors.New("only the owner may change this work")
	ErrUnauthenticated = errors.New("you must log in to do that")
	ErrAlreadyVoted    = errors.New("user has already voted for this work")
)

// ValidationError maps input fields to the reasons they were rejected.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range e.Fields[field] {
			parts = append(parts, field+" "+msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError builds a ValidationError holding a single message.
func FieldError(field, msg string) *ValidationError {
	e := NewValidationError()
	e.Add(field, msg)
	return e
}
