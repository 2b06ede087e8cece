// Package service provides business logic for the application.
package service

import (
	"errors"
	"strings"
)

// Service errors.
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidResume      = errors.New("invalid resume")
	ErrResumeNotFound     = errors.New("resume not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// FieldError is a problem with one form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries per-field messages. It matches Kind with errors.Is.
type ValidationError struct {
	Kind   error
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// FieldMessages groups messages by field name.
func (e *ValidationError) FieldMessages() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}
