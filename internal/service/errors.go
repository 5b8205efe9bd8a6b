package service

import (
	"errors"
	"strings"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrSlugExists         = errors.New("slug already exists")
	ErrSlugEmpty          = errors.New("slug cannot be derived from an empty title")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("not allowed to modify this resource")
)

// FieldError 描述单个字段的校验失败原因。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects validation failures in the order they were found.
type FieldErrors []FieldError

// Add appends a failure for field.
func (f *FieldErrors) Add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

// Err returns nil when nothing failed, otherwise a *ValidationError.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError is returned before any write happens.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages returns the bare messages, in order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

func fieldError(field, message string) error {
	return FieldErrors{{Field: field, Message: message}}.Err()
}
