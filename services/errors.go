package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("access denied")
	ErrInvalidState = errors.New("invalid order state")
	ErrValidation   = errors.New("validation failed")
)

// Violation is one failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, rule, msg string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Rule: rule, Message: msg}}}
}

// notFound turns gorm.ErrRecordNotFound into ErrNotFound and leaves other errors alone.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}
