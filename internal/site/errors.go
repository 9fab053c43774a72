package site

import (
	"errors"

	"coal-site/internal/models"
)

var (
	ErrNotFound     = models.ErrNotFound
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError names the offending field of a rejected write.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}
