package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid occurs when checks fails.
	ErrInvalid = errors.New("invalid")

	// ErrTooLarge occurs when a payload exceeds its configured size.
	ErrTooLarge = errors.New("too large")

	// ErrInternalError occurs when shit happens.
	ErrInternalError = errors.New("internal error")
)

// WrapError wraps err with the given wrapper.
func WrapError(err, wrapper error) error {
	if err == nil {
		return wrapper
	}

	return fmt.Errorf("%s: %w", err, wrapper)
}

// WrapInvalid wraps given error with invalid error.
func WrapInvalid(err error) error {
	return WrapError(err, ErrInvalid)
}

// WrapTooLarge wraps given error with too large error.
func WrapTooLarge(err error) error {
	return WrapError(err, ErrTooLarge)
}

// WrapInternal wraps given error with internal error.
func WrapInternal(err error) error {
	return WrapError(err, ErrInternalError)
}
