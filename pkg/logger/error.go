package logger

import (
	"context"
	"errors"
	"reflect"

	"github.com/ViBiOh/httpgzip/pkg/model"
)

type errorField struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Causes  []string `json:"causes,omitempty"`
}

// ErrorField renders an error with its kind, model sentinels first, and the messages of joined errors
func ErrorField(err error) errorField {
	output := errorField{
		Kind:    errorKind(err),
		Message: err.Error(),
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, cause := range joined.Unwrap() {
			if cause != nil {
				output.Causes = append(output.Causes, cause.Error())
			}
		}
	}

	return output
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrTooLarge):
		return "too_large"
	case errors.Is(err, model.ErrInvalid):
		return "invalid"
	case errors.Is(err, model.ErrInternalError):
		return "internal"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	default:
		return reflect.TypeOf(err).String()
	}
}
