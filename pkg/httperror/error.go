package httperror

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ViBiOh/httpgzip/pkg/model"
)

const (
	internalError = "Oops! Something went wrong. Server's logs contain more details."
)

func httpError(ctx context.Context, w http.ResponseWriter, status int, payload string, err error) {
	w.Header().Add("Cache-Control", "no-cache")
	http.Error(w, payload, status)

	logError(ctx, status, err)
}

func logError(ctx context.Context, status int, err error) {
	if err == nil {
		return
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	slog.LogAttrs(ctx, level, err.Error(), slog.Int("status_code", status))
}

// Payload writes the given payload as-is, without the trailing newline added by http.Error
func Payload(ctx context.Context, w http.ResponseWriter, status int, contentType, payload string) {
	w.Header().Add("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(payload)); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "write error payload", slog.Int("status_code", status), slog.Any("error", err))
	}
}

func BadRequest(ctx context.Context, w http.ResponseWriter, err error) {
	httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
}

func InternalServerError(ctx context.Context, w http.ResponseWriter, err error) {
	httpError(ctx, w, http.StatusInternalServerError, internalError, err)
}

func HandleError(ctx context.Context, w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	status, message := ErrorStatus(err)
	httpError(ctx, w, status, message, err)

	return true
}

func ErrorStatus(err error) (status int, message string) {
	status = http.StatusInternalServerError
	if err == nil {
		return
	}

	message = err.Error()

	switch {
	case errors.Is(err, model.ErrInvalid), errors.Is(err, model.ErrTooLarge):
		status = http.StatusBadRequest
	default:
		message = internalError
	}

	return
}
