package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/ViBiOh/httpgzip/pkg/model"
	"github.com/stretchr/testify/assert"
)

type entry struct {
	Level   string     `json:"level"`
	Message string     `json:"msg"`
	Error   errorField `json:"error"`
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want errorField
	}{
		"simple": {
			errors.New("boom!"),
			errorField{
				Kind:    "*errors.errorString",
				Message: "boom!",
			},
		},
		"too large": {
			fmt.Errorf("decompress: %w", model.WrapTooLarge(errors.New("unzipped file"))),
			errorField{
				Kind:    "too_large",
				Message: "decompress: unzipped file: too large",
			},
		},
		"invalid": {
			model.WrapInvalid(errors.New("parse count")),
			errorField{
				Kind:    "invalid",
				Message: "parse count: invalid",
			},
		},
		"canceled": {
			fmt.Errorf("read body: %w", context.Canceled),
			errorField{
				Kind:    "canceled",
				Message: "read body: context canceled",
			},
		},
		"joined": {
			errors.Join(errors.New("read"), nil, errors.New("close")),
			errorField{
				Kind:    "*errors.joinError",
				Message: "read\nclose",
				Causes:  []string{"read", "close"},
			},
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			logOutput := bytes.NewBuffer(nil)
			logger := configureLogger(logOutput, slog.LevelInfo, true, "time", "level", "msg")

			logger.ErrorContext(context.Background(), "simple test", "error", testCase.err)

			var got entry
			assert.NoError(t, json.Unmarshal(logOutput.Bytes(), &got))

			assert.Equal(t, entry{
				Level:   slog.LevelError.String(),
				Message: "simple test",
				Error:   testCase.want,
			}, got)
		})
	}
}
