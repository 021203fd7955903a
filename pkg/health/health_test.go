package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestService(pingers ...func(context.Context) error) *Service {
	okStatus := http.StatusNoContent
	graceDuration := time.Duration(0)

	return New(Config{
		okStatus:      &okStatus,
		graceDuration: &graceDuration,
	}, pingers...)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	writer := httptest.NewRecorder()
	newTestService().HealthHandler().ServeHTTP(writer, httptest.NewRequest(http.MethodGet, LivePath, nil))

	assert.Equal(t, http.StatusNoContent, writer.Code)
}

func TestReadyHandler(t *testing.T) {
	t.Parallel()

	shutdown := newTestService()
	close(shutdown.done)

	cases := map[string]struct {
		instance   *Service
		wantStatus int
	}{
		"simple": {
			newTestService(),
			http.StatusNoContent,
		},
		"shutdown": {
			shutdown,
			http.StatusServiceUnavailable,
		},
		"failing pinger": {
			newTestService(func(context.Context) error {
				return errors.New("boom")
			}),
			http.StatusServiceUnavailable,
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			writer := httptest.NewRecorder()
			testCase.instance.ReadyHandler().ServeHTTP(writer, httptest.NewRequest(http.MethodGet, ReadyPath, nil))

			assert.Equal(t, testCase.wantStatus, writer.Code)
		})
	}
}

func TestWaitForTermination(t *testing.T) {
	t.Parallel()

	service := newTestService()
	ctx := service.EndCtx(context.Background())

	done := make(chan struct{})
	close(done)

	service.WaitForTermination(done)

	<-service.Done()
	<-ctx.Done()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
