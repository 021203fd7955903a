package httputils

import (
	"log/slog"
	"net/http"

	"github.com/ViBiOh/httpgzip/pkg/health"
	"github.com/ViBiOh/httpgzip/pkg/model"
)

const versionPath = "/version"

func versionHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := w.Write([]byte(model.Version())); err != nil {
			slog.LogAttrs(r.Context(), slog.LevelError, "write version", slog.Any("error", err))
		}
	})
}

// Handler serves health and version endpoints, other paths go through the middlewares to the handler
func Handler(handler http.Handler, healthService *health.Service, middlewares ...model.Middleware) http.Handler {
	versionHandler := versionHandler()
	defaultHandler := model.ChainMiddlewares(handler, middlewares...)

	healthHandler := healthService.HealthHandler()
	readyHandler := healthService.ReadyHandler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case health.LivePath:
			healthHandler.ServeHTTP(w, r)
		case health.ReadyPath:
			readyHandler.ServeHTTP(w, r)
		case versionPath:
			versionHandler.ServeHTTP(w, r)
		default:
			defaultHandler.ServeHTTP(w, r)
		}
	})
}
