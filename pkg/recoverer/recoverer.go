package recoverer

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/ViBiOh/httpgzip/pkg/httperror"
	"github.com/ViBiOh/httpgzip/pkg/model"
)

// Middleware answers 500 when the next handler panics
func Middleware(next http.Handler) http.Handler {
	if next == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				output := make([]byte, 1024)
				written := runtime.Stack(output, false)

				httperror.InternalServerError(r.Context(), w, model.WrapInternal(fmt.Errorf("recovered from panic on `%s`: %v\n%s", r.URL.Path, recovered, output[:written])))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
