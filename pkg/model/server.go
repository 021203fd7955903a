package model

import (
	"context"
	"net/http"
)

// Middleware describe a middleware in the net/http package form
type Middleware func(http.Handler) http.Handler

type Pinger = func(context.Context) error

// ChainMiddlewares chains middlewares call for easy wrapping
func ChainMiddlewares(handler http.Handler, middlewares ...Middleware) http.Handler {
	result := handler

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			result = middlewares[i](result)
		}
	}

	return result
}
