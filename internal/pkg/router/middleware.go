package router

import "net/http"

// Middleware decorates an http.Handler with extra behavior.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with the given middlewares; the first middleware in the list
// becomes the outermost wrapper.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}
