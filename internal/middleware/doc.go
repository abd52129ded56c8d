// Package middleware provides the HTTP middleware placed in front of the
// dispatcher.
//
// # Middleware Components
//
//   - Recovery: panic recovery with stack trace logging
//   - RequestID: request identifier propagation and generation
//   - Logging: structured access logging
//
// # Usage
//
// Middleware functions follow the standard Go pattern and compose with
// Chain, the first middleware being the outermost:
//
//	handler := middleware.Chain(dispatcher,
//	    middleware.Recovery(logger, metrics),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with mws, the first one ending up outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
