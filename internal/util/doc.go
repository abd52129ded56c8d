// Package util provides utility functions and types shared by the
// routing, registry and dispatch packages.
//
// # Context Helpers
//
// Context utilities for request-scoped data:
//
//	ctx = util.ContextWithRequestID(ctx, "req-123")
//	ctx = util.ContextWithTarget(ctx, "HelloController", "show")
//	requestID := util.RequestIDFromContext(ctx)
//
// # Error Types
//
//   - ConfigConflictError: contradictory route or filter configuration
//   - ClassLoadError: a controller type could not be resolved or created
//   - ActionNotFoundError: an action name has no registered handler
//   - RouteNotFoundError: no route matched a request
//   - Common sentinel errors: ErrNotFound, ErrClassLoad, etc.
//
// # HTTP Utilities
//
// Response writer wrappers for status code capture:
//
//	w := util.NewStatusCapturingResponseWriter(responseWriter)
//	handler.ServeHTTP(w, r)
//	statusCode := w.StatusCode
package util
