package util

import (
	"context"
	"time"
)

// Context keys.
type ctxKey string

const (
	ctxKeyRequestID    ctxKey = "request_id"
	ctxKeyStartTime    ctxKey = "start_time"
	ctxKeyController   ctxKey = "controller"
	ctxKeyAction       ctxKey = "action"
	ctxKeyUserSegments ctxKey = "user_segments"
)

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// ContextWithStartTime adds a start time to the context.
func ContextWithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKeyStartTime, t)
}

// StartTimeFromContext extracts the start time from context.
func StartTimeFromContext(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ctxKeyStartTime).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// ContextWithTarget records the resolved controller class name and action
// on the context.
func ContextWithTarget(ctx context.Context, controller, action string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyController, controller)
	return context.WithValue(ctx, ctxKeyAction, action)
}

// ControllerFromContext returns the resolved controller class name.
func ControllerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyController).(string); ok {
		return v
	}
	return ""
}

// ActionFromContext returns the resolved action name.
func ActionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyAction).(string); ok {
		return v
	}
	return ""
}

// ContextWithUserSegments adds named route segments to the context.
func ContextWithUserSegments(ctx context.Context, segments map[string]string) context.Context {
	return context.WithValue(ctx, ctxKeyUserSegments, segments)
}

// UserSegmentsFromContext extracts named route segments from context.
func UserSegmentsFromContext(ctx context.Context) map[string]string {
	if v, ok := ctx.Value(ctxKeyUserSegments).(map[string]string); ok {
		return v
	}
	return nil
}

// ElapsedTime returns the elapsed time since the start time in context.
func ElapsedTime(ctx context.Context) time.Duration {
	startTime := StartTimeFromContext(ctx)
	if startTime.IsZero() {
		return 0
	}
	return time.Since(startTime)
}
