package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Request-scoped correlation values travel on context.Context so that
// code below the HTTP layer (the GORM logger, the ingestion pipeline)
// can tie its log entries back to the request that triggered them.

type contextKey string

const requestIDContextKey contextKey = "request_id"

// WithRequestID returns a context carrying the request ID assigned by
// the HTTP layer.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// GetRequestID returns the request ID stored on the context, or "" when
// the context did not pass through the HTTP layer.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// GetTraceID returns the active span's trace ID, or "" when no valid
// span is recording on the context.
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// WithCorrelation returns the logger enriched with the request_id and
// trace_id fields found on the context. Fields missing from the context
// are omitted rather than logged empty.
func WithCorrelation(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With(zap.String("request_id", requestID))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
