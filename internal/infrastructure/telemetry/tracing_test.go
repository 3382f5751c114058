package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/salesdash/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory span recorder as the global provider
// for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

func TestStartSpan(t *testing.T) {
	t.Run("defaults to an internal span", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "ingest.parse_csv")
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "ingest.parse_csv", spans[0].Name())
		assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	})

	t.Run("options set kind and attributes", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "report.fetch",
			telemetry.WithAttribute(telemetry.SpanAttrReportID, "rpt-2024-01"),
			telemetry.WithSpanKind(trace.SpanKindClient),
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
		assert.Equal(t, "rpt-2024-01", spanAttr(spans[0], telemetry.SpanAttrReportID))
	})

	t.Run("child spans share the parent trace", func(t *testing.T) {
		sr := recordSpans(t)

		ctx, parent := telemetry.StartSpan(context.Background(), "report.generate")
		_, child := telemetry.StartSpan(ctx, "report.aggregate_sales")
		child.End()
		parent.End()

		spans := sr.Ended()
		require.Len(t, spans, 2)

		// Ended() preserves end order: child first.
		childSpan, parentSpan := spans[0], spans[1]
		assert.Equal(t, "report.aggregate_sales", childSpan.Name())
		assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
		assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
	})
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "analytics_report", "generate")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "analytics_report.generate", spans[0].Name())
}

// spanAttr returns the string value of an attribute on a finished span.
func spanAttr(s sdktrace.ReadOnlySpan, key string) string {
	for _, attr := range s.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.Emit()
		}
	}
	return ""
}

func TestSetAttributes(t *testing.T) {
	t.Run("typed values map to typed attributes", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "ingest.flush_batch")
		telemetry.SetAttributes(span,
			telemetry.SpanAttrFileName, "sales_q1.csv",
			telemetry.SpanAttrTotalRows, 500,
			"dry_run", false,
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)

		attrMap := make(map[string]interface{})
		for _, attr := range spans[0].Attributes() {
			attrMap[string(attr.Key)] = attr.Value.AsInterface()
		}
		assert.Equal(t, "sales_q1.csv", attrMap[telemetry.SpanAttrFileName])
		assert.Equal(t, int64(500), attrMap[telemetry.SpanAttrTotalRows])
		assert.Equal(t, false, attrMap["dry_run"])
	})

	t.Run("slice values are recorded", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "report.top_products")
		telemetry.SetAttributes(span,
			"categories", []string{"Widgets", "Gadgets"},
			"quantities", []int64{120, 87},
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Len(t, spans[0].Attributes(), 2)
	})

	t.Run("an orphan key is dropped", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "ingest.flush_batch")
		telemetry.SetAttributes(span,
			telemetry.SpanAttrProcessedRows, 480,
			"orphan_key",
		)
		span.End()

		require.Len(t, sr.Ended(), 1)
		assert.Len(t, sr.Ended()[0].Attributes(), 1)
	})

	t.Run("a non-string key skips the pair", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "ingest.flush_batch")
		telemetry.SetAttributes(span,
			telemetry.SpanAttrFileName, "sales_q1.csv",
			123, "ignored",
		)
		span.End()

		require.Len(t, sr.Ended(), 1)
		assert.Len(t, sr.Ended()[0].Attributes(), 1)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.SetAttributes(nil, "key", "value")
		})
	})
}

func TestSetAttribute(t *testing.T) {
	t.Run("stringer values use their String form", func(t *testing.T) {
		sr := recordSpans(t)

		reportID := uuid.New()
		_, span := telemetry.StartSpan(context.Background(), "report.fetch")
		telemetry.SetAttribute(span, telemetry.SpanAttrReportID, reportID)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, reportID.String(), spanAttr(spans[0], telemetry.SpanAttrReportID))
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.SetAttribute(nil, "key", "value")
		})
	})
}

func TestRecordError(t *testing.T) {
	t.Run("marks the span failed with an exception event", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "ingest.save_batch")
		telemetry.RecordError(span, errors.New("duplicate sale id"))
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "duplicate sale id", spans[0].Status().Description)

		events := spans[0].Events()
		require.NotEmpty(t, events)
		assert.Equal(t, "exception", events[0].Name)
	})

	t.Run("nil error leaves the status untouched", func(t *testing.T) {
		sr := recordSpans(t)

		_, span := telemetry.StartSpan(context.Background(), "ingest.save_batch")
		telemetry.RecordError(span, nil)
		span.End()

		require.Len(t, sr.Ended(), 1)
		assert.NotEqual(t, codes.Error, sr.Ended()[0].Status().Code)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			telemetry.RecordError(nil, errors.New("duplicate sale id"))
		})
	})
}

func TestSetOK(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "report.generate")
	telemetry.SetOK(span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.NotPanics(t, func() {
		telemetry.SetOK(nil)
	})
}

func TestAddEvent(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "ingest.pipeline")
	telemetry.AddEvent(span, "batch_flushed",
		"batch_size", 50,
		telemetry.SpanAttrProcessedRows, 480,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "batch_flushed", events[0].Name)

	attrMap := make(map[string]interface{})
	for _, attr := range events[0].Attributes {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, int64(50), attrMap["batch_size"])
	assert.Equal(t, int64(480), attrMap[telemetry.SpanAttrProcessedRows])

	assert.NotPanics(t, func() {
		telemetry.AddEvent(nil, "batch_flushed", "batch_size", 50)
	})
}

func TestSpanContextHelpers(t *testing.T) {
	recordSpans(t)

	t.Run("bare context yields a no-op span and empty ids", func(t *testing.T) {
		ctx := context.Background()

		assert.NotNil(t, telemetry.SpanFromContext(ctx))
		assert.Empty(t, telemetry.GetTraceID(ctx))
		assert.Empty(t, telemetry.GetSpanID(ctx))
	})

	t.Run("active span is reachable through the context", func(t *testing.T) {
		ctx, span := telemetry.StartSpan(context.Background(), "report.generate")
		defer span.End()

		assert.Equal(t, span.SpanContext().SpanID(), telemetry.SpanFromContext(ctx).SpanContext().SpanID())
		assert.Len(t, telemetry.GetTraceID(ctx), 32)
		assert.Len(t, telemetry.GetSpanID(ctx), 16)
	})

	t.Run("ContextWithSpan reattaches a span", func(t *testing.T) {
		_, span := telemetry.StartSpan(context.Background(), "report.generate")
		defer span.End()

		ctx := telemetry.ContextWithSpan(context.Background(), span)
		assert.Equal(t, span.SpanContext().SpanID(), telemetry.SpanFromContext(ctx).SpanContext().SpanID())
	})
}
