package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "postboard-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "noop")
	span.AddAttributes(attribute.String("k", "v"))
	span.SetError(errors.New("boom"))
	RecordErrorInContext(ctx, errors.New("boom"))
	span.End()
}

func TestInitTracingStdout(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "postboard-test",
		Environment:  "test",
		Enabled:      true,
		Exporter:     "stdout",
		SamplerRatio: 0.5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	ctx, span := StartStoreSpan(context.Background(), "posts", "create")
	assert.True(t, span.SpanContext().IsValid())
	_, redisSpan := StartCacheSpan(ctx, "get", "posts:list")
	assert.Equal(t, span.SpanContext().TraceID(), redisSpan.SpanContext().TraceID())
	redisSpan.End()
	span.End()
}

func TestRecordQueryOperation(t *testing.T) {
	before := testutil.ToFloat64(QueryOperations.WithLabelValues("testOperation", "error"))
	RecordQueryOperation("testOperation", true, time.Now())
	after := testutil.ToFloat64(QueryOperations.WithLabelValues("testOperation", "error"))
	assert.Equal(t, before+1, after)
}

func TestDatabaseMetricsTrackQuery(t *testing.T) {
	done := NewDatabaseMetrics("test_table").TrackQuery("select")
	done()
	assert.Equal(t, 1, testutil.CollectAndCount(DatabaseQueryLatency, "postboard_database_query_latency_seconds"))
}
