package metrics

import (
	"testing"

	"go.uber.org/zap"
)

func TestMetrics(t *testing.T) {
	logger := zap.NewNop()
	m := New(logger)

	// Test counter increment
	m.IncrementCounter("chunks_processed_total", "success")

	// Test gauge add
	m.AddGauge("jobs_in_flight", 1)

	// Test histogram observe
	m.ObserveHistogram("gateway_response_time", 1.5, "synthesize")

	// Test high-level methods
	m.RecordChunk("dropped")
	m.RecordCacheOperation("get", "hit")
	m.RecordGatewayRequest("enhance", true, 2.0)
	m.RecordJobStart()
	m.RecordJobFinish(true, 42.0)
}
