package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNodeMetricsSegmentOutcomes(t *testing.T) {
	m := Node()
	require.Same(t, m, Node())

	m.ObserveOperation("booking.create", "", 5*time.Millisecond)
	m.ObserveOperation("booking.create", "Paused", time.Millisecond)
	m.ObserveOperation("booking.create", "Paused", time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("booking.create", "ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("booking.create", "Paused")))

	m.ObserveHeight(42)
	require.Equal(t, 42.0, testutil.ToFloat64(m.height))
}

func TestRPCMetricsCountCodesAndThrottles(t *testing.T) {
	m := RPC()
	m.Observe("booking_get", 0, time.Millisecond)
	m.Observe("booking_get", -32041, time.Millisecond)
	m.RecordThrottle("")

	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("booking_get", "-32041")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.throttles.WithLabelValues("unspecified")))

	var nilMetrics *RPCMetrics
	nilMetrics.Observe("x", 0, 0)
}
