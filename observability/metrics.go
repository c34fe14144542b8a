package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "carehours"

// NodeMetrics tracks committed and failed node operations and the block clock.
type NodeMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	height     prometheus.Gauge
}

// RPCMetrics tracks JSON-RPC traffic.
type RPCMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttles *prometheus.CounterVec
}

var (
	nodeMetricsOnce sync.Once
	nodeRegistry    *NodeMetrics

	rpcMetricsOnce sync.Once
	rpcRegistry    *RPCMetrics
)

// Node returns the lazily-initialised node metrics registry.
func Node() *NodeMetrics {
	nodeMetricsOnce.Do(func() {
		nodeRegistry = &NodeMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "node",
				Name:      "operations_total",
				Help:      "Node operations segmented by operation and outcome kind.",
			}, []string{"operation", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "node",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution of node operations including commit.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			height: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "chain",
				Name:      "height",
				Help:      "Committed block clock height.",
			}),
		}
		prometheus.MustRegister(
			nodeRegistry.operations,
			nodeRegistry.latency,
			nodeRegistry.height,
		)
	})
	return nodeRegistry
}

// ObserveOperation records one operation. An empty kind means it committed.
func (m *NodeMetrics) ObserveOperation(op, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	outcome := "ok"
	if kind != "" {
		outcome = kind
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveHeight publishes the committed tip height.
func (m *NodeMetrics) ObserveHeight(height uint64) {
	if m == nil {
		return
	}
	m.height.Set(float64(height))
}

// RPC returns the lazily-initialised JSON-RPC metrics registry.
func RPC() *RPCMetrics {
	rpcMetricsOnce.Do(func() {
		rpcRegistry = &RPCMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "JSON-RPC requests segmented by method and result code.",
			}, []string{"method", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for JSON-RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rpc",
				Name:      "throttles_total",
				Help:      "Requests rejected before dispatch, segmented by reason.",
			}, []string{"reason"}),
		}
		prometheus.MustRegister(
			rpcRegistry.requests,
			rpcRegistry.latency,
			rpcRegistry.throttles,
		)
	})
	return rpcRegistry
}

// Observe records a handled request. code is the JSON-RPC error code, or 0
// on success.
func (m *RPCMetrics) Observe(method string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordThrottle counts a rejected request. Reasons should be stable strings
// such as "rate_limit" or "unauthenticated".
func (m *RPCMetrics) RecordThrottle(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unspecified"
	}
	m.throttles.WithLabelValues(reason).Inc()
}
