package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements [EditorHooks] and [HTTPHooks] with Prometheus
// collectors.
type PrometheusHooks struct {
	connects    *prometheus.CounterVec
	removed     *prometheus.CounterVec
	imports     *prometheus.CounterVec
	exports     prometheus.Counter
	transitions *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "connect_attempts_total",
			Help:      "Connect attempts by outcome (accepted or the rejection reason).",
		}, []string{"outcome"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "removed_elements_total",
			Help:      "Nodes and edges removed, cascades included.",
		}, []string{"element"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "imports_total",
			Help:      "Import attempts by result.",
		}, []string{"result"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "exports_total",
			Help:      "Successful exports.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "edit_transitions_total",
			Help:      "Edit session transitions.",
		}, []string{"from", "to", "reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowgraph",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(h.connects, h.removed, h.imports, h.exports, h.transitions, h.requests, h.latency)
	}
	return h
}

// rejectionReason returns a short label for a connect error. The flow
// package is not imported here; the error text after the last colon is the
// rule description.
func rejectionReason(err error) string {
	msg := err.Error()
	for i := len(msg) - 1; i >= 0; i-- {
		if msg[i] == ':' {
			if i+2 <= len(msg) {
				return msg[i+2:]
			}
			break
		}
	}
	return msg
}

func (h *PrometheusHooks) OnConnect(_, _ string, err error) {
	outcome := "accepted"
	if err != nil {
		outcome = rejectionReason(err)
	}
	h.connects.WithLabelValues(outcome).Inc()
}

func (h *PrometheusHooks) OnRemove(nodes, edges int) {
	h.removed.WithLabelValues("node").Add(float64(nodes))
	h.removed.WithLabelValues("edge").Add(float64(edges))
}

func (h *PrometheusHooks) OnImport(_, _ int, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
		var coded interface{ ErrorCode() string }
		if errors.As(err, &coded) {
			result = coded.ErrorCode()
		}
	}
	h.imports.WithLabelValues(result).Inc()
}

func (h *PrometheusHooks) OnExport(int, int) { h.exports.Inc() }

func (h *PrometheusHooks) OnEditTransition(from, to, reason string) {
	h.transitions.WithLabelValues(from, to, reason).Inc()
}

func (h *PrometheusHooks) OnRequest(string, string) {}

func (h *PrometheusHooks) OnResponse(method, route string, statusCode int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ EditorHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)
