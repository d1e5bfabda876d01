package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flangeqc",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flangeqc",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of HTTP requests by route.",
		Buckets: []float64{
			0.001, 0.005, 0.01, 0.025,
			0.05, 0.1, 0.25, 0.5,
			1, 2.5, 5,
		},
	}, []string{"route", "method"})

	stageTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flangeqc",
		Subsystem: "workflow",
		Name:      "transitions_total",
		Help:      "Sign-off transitions by target stage and result (applied, rejected, override).",
	}, []string{"stage", "result"})

	torquePasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flangeqc",
		Subsystem: "workflow",
		Name:      "torque_passes_total",
		Help:      "Recorded torque passes by pass number.",
	}, []string{"pass"})
)

const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultOverride = "override"
)

func ObserveRequest(route, method, code string, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, code).Inc()
	httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func ObserveTransition(stage, result string) {
	stageTransitions.WithLabelValues(stage, result).Inc()
}

func ObservePass(pass string) {
	torquePasses.WithLabelValues(pass).Inc()
}
