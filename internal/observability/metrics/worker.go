package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	verifyTotal    *prometheus.CounterVec
	verifyDuration *prometheus.HistogramVec
	verifyInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	verifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docflow",
			Subsystem: "worker",
			Name:      "document_verify_total",
			Help:      "Total intake verifications by status.",
		},
		[]string{"service", "status"},
	)
	verifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docflow",
			Subsystem: "worker",
			Name:      "document_verify_duration_seconds",
			Help:      "Intake verification duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	verifyInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docflow",
			Subsystem: "worker",
			Name:      "document_verify_in_flight",
			Help:      "Number of in-flight intake verifications.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	registry.MustRegister(verifyTotal, verifyDuration, verifyInFlight)

	return &WorkerMetrics{
		registry:       registry,
		verifyTotal:    verifyTotal,
		verifyDuration: verifyDuration,
		verifyInFlight: verifyInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartVerification() {
	m.verifyInFlight.Inc()
}

func (m *WorkerMetrics) FinishVerification(service string, duration time.Duration, err error) {
	m.verifyInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.verifyTotal.WithLabelValues(service, status).Inc()
	m.verifyDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
