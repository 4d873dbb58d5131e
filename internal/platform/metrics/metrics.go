// Package metrics expone contadores Prometheus del catálogo.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics usa un registry propio para poder crear varios routers (tests)
// sin colisiones de registro.
type Metrics struct {
	registry    *prometheus.Registry
	queries     *prometheus.CounterVec
	results     *prometheus.HistogramVec
	submissions *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_queries_total",
				Help: "Consultas al catálogo por tipo.",
			},
			[]string{"kind"},
		),
		results: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_query_results",
				Help:    "Cantidad de animales devueltos por consulta.",
				Buckets: []float64{0, 1, 5, 12, 25, 50, 100, 250},
			},
			[]string{"kind"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_submissions_total",
				Help: "Submissions por resultado (accepted, rejected, failed).",
			},
			[]string{"outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Requests HTTP por método y status.",
			},
			[]string{"method", "status"},
		),
	}

	m.registry.MustRegister(
		m.queries,
		m.results,
		m.submissions,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveQuery(kind string, results int) {
	m.queries.WithLabelValues(kind).Inc()
	m.results.WithLabelValues(kind).Observe(float64(results))
}

func (m *Metrics) ObserveSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry se expone para tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
