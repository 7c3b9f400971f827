package catalogapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contadores de las llamadas salientes a la API.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics crea y registra las métricas en reg (nil = sin registrar).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogo_admin",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Llamadas a la API del catálogo por operación y status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalogo_admin",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latencia de las llamadas a la API del catálogo.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(op, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}
