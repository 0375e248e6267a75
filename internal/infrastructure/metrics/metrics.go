package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collectors métricas de la API. Cada instancia tiene su propio registro para que los
// tests no compartan estado.
type Collectors struct {
	Registry *prometheus.Registry

	httpInFlight  prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// New registra los colectores de la API y los del runtime de Go.
func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gestion",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Peticiones HTTP en curso.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gestion",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gestion",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gestion",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Notificaciones por resultado (delivered, failed, dropped).",
		}, []string{"result"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gestion",
			Subsystem: "audit",
			Name:      "write_failures_total",
			Help:      "Entradas de auditoría que no se pudieron persistir.",
		}),
	}
	c.Registry.MustRegister(
		c.httpInFlight,
		c.httpRequests,
		c.httpDuration,
		c.notifications,
		c.auditFailures,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

// ObserveRequest registra una petición terminada. route es la ruta plantilla (/api/tasks/:id).
func (c *Collectors) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// InFlight ajusta el gauge de peticiones en curso (+1 / -1).
func (c *Collectors) InFlight(delta float64) {
	if c == nil {
		return
	}
	c.httpInFlight.Add(delta)
}

// Notification cuenta una notificación por resultado.
func (c *Collectors) Notification(result string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(result).Inc()
}

// AuditFailure cuenta una escritura de auditoría fallida.
func (c *Collectors) AuditFailure() {
	if c == nil {
		return
	}
	c.auditFailures.Inc()
}
