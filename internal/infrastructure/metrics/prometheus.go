// Package metrics colectores Prometheus de la API: tráfico HTTP y contadores de negocio.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	appbilling "github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
)

const namespace = "negocio"

var (
	_ inventory.Metrics  = (*Metrics)(nil)
	_ appbilling.Metrics = (*Metrics)(nil)
)

// Metrics agrupa los colectores. Se registra una vez con Register.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestsLatency *prometheus.HistogramVec
	StockMovements  *prometheus.CounterVec
	InvoicesCreated prometheus.Counter
	InvoiceStatus   *prometheus.CounterVec
}

// New construye los colectores sin registrarlos.
func New() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		RequestsLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 8),
		}, []string{"method", "route"}),

		StockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_movements_total",
			Help:      "Count of stock ledger rows by movement type",
		}, []string{"movement_type"}),

		InvoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "invoices_created_total",
			Help:      "Count of invoices created",
		}),

		InvoiceStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "invoice_transitions_total",
			Help:      "Count of invoice status transitions",
		}, []string{"from", "to"}),
	}
}

// PrometheusCollectors lista los colectores para registrarlos.
func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Requests,
		m.RequestsLatency,
		m.StockMovements,
		m.InvoicesCreated,
		m.InvoiceStatus,
	}
}

// Register registra todos los colectores en reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.PrometheusCollectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestsLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) StockMovementRecorded(movementType string) {
	m.StockMovements.WithLabelValues(movementType).Inc()
}

func (m *Metrics) InvoiceCreated() { m.InvoicesCreated.Inc() }

func (m *Metrics) InvoiceStatusChanged(from, to string) {
	m.InvoiceStatus.WithLabelValues(from, to).Inc()
}
