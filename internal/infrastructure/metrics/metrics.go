// Package metrics expone métricas Prometheus del ledger y de la capa HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

var _ inventory.MovementObserver = (*Metrics)(nil)

// Metrics colectores registrados bajo un prefijo común.
type Metrics struct {
	MovementsTotal    *prometheus.CounterVec
	MovementDuration  *prometheus.HistogramVec
	ConflictsTotal    prometheus.Counter
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registra los colectores en reg. Con reg nil se usa el registry por defecto.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if prefix == "" {
		prefix = "stock_ledger"
	}
	factory := promauto.With(reg)

	return &Metrics{
		MovementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_movements_total",
				Help: "Total de movimientos procesados por dirección y resultado",
			},
			[]string{"direction", "outcome"},
		),
		MovementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_movement_duration_seconds",
				Help:    "Duración de ApplyMovement incluyendo reintentos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		ConflictsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_movement_conflicts_total",
				Help: "Conflictos de concurrencia detectados (cada uno provoca un reintento o el agotamiento)",
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total de peticiones HTTP",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duración de peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}

// ObserveMovement registra el resultado final de un ApplyMovement. La etiqueta direction
// solo toma IN, OUT, unknown (vacía) o invalid.
func (m *Metrics) ObserveMovement(direction, outcome string, elapsed time.Duration) {
	if direction == "" {
		direction = "unknown"
	} else {
		direction = domaininv.DirectionLabel(direction)
	}
	m.MovementsTotal.WithLabelValues(direction, outcome).Inc()
	m.MovementDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveConflict cuenta un conflicto de concurrencia.
func (m *Metrics) ObserveConflict() {
	m.ConflictsTotal.Inc()
}

// ObserveHTTP registra una petición HTTP terminada. path debe ser la ruta registrada, no la URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}
