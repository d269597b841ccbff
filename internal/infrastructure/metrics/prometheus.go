// Package metrics expone contadores Prometheus del ciclo de vida de órdenes y del servidor HTTP.
//
// Se monta una sola vez en el router:
//
//	app.Use(reg.Middleware())
//	app.Get("/metrics", reg.Handler())
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pluckd-api/internal/application/ordering"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
)

const namespace = "pluckd"

// Registry agrupa los colectores de la aplicación en un registro propio.
type Registry struct {
	reg *prometheus.Registry

	ordersCreated       *prometheus.CounterVec
	orderAmount         prometheus.Histogram
	statusTransitions   *prometheus.CounterVec
	notificationsFailed *prometheus.CounterVec

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewRegistry crea el registro. withRuntime agrega los colectores de Go y del proceso.
func NewRegistry(withRuntime bool) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Órdenes creadas, separadas por invitado o usuario registrado.",
		}, []string{"buyer"}),
		orderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "total_amount",
			Help:      "Monto total de las órdenes creadas.",
			Buckets:   []float64{10_000, 50_000, 100_000, 250_000, 500_000, 1_000_000, 5_000_000},
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Cambios de estado aplicados.",
		}, []string{"from", "to"}),
		notificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "failed_total",
			Help:      "Notificaciones que no pudieron entregarse.",
		}, []string{"kind"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Peticiones HTTP en curso.",
		}),
	}
	if withRuntime {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	r.reg.MustRegister(
		r.ordersCreated,
		r.orderAmount,
		r.statusTransitions,
		r.notificationsFailed,
		r.requestTotal,
		r.requestDuration,
		r.inFlight,
	)
	return r
}

// Gatherer expone el registro subyacente (usado en tests).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// OrderCreated implementa ordering.Metrics.
func (r *Registry) OrderCreated(order *entity.Order) {
	if order == nil {
		return
	}
	buyer := "user"
	if order.IsGuest() {
		buyer = "guest"
	}
	r.ordersCreated.WithLabelValues(buyer).Inc()
	r.orderAmount.Observe(order.TotalAmount.InexactFloat64())
}

// StatusChanged implementa ordering.Metrics.
func (r *Registry) StatusChanged(from, to entity.OrderStatus) {
	r.statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// NotificationFailed implementa ordering.Metrics.
func (r *Registry) NotificationFailed(kind ordering.NotificationKind) {
	r.notificationsFailed.WithLabelValues(string(kind)).Inc()
}

// Middleware registra duración y total por ruta. Usa la ruta declarada (/api/orders/:id)
// y no la URL cruda para no disparar la cardinalidad.
func (r *Registry) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		r.inFlight.Inc()
		defer r.inFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		r.requestTotal.WithLabelValues(labels...).Inc()
		r.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve la página de métricas.
func (r *Registry) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}

var _ ordering.Metrics = (*Registry)(nil)
