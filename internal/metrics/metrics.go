package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics captures low-cardinality HTTP and billing metrics.
type Metrics struct {
	requestDuration    *prometheus.HistogramVec
	paymentsReconciled *prometheus.CounterVec
	monthsCovered      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_server_duration_seconds",
			Help:    "HTTP request duration by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		paymentsReconciled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_reconciled_total",
			Help: "Payment reconciliations by outcome.",
		}, []string{"outcome"}),
		monthsCovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payments_months_covered_total",
			Help: "Billing periods covered by reconciled payments.",
		}),
	}
}

// RecordReconciliation counts one reconciliation outcome ("ok" or "error").
func (m *Metrics) RecordReconciliation(outcome string, monthsCovered int64) {
	if m == nil {
		return
	}
	m.paymentsReconciled.WithLabelValues(outcome).Inc()
	if monthsCovered > 0 {
		m.monthsCovered.Add(float64(monthsCovered))
	}
}

// GinMiddleware records request durations per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Module provides the prometheus metrics registry handles.
var Module = fx.Module("metrics",
	fx.Provide(New),
)
