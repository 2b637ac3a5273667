package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the service
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
	DBConnPoolStats  *prometheus.GaugeVec

	QuestionsAsked    prometheus.Counter
	StakesDeposited   prometheus.Counter
	ResolutionsTotal  prometheus.Counter
	TransfersRejected prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics(serviceName string) *Metrics {
	return &Metrics{
		RequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "starkoverflow",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"route", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "starkoverflow",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "starkoverflow",
				Subsystem: serviceName,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"route"},
		),
		DBConnPoolStats: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "starkoverflow",
				Subsystem: serviceName,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
		QuestionsAsked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "starkoverflow",
			Subsystem: serviceName,
			Name:      "questions_asked_total",
			Help:      "Total number of questions created",
		}),
		StakesDeposited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "starkoverflow",
			Subsystem: serviceName,
			Name:      "stake_deposits_total",
			Help:      "Total number of successful stake deposits",
		}),
		ResolutionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "starkoverflow",
			Subsystem: serviceName,
			Name:      "resolutions_total",
			Help:      "Total number of questions resolved",
		}),
		TransfersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "starkoverflow",
			Subsystem: serviceName,
			Name:      "transfers_rejected_total",
			Help:      "Total number of token transfers rejected by the value ledger",
		}),
	}
}

// Middleware returns a gin middleware that records request metrics per route.
func Middleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()

		m.RequestsInFlight.WithLabelValues(route).Inc()
		start := time.Now()

		c.Next()

		m.RequestsInFlight.WithLabelValues(route).Dec()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RecordDBPoolStats records database connection pool statistics
func (m *Metrics) RecordDBPoolStats(stats sql.DBStats) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(stats.Idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(stats.WaitDuration.Milliseconds()))
}

// Serve starts the metrics HTTP endpoint on the given port.
func Serve(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
