package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flightdata_query_duration_seconds",
			Help:    "Duration of catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdata_query_errors_total",
			Help: "Total number of failed catalog queries",
		},
		[]string{"query"},
	)

	QueryRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdata_query_rows_total",
			Help: "Total number of rows returned by catalog queries",
		},
		[]string{"query"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdata_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flightdata_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	StoreUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flightdata_store_up",
			Help: "1 when the backing store answered the last health probe",
		},
	)
)

// RecordQuery records one catalog query execution.
func RecordQuery(query string, duration time.Duration, rows int, err error) {
	QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		QueryErrors.WithLabelValues(query).Inc()
		return
	}
	QueryRows.WithLabelValues(query).Add(float64(rows))
}

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func SetStoreUp(up bool) {
	if up {
		StoreUp.Set(1)
	} else {
		StoreUp.Set(0)
	}
}

// Middleware records request metrics labelled by the matched route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordAPIRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
