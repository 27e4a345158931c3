package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status.",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	quotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_quotes_total",
			Help: "Quotes computed by service category and outcome.",
		},
		[]string{"category", "outcome"},
	)

	quoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_quote_duration_seconds",
			Help:    "Time spent resolving and pricing a quote.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"category"},
	)

	rateWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rate_writes_total",
			Help: "Rate season writes by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	exchangeCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_exchange_cache_total",
			Help: "Exchange rate cache lookups by result.",
		},
		[]string{"result"},
	)
)

func RecordQuote(category, outcome string, elapsed time.Duration) {
	quotesTotal.WithLabelValues(category, outcome).Inc()
	quoteDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}

func RecordRateWrite(operation, outcome string) {
	rateWritesTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordExchangeCache counts "hit", "miss" and "error" lookups.
func RecordExchangeCache(result string) {
	exchangeCacheTotal.WithLabelValues(result).Inc()
}

func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
