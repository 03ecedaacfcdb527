package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of REST API requests.",
	}, []string{"route", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of REST API requests. Long polls are included.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"route", "code"})
)

// HTTP tracks REST API requests.
type HTTP struct{}

// NewHTTP constructs an HTTP metrics collector.
func NewHTTP() *HTTP {
	return &HTTP{}
}

// Observe records a finished request.
func (HTTP) Observe(route string, code int, started time.Time) {
	status := strconv.Itoa(code)
	httpRequestsTotal.WithLabelValues(route, status).Inc()
	httpRequestDuration.WithLabelValues(route, status).Observe(time.Since(started).Seconds())
}
