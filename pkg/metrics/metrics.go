package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realty_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "realty_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realty_events_published_total",
			Help: "Messages published to RabbitMQ",
		},
		[]string{"queue", "result"},
	)

	MessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realty_messages_consumed_total",
			Help: "Messages handled by background workers",
		},
		[]string{"queue", "result"},
	)

	UserCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realty_user_cache_hits_total",
			Help: "User status cache hits",
		},
	)

	UserCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realty_user_cache_misses_total",
			Help: "User status cache misses",
		},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordPublish(queue string, err error) {
	EventsPublished.WithLabelValues(queue, result(err)).Inc()
}

func RecordConsume(queue string, err error) {
	MessagesConsumed.WithLabelValues(queue, result(err)).Inc()
}

func RecordCacheHit() {
	UserCacheHits.Inc()
}

func RecordCacheMiss() {
	UserCacheMisses.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
