package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_http_requests_total",
			Help: "Total number of HTTP requests processed by the notification service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notify_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	pushNotificationsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_push_sent_total",
			Help: "Total number of push notifications accepted by the gateway.",
		},
	)
	pushDispatchErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_push_dispatch_errors_total",
			Help: "Total number of multicast calls that failed outright.",
		},
	)
	tokensInvalidatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_tokens_invalidated_total",
			Help: "Total number of device tokens removed after unregistered reports.",
		},
	)
	ledgerUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_storage_ledger_updates_total",
			Help: "Total number of storage counter updates by operation.",
		},
		[]string{"op"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	amqpConsumeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_amqp_consume_errors_total",
			Help: "Total number of trigger events that failed processing.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		pushNotificationsSentTotal,
		pushDispatchErrorsTotal,
		tokensInvalidatedTotal,
		ledgerUpdatesTotal,
		amqpPublishErrorsTotal,
		amqpConsumeErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func AddNotificationsSent(count int) {
	pushNotificationsSentTotal.Add(float64(count))
}

func IncPushDispatchError() {
	pushDispatchErrorsTotal.Inc()
}

func AddTokensInvalidated(count int) {
	tokensInvalidatedTotal.Add(float64(count))
}

func IncLedgerUpdate(op string) {
	ledgerUpdatesTotal.WithLabelValues(op).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncAMQPConsumeError() {
	amqpConsumeErrorsTotal.Inc()
}
