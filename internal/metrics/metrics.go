package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"

	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockllm_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "status"})
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mockllm_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	AuthRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockllm_auth_rejections_total",
		Help: "Total number of requests rejected by the auth gate",
	}, []string{"reason"})
	StreamTokensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockllm_stream_tokens_total",
		Help: "Total number of content tokens emitted on streams",
	})
	StreamsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockllm_streams_total",
		Help: "Total number of streams by transport and outcome",
	}, []string{"transport", "outcome"})
)
