package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calheat_http_requests_total",
			Help: "HTTP requests by method and status code",
		},
		[]string{"method", "code"},
	)

	renderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calheat_render_total",
			Help: "Render attempts by output format and outcome (ok, vis_error, invalid, error)",
		},
		[]string{"format", "outcome"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calheat_render_duration_seconds",
			Help:    "Time spent validating, transforming and rendering a calendar",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	renderRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calheat_render_records",
			Help:    "Number of calendar records per successful render",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)
