package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "og_renders_total",
			Help: "Render attempts by outcome",
		},
		[]string{"outcome"},
	)

	renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "og_render_duration_seconds",
			Help:    "Latency of single render attempts in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(rendersTotal)
	prometheus.MustRegister(renderDuration)
}
