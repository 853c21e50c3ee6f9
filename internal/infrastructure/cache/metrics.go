package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "og_cache_lookups_total",
			Help: "Cache lookups by outcome (hit_memory, hit_disk, miss)",
		},
		[]string{"outcome"},
	)

	cacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "og_cache_evictions_total",
			Help: "Cache entries removed by reason (expired, capacity, invalidated)",
		},
		[]string{"reason"},
	)

	diskWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "og_cache_disk_write_failures_total",
			Help: "Disk tier writes that failed and were dropped",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups)
	prometheus.MustRegister(cacheEvictions)
	prometheus.MustRegister(diskWriteFailures)
}
