package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeError    = "error"
)

var (
	recommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchly_recommendations_total",
		Help: "Mood recommendation requests by outcome.",
	}, []string{"outcome"})

	enrichmentFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchly_enrichment_failures_total",
		Help: "Per-title metadata lookups that failed and were skipped.",
	})
)
