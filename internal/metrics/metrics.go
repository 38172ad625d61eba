package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search kinds, used as the "kind" label
const (
	KindStations   = "stations"
	KindCycleStops = "cycle_stops"
	KindDataset    = "dataset" // Dataset summary, reported but not observed
)

var (
	// SearchDuration measures proximity searches end to end, storage included
	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nearby_search_duration_seconds",
		Help:    "Duration of proximity searches",
		Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"kind"})

	// SearchResults counts the raw records returned by each search
	SearchResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nearby_search_results",
		Help:    "Number of records returned by a proximity search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	}, []string{"kind"})

	SearchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nearby_search_errors_total",
		Help: "Failed proximity searches by error kind",
	}, []string{"kind", "reason"})
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nearby_http_requests_total",
		Help: "HTTP requests by route pattern and status code",
	}, []string{"route", "status"})
)

// ObserveSearch records one search. reason is empty for successful searches.
func ObserveSearch(kind string, started time.Time, results int, reason string) {
	SearchDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if reason != "" {
		SearchErrors.WithLabelValues(kind, reason).Inc()
		return
	}
	SearchResults.WithLabelValues(kind).Observe(float64(results))
}
