package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSearchSuccess(t *testing.T) {
	ObserveSearch(KindStations, time.Now(), 12, "")

	assert.Equal(t, 1, testutil.CollectAndCount(SearchResults))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(SearchDuration), 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(SearchErrors.WithLabelValues(KindStations, "query_failed")))
}

func TestObserveSearchFailure(t *testing.T) {
	counter := SearchErrors.WithLabelValues(KindCycleStops, "storage_unavailable")
	before := testutil.ToFloat64(counter)

	ObserveSearch(KindCycleStops, time.Now(), 0, "storage_unavailable")
	ObserveSearch(KindCycleStops, time.Now(), 0, "storage_unavailable")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
