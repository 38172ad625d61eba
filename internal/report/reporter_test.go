package report

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearby-rouen/nearby/internal/nearby"
)

// captureEvents points the global client at a fake DSN and collects events
// instead of sending them
func captureEvents(t *testing.T) func() []*sentry.Event {
	t.Helper()

	var mu sync.Mutex
	var events []*sentry.Event

	err := sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			mu.Lock()
			events = append(events, event)
			mu.Unlock()
			return nil
		},
	})
	require.NoError(t, err)

	return func() []*sentry.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]*sentry.Event(nil), events...)
	}
}

func TestReportSearchFailure(t *testing.T) {
	events := captureEvents(t)

	sent := ReportSearchFailure(fmt.Errorf("failed to query stations: %w", nearby.ErrStorageCorrupt), SearchFailure{
		Search:    "stations",
		Route:     "/transport_facilities/{latitude}/{longitude}",
		RequestID: "abc",
		Path:      "/transport_facilities/49.44/1.09",
	})
	assert.True(t, sent)

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, sentry.LevelError, got[0].Level)
	assert.Equal(t, "stations", got[0].Tags["search"])
	assert.Equal(t, "/transport_facilities/{latitude}/{longitude}", got[0].Tags["route"])
	assert.Equal(t, "storage_corrupt", got[0].Tags["kind"])
	assert.Equal(t, []string{"search-failure", "stations", "storage_corrupt"}, got[0].Fingerprint)
	assert.Equal(t, "abc", got[0].Contexts["request"]["request_id"])
}

func TestReportSearchFailureLevels(t *testing.T) {
	events := captureEvents(t)

	assert.True(t, ReportSearchFailure(fmt.Errorf("failed to open database: %w", nearby.ErrStorageUnavailable), SearchFailure{Search: "cycle_stops"}))
	assert.False(t, ReportSearchFailure(fmt.Errorf("failed to query stations: %w", nearby.ErrCanceled), SearchFailure{Search: "stations"}))
	assert.False(t, ReportSearchFailure(fmt.Errorf("%w: bad radius", nearby.ErrInvalidArgument), SearchFailure{Search: "stations"}))
	assert.False(t, ReportSearchFailure(nil, SearchFailure{Search: "stations"}))

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, sentry.LevelWarning, got[0].Level)
	assert.Equal(t, "storage_unavailable", got[0].Tags["kind"])
}

func TestReportErrorDefaultsToError(t *testing.T) {
	events := captureEvents(t)

	ReportError(errors.New("query failed"))
	ReportError(nil)

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, sentry.LevelError, got[0].Level)
}

func TestSetupSentryWithoutDSN(t *testing.T) {
	assert.NoError(t, SetupSentry("", "test", "dev"))
}
