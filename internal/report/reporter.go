package report

import (
	"errors"

	"github.com/getsentry/sentry-go"

	"github.com/nearby-rouen/nearby/internal/nearby"
)

// ReportError reports a startup or server failure to Sentry. If no level is
// provided, it defaults to sentry.LevelError.
func ReportError(err error, levels ...sentry.Level) {
	if err == nil {
		return
	}

	level := sentry.LevelError
	if len(levels) > 0 {
		level = levels[0]
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		sentry.CaptureException(err)
	})
}

// SearchFailure describes the request a failed search was serving
type SearchFailure struct {
	Search    string // One of the metrics.Kind constants
	Route     string // chi route pattern
	RequestID string
	Path      string
	Query     string
}

// ReportSearchFailure reports a server-side search failure. Events are tagged
// with the search, route and error kind, and grouped by search and kind.
// Invalid arguments and canceled searches are caller behaviour and are not
// reported. It returns whether an event was sent.
func ReportSearchFailure(err error, failure SearchFailure) bool {
	if err == nil || errors.Is(err, nearby.ErrInvalidArgument) || errors.Is(err, nearby.ErrCanceled) {
		return false
	}

	kind := nearby.Reason(err)
	level := sentry.LevelError
	if errors.Is(err, nearby.ErrStorageUnavailable) {
		level = sentry.LevelWarning
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		scope.SetTag("search", failure.Search)
		scope.SetTag("route", failure.Route)
		scope.SetTag("kind", kind)
		scope.SetFingerprint([]string{"search-failure", failure.Search, kind})
		scope.SetContext("request", map[string]interface{}{
			"request_id": failure.RequestID,
			"path":       failure.Path,
			"query":      failure.Query,
		})
		sentry.CaptureException(err)
	})
	return true
}
