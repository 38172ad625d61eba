package report

import (
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
)

// SetupSentry initializes the global Sentry client. An empty dsn leaves
// Sentry disabled: every report function is then a no-op.
func SetupSentry(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
		EnableTracing:    true,
		TracesSampleRate: 0.1,
	})
	if err != nil {
		return err
	}

	ConfigureScope(environment, release)
	return nil
}

// FlushSentry waits for buffered events before the process exits
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// ConfigureScope sets global Sentry scope tags and context related to the runtime and host.
func ConfigureScope(env, version string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("env", env)
		scope.SetTag("app_version", version)
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("goarch", runtime.GOARCH)
		scope.SetContext("host_info", map[string]interface{}{
			"hostname": getHostname(),
		})
	})
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
