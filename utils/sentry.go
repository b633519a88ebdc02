package utils

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures error tracking. An empty dsn leaves the SDK
// disabled; capture calls then become no-ops.
func InitSentry(dsn, environment string, logger *Logger) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		logger.Warn("[sentry] Init failed (non-blocking): %v", err)
		return
	}
	if dsn == "" {
		logger.Debug("[sentry] SENTRY_DSN empty, error tracking disabled")
	} else {
		logger.Info("[sentry] Error tracking enabled (%s)", environment)
	}
}

// FlushSentry waits for buffered events to be delivered.
func FlushSentry() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with the given tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CaptureWarning reports a warning-level message with the given tags.
func CaptureWarning(msg string, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureMessage(msg)
	})
}
