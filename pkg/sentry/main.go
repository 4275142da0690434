package sentry

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

type InfoData map[string]interface{}

type Level = sentry.Level

const (
	LevelWarning Level = sentry.LevelWarning
	LevelError   Level = sentry.LevelError
)

var inited = false

func init() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		fmt.Printf("failed to sentry init: %s", err)
		return
	}
	inited = true
	sentry.Flush(2 * time.Second)
}

// Send reports an event to sentry. A no-op unless SENTRY_DSN is set.
func Send(title string, data InfoData, logLevel Level) {
	if !inited {
		return
	}

	go func(localHub *sentry.Hub) {
		localHub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetLevel(logLevel)
			scope.SetExtras(data)
		})
		localHub.CaptureMessage(title)
	}(sentry.CurrentHub().Clone())
}
