package reporting

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

const flushTimeout = 2 * time.Second

// SentryReporter forwards failure causes to Sentry through its own hub
type SentryReporter struct {
	hub *sentry.Hub
}

var _ providers.ErrorReporter = (*SentryReporter)(nil)

// NewSentryReporter creates a reporter bound to a fresh Sentry client
func NewSentryReporter(opts sentry.ClientOptions, env, version string) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}

	scope := sentry.NewScope()
	scope.SetTag("env", env)
	scope.SetTag("app_version", version)
	scope.SetTag("go_version", runtime.Version())
	scope.SetContext("host_info", map[string]interface{}{
		"hostname": hostname(),
	})

	return &SentryReporter{hub: sentry.NewHub(client, scope)}, nil
}

// Report captures err with the given tags. AppError types become the
// error_type tag.
func (r *SentryReporter) Report(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			scope.SetTag("error_type", string(appErr.Type))
			if appErr.StatusCode != 0 {
				scope.SetContext("http", map[string]interface{}{
					"status_code": appErr.StatusCode,
				})
			}
		}
		r.hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be delivered
func (r *SentryReporter) Flush() bool {
	return r.hub.Flush(flushTimeout)
}

// LogReporter writes failure causes to the structured log. It is used when no
// Sentry DSN is configured.
type LogReporter struct{}

var _ providers.ErrorReporter = LogReporter{}

// Report logs err at error level
func (LogReporter) Report(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	event := observability.LoggerFromContext(ctx).Error().Err(err)
	for k, v := range tags {
		event = event.Str(k, v)
	}
	event.Msg("reported failure")
}

// NewReporter picks Sentry when a DSN is configured, otherwise LogReporter
func NewReporter(dsn, env, version string) (providers.ErrorReporter, func(), error) {
	if dsn == "" {
		return LogReporter{}, func() {}, nil
	}
	reporter, err := NewSentryReporter(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     version,
	}, env, version)
	if err != nil {
		return nil, nil, err
	}
	return reporter, func() { reporter.Flush() }, nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
