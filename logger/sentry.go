package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

var _ SkipLogger = &SentryLogger{}

// A SentryLogger writes messages through the Logger it wraps
// and ships warnings and errors carrying a LogContext.Error to Sentry.
type SentryLogger struct {
	l SkipLogger
}

// NewSentryLogger initializes Sentry with dsn and env
// and constructs a SentryLogger wrapping l.
//
// If Sentry cannot be initialized, the error is logged and l is returned.
func NewSentryLogger(l SkipLogger, env, dsn string) Logger {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:          dsn,
		Environment:  env,
		IgnoreErrors: []string{"write: broken pipe"},
	})
	if err != nil {
		l.Error("unable to init Sentry", &LogContext{Error: err})
		return l
	}

	return &SentryLogger{l: l.AddSkip(l.Skip() + 1)}
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
func (sl *SentryLogger) AddSkip(i int) SkipLogger {
	return &SentryLogger{l: sl.l.AddSkip(i)}
}

// Debug writes a debug log.
func (sl *SentryLogger) Debug(msg string, ctx *LogContext) { sl.l.Debug(msg, ctx) }

// Error writes an error log and sends it to Sentry.
func (sl *SentryLogger) Error(msg string, ctx *LogContext) {
	sl.l.Error(msg, ctx)
	sl.send(slog.LevelError, ctx)
}

// Handler returns the [log/slog.Handler] of the wrapped Logger.
func (sl *SentryLogger) Handler() slog.Handler { return sl.l.Handler() }

// Info writes an info log.
func (sl *SentryLogger) Info(msg string, ctx *LogContext) { sl.l.Info(msg, ctx) }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (sl *SentryLogger) Skip() int { return sl.l.Skip() }

// Warn writes a warning log and sends it to Sentry.
func (sl *SentryLogger) Warn(msg string, ctx *LogContext) {
	sl.l.Warn(msg, ctx)
	sl.send(slog.LevelWarn, ctx)
}

// send ships the LogContext.Error to Sentry,
// including any additional data from LogContext.
func (sl *SentryLogger) send(level slog.Level, ctx *LogContext) {
	if ctx == nil || ctx.Error == nil {
		return
	}

	if !sl.l.Handler().Enabled(context.Background(), level) {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		if ctx.User != nil {
			scope.SetUser(sentry.User{
				Email: ctx.User.GetEmail(),
				ID:    fmt.Sprint(ctx.User.GetID()),
			})
		}

		if ctx.Request != nil {
			scope.SetRequest(ctx.Request)
		}

		if ctx.Data != nil {
			scope.SetExtra("data", ctx.Data)
		}

		scope.SetLevel(sentryLevel(level))
		sentry.CaptureException(ctx.Error)
	})
}

func sentryLevel(level slog.Level) sentry.Level {
	switch {
	case level >= slog.LevelError:
		return sentry.LevelError
	case level >= slog.LevelWarn:
		return sentry.LevelWarning
	case level >= slog.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
