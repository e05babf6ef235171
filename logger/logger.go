package logger

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// knownFrames skips runtime.Callers, log and the exported method calling log.
const knownFrames = 3

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	// Handler exposes the [log/slog.Handler] messages are written through.
	Handler() slog.Handler
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

var (
	_ Logger     = &SlogLogger{}
	_ SkipLogger = &SlogLogger{}
)

// SlogLogger implements Logger using [log/slog].
type SlogLogger struct {
	l    *slog.Logger
	skip int
}

// New constructs a *SlogLogger writing through l.
// If l is nil, [log/slog.Default] is used.
func New(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}

	return &SlogLogger{l: l}
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *SlogLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *SlogLogger) Debug(msg string, ctx *LogContext) { l.log(slog.LevelDebug, msg, ctx) }

// Error writes an error log.
func (l *SlogLogger) Error(msg string, ctx *LogContext) { l.log(slog.LevelError, msg, ctx) }

// Info writes an info log.
func (l *SlogLogger) Info(msg string, ctx *LogContext) { l.log(slog.LevelInfo, msg, ctx) }

// Warn writes a warning log.
func (l *SlogLogger) Warn(msg string, ctx *LogContext) { l.log(slog.LevelWarn, msg, ctx) }

// Handler returns the [log/slog.Handler] backing the *SlogLogger.
func (l *SlogLogger) Handler() slog.Handler { return l.l.Handler() }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *SlogLogger) Skip() int { return l.skip }

// log builds the record by hand so the source attribute points at the caller.
func (l *SlogLogger) log(level slog.Level, msg string, ctx *LogContext) {
	bg := context.Background()
	if !l.l.Enabled(bg, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(knownFrames+l.skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if ctx != nil {
		r.AddAttrs(slog.Any(logContextKey, ctx))
	}

	_ = l.l.Handler().Handle(bg, r)
}
