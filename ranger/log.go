package ranger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/logger"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxMB      = 100
	logFileMaxBackups = 5
	logFileMaxDays    = 28
)

// NewLogger constructs a [logger.Logger] of the given kind,
// e.g., [wayfarer.CLILogKind], configured by cfg.
//
// When cfg.SentryDSN is set, warnings and errors are also sent to Sentry.
func NewLogger(kind slog.Value, cfg Config) logger.Logger {
	slogger := newSlogger(kind, cfg, logOutput(cfg))
	l := logger.New(slogger)
	l.Debug("setting up "+kind.String()+" logger", nil)
	if cfg.SentryDSN == "" {
		return l
	}

	sl := logger.NewSentryLogger(l, cfg.Env.String(), cfg.SentryDSN)
	sl.Debug("using SentryLogger for "+kind.String()+" logger", nil)

	return sl
}

// defaultAppLogger constructs a [logger.Logger] configured for use in the application
// and sets it as the [log/slog] default.
func defaultAppLogger(cfg Config) logger.Logger {
	l := NewLogger(wayfarer.AppLogKind, cfg)
	slog.SetDefault(slog.New(l.Handler()))

	return l
}

// defaultHTTPLogger constructs a [logger.Logger] for use in HTTP router logging.
func defaultHTTPLogger(cfg Config) logger.Logger {
	l := logger.New(newSlogger(wayfarer.HTTPLogKind, cfg, logOutput(cfg)))
	l.Debug("setting up HTTP router logger", nil)

	return l
}

// logOutput writes to stdout and, when cfg.LogFile is set, to a file rotated as it grows.
func logOutput(cfg Config) io.Writer {
	if cfg.LogFile == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    logFileMaxMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxDays,
		Compress:   true,
	})
}

// newSlogger toggles constructing the specific [*log/slog.Logger]
// from the given parameters.
func newSlogger(kind slog.Value, cfg Config, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(cfg.LogLevel)

	isHTTP := kind.String() == wayfarer.HTTPLogKind.String()

	var handler slog.Handler
	switch {
	case cfg.LogJSON && !isHTTP:
		opts := &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: logger.TruncSourceAttr,
		}

		handler = slog.NewJSONHandler(out, opts)

	case !cfg.LogJSON && !isHTTP:
		opts := &tint.Options{
			AddSource:   true,
			Level:       lvl,
			TimeFormat:  "2006-01-02 15:04:05.000",
			ReplaceAttr: logger.ChainReplaceAttr(logger.ColorizeLevel, logger.TruncSourceAttr),
		}

		handler = tint.NewHandler(out, opts)

	case cfg.LogJSON:
		opts := &slog.HandlerOptions{
			ReplaceAttr: logger.ChainReplaceAttr(logger.DeleteLevelAttr, logger.DeleteMessageAttr),
		}

		handler = slog.NewJSONHandler(out, opts)

	default:
		opts := &slog.HandlerOptions{
			ReplaceAttr: logger.ChainReplaceAttr(logger.DeleteLevelAttr, logger.DeleteMessageAttr),
		}

		handler = slog.NewTextHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: wayfarer.LogKindKey, Value: kind},
	})

	return slog.New(handler)
}
