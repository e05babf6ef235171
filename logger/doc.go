/*
Package logger provides logging functionality to wayfarer by defining the required behavior in [Logger]
and providing an implementation of it with [SlogLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
An implementation of Logger may be initialized at a certain [log/slog.Level]
and only emit messages at or above that level of importance.

# SlogLogger

[SlogLogger] wraps a [*log/slog.Logger] so the call site recorded alongside a message
is the code calling [SlogLogger], not this package.
Each message may carry a [*LogContext],
which renders as a "log_context" group of attributes:

	time=2023-06-01T15:55:21.000Z level=DEBUG source=handler/index.go:43 msg="such fun!" log_context.user.id=1

The log context allows for including additional data inessential to the message proper,
but provides a fuller picture of the application state at the time of logging.

# SentryLogger

[SentryLogger] decorates a [Logger], shipping warnings and errors whose [LogContext] carries an error to Sentry.
*/
package logger
