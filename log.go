package wayfarer

import (
	"log/slog"
	"net/url"
)

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

var (
	AppLogKind  = slog.StringValue("app")
	HTTPLogKind = slog.StringValue("http")
	CLILogKind  = slog.StringValue("cli")

	// MaskedLogValue is a convenience [log/slog.Value]
	// to be used in implementations of [log/slog.LogValuer]
	// to hide sensitive data from log messages.
	MaskedLogValue = slog.StringValue(LogMaskVal)
)

// SecretParams are the query and form keys whose values never reach a log.
var SecretParams = []string{"confirm", "password", "token"}

// Mask collapses whatever vals holds for each of keys into a single LogMaskVal.
// Keys missing from vals stay missing.
func Mask(vals url.Values, keys ...string) {
	for _, key := range keys {
		if _, ok := vals[key]; ok {
			vals[key] = []string{LogMaskVal}
		}
	}
}
