package ranger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
)

func TestNewSlogger(t *testing.T) {
	t.Run("App-JSON", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		l := newSlogger(wayfarer.AppLogKind, Config{LogJSON: true, LogLevel: slog.LevelInfo}, b)

		// Act
		l.Debug("hidden")
		l.Info("set sail")

		// Assert
		actual := make(map[string]any)
		require.Nil(t, json.Unmarshal(b.Bytes(), &actual))
		require.Equal(t, "set sail", actual[slog.MessageKey])
		require.Equal(t, "INFO", actual[slog.LevelKey])
		require.Equal(t, "app", actual[wayfarer.LogKindKey])
		require.Contains(t, actual, slog.SourceKey)
	})

	t.Run("HTTP-JSON", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		l := newSlogger(wayfarer.HTTPLogKind, Config{LogJSON: true}, b)

		// Act
		l.Info("request", slog.Int("status", 200))

		// Assert
		actual := make(map[string]any)
		require.Nil(t, json.Unmarshal(b.Bytes(), &actual))
		require.NotContains(t, actual, slog.MessageKey)
		require.NotContains(t, actual, slog.LevelKey)
		require.Equal(t, "http", actual[wayfarer.LogKindKey])
		require.Equal(t, float64(200), actual["status"])
	})

	t.Run("App-Text", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		l := newSlogger(wayfarer.CLILogKind, Config{LogLevel: slog.LevelWarn}, b)

		// Act
		l.Info("hidden")
		l.Warn("rough seas")

		// Assert
		require.Contains(t, b.String(), "rough seas")
		require.NotContains(t, b.String(), "hidden")
		require.Contains(t, b.String(), "cli")
	})
}

func TestLogOutput(t *testing.T) {
	require.NotNil(t, logOutput(Config{}))
	require.NotNil(t, logOutput(Config{LogFile: t.TempDir() + "/wayfarer.log"}))
}
