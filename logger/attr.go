package logger

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// The functions in this file are meant for [log/slog.HandlerOptions.ReplaceAttr].

var (
	debugColor = color.New(color.FgMagenta).SprintFunc()
	infoColor  = color.New(color.FgCyan).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
)

// ColorizeLevel paints the level attribute when writing to a terminal.
func ColorizeLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var s string
	switch {
	case level >= slog.LevelError:
		s = errorColor(level.String())
	case level >= slog.LevelWarn:
		s = warnColor(level.String())
	case level >= slog.LevelInfo:
		s = infoColor(level.String())
	default:
		s = debugColor(level.String())
	}

	return slog.String(slog.LevelKey, s)
}

// DeleteLevelAttr drops the level attribute.
func DeleteLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		return slog.Attr{}
	}

	return a
}

// DeleteMessageAttr drops the msg attribute.
func DeleteMessageAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.MessageKey {
		return slog.Attr{}
	}

	return a
}

// TruncSourceAttr shortens the source attribute to the last directory and file name.
func TruncSourceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.SourceKey {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}

	return slog.String(slog.SourceKey, truncPath(src.File)+":"+strconv.Itoa(src.Line))
}

// ChainReplaceAttr applies each fn in order, stopping once an attribute is dropped.
func ChainReplaceAttr(fns ...func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		for _, fn := range fns {
			a = fn(groups, a)
			if a.Equal(slog.Attr{}) {
				return a
			}
		}

		return a
	}
}

func truncPath(file string) string {
	dir, name := filepath.Split(file)
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" {
		return name
	}

	return filepath.Join(filepath.Base(dir), name)
}
