package config

import (
	"fmt"
	"io"
	"log/slog"
)

// SlogLevel 解析 log.level（debug/info/warn/error，大小写不敏感）。
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds the process logger. Load has already validated the level
// and format; an unknown level falls back to info.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := l.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
