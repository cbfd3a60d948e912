// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging wraps log/slog behind the small Logger surface used
// throughout the checker: Debug/Info/Warn/Error taking a message and
// alternating key/value pairs. It exists so call sites never import
// log/slog directly and so the handler (JSON for ops, text for an
// interactive CLI run) is a one-line choice at construction time.
package logging

import (
	"io"
	"log/slog"
)

// Logger is the structured logging handle passed down into the checker
// pipeline and the API server.
type Logger struct {
	s *slog.Logger
}

// New builds a Logger writing structured JSON records to w at the given
// level ("debug", "info", "warn", "error"; anything else defaults to
// info). Intended for non-interactive runs (CI, a batch DRC pass).
func New(w io.Writer, level string) *Logger {
	return &Logger{s: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))}
}

// NewText builds a Logger writing human-readable lines, for an
// interactive CLI invocation.
func NewText(w io.Writer, level string) *Logger {
	return &Logger{s: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, kv ...any) { l.s.Debug(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)   { l.s.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)   { l.s.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any)  { l.s.Error(msg, kv...) }

// With returns a Logger that always includes the given key/value pairs,
// e.g. a per-net logger carrying "net" in every record.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{s: l.s.With(kv...)}
}

// Discard is a Logger that drops every record; used by components and
// tests that don't care about log output but need a non-nil Logger.
func Discard() *Logger {
	return New(io.Discard, "error")
}
