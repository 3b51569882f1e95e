// Copyright (C) 2024 The Dagu Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package logger wraps log/slog behind a small interface matched to how the
// engine logs: one fan-out handler per process (stdout + the writer set by
// WithWriter), tagged with step/branch/run identifiers via With/WithGroup.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	slogmulti "github.com/samber/slog-multi"
	"log/slog"
)

// Logger is the engine-wide logging contract. The slog-backed
// implementation preserves the caller's source location even though every
// call is routed through this interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger

	logAt(skip int, level slog.Level, msg string, args ...any)
}

type logger struct {
	handler slog.Handler
}

type options struct {
	debug  bool
	format string
	writer io.Writer
	quiet  bool
}

// Option configures NewLogger.
type Option func(*options)

// WithDebug enables debug-level logging and source-location annotations.
func WithDebug() Option { return func(o *options) { o.debug = true } }

// WithFormat selects "text" (default) or "json" output.
func WithFormat(format string) Option { return func(o *options) { o.format = format } }

// WithWriter sets the primary sink. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option { return func(o *options) { o.writer = w } }

// WithQuiet suppresses the default stdout sink, so only WithWriter's
// destination (and any Tee attached later) receives log output.
func WithQuiet() Option { return func(o *options) { o.quiet = true } }

// NewLogger builds a Logger fanning out to stdout (unless WithQuiet) and to
// the configured writer.
func NewLogger(opts ...Option) Logger {
	o := &options{format: "text", writer: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{AddSource: o.debug, Level: level}

	newHandler := func(w io.Writer) slog.Handler {
		if o.format == "json" {
			return slog.NewJSONHandler(w, hopts)
		}
		return slog.NewTextHandler(w, hopts)
	}

	var handlers []slog.Handler
	if !o.quiet {
		handlers = append(handlers, newHandler(os.Stdout))
	}
	handlers = append(handlers, newHandler(o.writer))

	return &logger{handler: slogmulti.Fanout(handlers...)}
}

// Default returns a Logger writing text at Info level to stdout.
func Default() Logger {
	return NewLogger()
}

func (l *logger) logAt(skip int, level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.handler.Handle(ctx, r)
}

func (l *logger) Debug(msg string, args ...any) { l.logAt(3, slog.LevelDebug, msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.logAt(3, slog.LevelInfo, msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.logAt(3, slog.LevelWarn, msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.logAt(3, slog.LevelError, msg, args...) }

func (l *logger) Debugf(format string, args ...any) {
	l.logAt(3, slog.LevelDebug, fmt.Sprintf(format, args...))
}
func (l *logger) Infof(format string, args ...any) {
	l.logAt(3, slog.LevelInfo, fmt.Sprintf(format, args...))
}
func (l *logger) Warnf(format string, args ...any) {
	l.logAt(3, slog.LevelWarn, fmt.Sprintf(format, args...))
}
func (l *logger) Errorf(format string, args ...any) {
	l.logAt(3, slog.LevelError, fmt.Sprintf(format, args...))
}

func (l *logger) With(args ...any) Logger {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, _ := args[i].(string)
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return &logger{handler: l.handler.WithAttrs(attrs)}
}

func (l *logger) WithGroup(name string) Logger {
	return &logger{handler: l.handler.WithGroup(name)}
}
