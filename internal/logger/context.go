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

package logger

import (
	"context"
	"fmt"

	"log/slog"
)

type contextKey struct{}

// WithLogger attaches l to ctx so it can be retrieved with the package-level
// Info/Debug/Warn/Error helpers.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func fromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return Default()
}

func Debug(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelDebug, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelInfo, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelWarn, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelError, msg, args...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelDebug, fmt.Sprintf(format, args...))
}

func Infof(ctx context.Context, format string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelInfo, fmt.Sprintf(format, args...))
}

func Warnf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelWarn, fmt.Sprintf(format, args...))
}

func Errorf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).logAt(3, slog.LevelError, fmt.Sprintf(format, args...))
}
