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
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SimpleLogger is a time-boxed rotating file writer: every call to Write
// that lands more than rotateInterval after the current file was opened
// starts a new file, named by the timestamp of its first write.
type SimpleLogger struct {
	dir      string
	prefix   string
	interval time.Duration

	mu       sync.Mutex
	file     *os.File
	openedAt time.Time
}

// NewSimpleLogger builds a SimpleLogger writing into dir with the given
// filename prefix, rotating after interval has elapsed since the current
// file was opened.
func NewSimpleLogger(dir, prefix string, interval time.Duration) *SimpleLogger {
	return &SimpleLogger{dir: dir, prefix: prefix, interval: interval}
}

// Open creates the first log file.
func (l *SimpleLogger) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rotateLocked()
}

// Write implements io.Writer, rotating to a new file when interval has
// elapsed since the current one was opened.
func (l *SimpleLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil || time.Since(l.openedAt) >= l.interval {
		if err := l.rotateLocked(); err != nil {
			return 0, err
		}
	}
	return l.file.Write(p)
}

// Close closes the current log file.
func (l *SimpleLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *SimpleLogger) rotateLocked() error {
	if l.file != nil {
		_ = l.file.Close()
	}
	now := time.Now()
	name := l.prefix + now.Format("20060102.15:04:05.000") + ".log"
	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	l.file = f
	l.openedAt = now
	return nil
}

var _ io.WriteCloser = (*SimpleLogger)(nil)
