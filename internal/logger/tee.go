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
	"log"
)

// Tee duplicates the process-wide log.Logger's output to Writer for the
// duration between Open and Close, so a single node's execution can have
// its own step log file in addition to the main log stream.
type Tee struct {
	Writer io.Writer

	orig io.Writer
}

// Open starts teeing log.Default() output to t.Writer.
func (t *Tee) Open() error {
	t.orig = log.Writer()
	log.SetOutput(io.MultiWriter(t.orig, t.Writer))
	return nil
}

// Close stops teeing and restores the previous log output.
func (t *Tee) Close() {
	if t.orig != nil {
		log.SetOutput(t.orig)
	}
	if c, ok := t.Writer.(io.Closer); ok {
		_ = c.Close()
	}
}
