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

package fileutil

import (
	"fmt"
	"path/filepath"
)

// FileNotFoundError reports that a file could not be located, optionally
// recording every directory that was searched.
type FileNotFoundError struct {
	Path          string
	SearchedPaths []string
}

func (e *FileNotFoundError) Error() string {
	if len(e.SearchedPaths) == 0 {
		return fmt.Sprintf("file not found: %s", e.Path)
	}
	return fmt.Sprintf("file not found: %s (searched in: %v)", e.Path, e.SearchedPaths)
}

// FileResolver locates a file by name across an ordered set of candidate
// base directories, used to resolve catalog items and pipeline commands
// relative to the compute data folder or the loader's search path.
type FileResolver struct {
	relativeTos []string
}

// NewFileResolver creates a FileResolver searching relativeTos in order.
func NewFileResolver(relativeTos []string) *FileResolver {
	return &FileResolver{relativeTos: relativeTos}
}

// ResolveFilePath returns the first existing path among:
//   - file itself, if it is absolute and exists
//   - filepath.Join(dir, file) for each dir in relativeTos, in order
//
// It returns a *FileNotFoundError if none exist.
func (r *FileResolver) ResolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		if FileExists(file) {
			return file, nil
		}
		return "", &FileNotFoundError{Path: file}
	}

	for _, dir := range r.relativeTos {
		candidate := filepath.Join(dir, file)
		if FileExists(candidate) {
			return candidate, nil
		}
	}

	return "", &FileNotFoundError{Path: file, SearchedPaths: r.relativeTos}
}
