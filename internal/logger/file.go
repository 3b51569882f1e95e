// Copyright (C) 2024 Yota Hamada
// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dagrunner/dagrunner/internal/fileutil"
)

// LogFileConfig describes where a node/step's own log file should live.
type LogFileConfig struct {
	Prefix    string
	LogDir    string
	DAGLogDir string
	DAGName   string
	RequestID string
}

// OpenLogFile creates (or truncates) and opens the log file described by
// config, creating its parent directory if necessary.
func OpenLogFile(config LogFileConfig) (*os.File, error) {
	dir, err := prepareLogDirectory(config)
	if err != nil {
		return nil, err
	}
	name := generateLogFilename(config)
	return openFile(filepath.Join(dir, name))
}

func prepareLogDirectory(config LogFileConfig) (string, error) {
	base := config.DAGLogDir
	if base == "" {
		base = config.LogDir
	}
	dir := filepath.Join(base, fileutil.SafeName(config.DAGName))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	return dir, nil
}

func generateLogFilename(config LogFileConfig) string {
	safeName := fileutil.SafeName(config.DAGName)
	timestamp := time.Now().Format("20060102.15:04:05.000")
	return fmt.Sprintf("%s%s.%s.%s.log", config.Prefix, safeName, timestamp, config.RequestID)
}

func openFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	return f, nil
}
