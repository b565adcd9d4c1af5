/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownOutput   = errors.New("unknown log output")
	ErrLogFileRequired = errors.New("log file path is required for file output")
)

const (
	logDirPerms  = 0o750
	logFilePerms = 0o600
)

//nolint:gochecknoglobals // package-level logger mirrors zerolog's global
var (
	globalLogger zerolog.Logger
	closersMu    sync.Mutex
	closers      []io.Closer
)

func init() {
	globalLogger = zerolog.New(io.Discard).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init replaces the package logger. Outputs opened here are released by Shutdown.
func Init(ctx context.Context, config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}

	zlog, err := New(ctx, config)
	if err != nil {
		return err
	}

	globalLogger = zlog
	log.Logger = globalLogger

	return nil
}

func InitWithDefaults(ctx context.Context) error {
	return Init(ctx, DefaultConfig())
}

// New builds a zerolog logger for config without touching the package logger.
func New(ctx context.Context, config *Config) (zerolog.Logger, error) {
	level, err := ParseLevel(config)
	if err != nil {
		return zerolog.Logger{}, err
	}

	output, err := NewOutput(ctx, config)
	if err != nil {
		return zerolog.Logger{}, err
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// ParseLevel resolves the effective level; Debug wins over Level.
func ParseLevel(config *Config) (zerolog.Level, error) {
	if config.Debug {
		return zerolog.DebugLevel, nil
	}

	if config.Level == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	return level, nil
}

// NewOutput opens the configured destination and tees it to OTLP when enabled.
func NewOutput(ctx context.Context, config *Config) (io.Writer, error) {
	var output io.Writer

	switch config.Output {
	case OutputStdout:
		output = os.Stdout
	case OutputStderr:
		output = os.Stderr
	case OutputFile, "":
		file, err := openLogFile(config.File)
		if err != nil {
			return nil, err
		}

		registerCloser(file)

		output = file
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, config.Output)
	}

	if config.OTel.Enabled && config.OTel.Endpoint != "" {
		otelWriter, err := NewOTELWriter(ctx, config.OTel)
		if err != nil {
			return nil, err
		}

		output = zerolog.MultiLevelWriter(output, otelWriter)
	}

	return output, nil
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, ErrLogFileRequired
	}

	if err := os.MkdirAll(filepath.Dir(path), logDirPerms); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerms)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

func registerCloser(c io.Closer) {
	closersMu.Lock()
	defer closersMu.Unlock()

	closers = append(closers, c)
}

// Shutdown flushes the OTLP exporter and closes any log files.
func Shutdown() error {
	var err error

	closersMu.Lock()
	defer closersMu.Unlock()

	for _, c := range closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	closers = nil

	return err
}

func SetLevel(level zerolog.Level) {
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

func SetDebug(debug bool) {
	if debug {
		SetLevel(zerolog.DebugLevel)
	} else {
		SetLevel(zerolog.InfoLevel)
	}
}

func GetLogger() zerolog.Logger {
	return globalLogger
}

func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

func Info() *zerolog.Event {
	return globalLogger.Info()
}

func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

func Error() *zerolog.Event {
	return globalLogger.Error()
}

func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}
