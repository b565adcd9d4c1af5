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

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the structured logger injected into every FleetView component.
type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	Panic() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
	WithFields(fields map[string]interface{}) zerolog.Logger
	SetLevel(level zerolog.Level)
	SetDebug(debug bool)
}

// Wrap adapts a zerolog.Logger to Logger.
func Wrap(zl zerolog.Logger) Logger {
	return &adapter{zl: zl}
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() Logger {
	return Wrap(zerolog.New(io.Discard).Level(zerolog.Disabled))
}

// NewWriterLogger writes JSON lines to w at level. Tests use it to assert on
// log output.
func NewWriterLogger(w io.Writer, level zerolog.Level) Logger {
	return Wrap(zerolog.New(w).Level(level))
}

type adapter struct {
	zl zerolog.Logger
}

func (a *adapter) Trace() *zerolog.Event { return a.zl.Trace() }
func (a *adapter) Debug() *zerolog.Event { return a.zl.Debug() }
func (a *adapter) Info() *zerolog.Event  { return a.zl.Info() }
func (a *adapter) Warn() *zerolog.Event  { return a.zl.Warn() }
func (a *adapter) Error() *zerolog.Event { return a.zl.Error() }
func (a *adapter) Fatal() *zerolog.Event { return a.zl.Fatal() }
func (a *adapter) Panic() *zerolog.Event { return a.zl.Panic() }
func (a *adapter) With() zerolog.Context { return a.zl.With() }

func (a *adapter) WithComponent(component string) zerolog.Logger {
	return a.zl.With().Str("component", component).Logger()
}

func (a *adapter) WithFields(fields map[string]interface{}) zerolog.Logger {
	return a.zl.With().Fields(fields).Logger()
}

func (a *adapter) SetLevel(level zerolog.Level) { a.zl = a.zl.Level(level) }

func (a *adapter) SetDebug(debug bool) {
	if debug {
		a.SetLevel(zerolog.DebugLevel)
		return
	}

	a.SetLevel(zerolog.InfoLevel)
}
