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

// Package logviewer holds the state of the per-device log overlay. Each Open
// starts a new generation; results from an older generation are ignored, so
// the overlay never mixes entries from two devices.
package logviewer

import (
	"context"
	"errors"
	"sync"

	"github.com/carverauto/fleetview/pkg/inventory"
	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

// MessagePreviewLength is the inline budget for a log message, in characters.
const MessagePreviewLength = 50

const (
	fetchErrorPrefix = "Error fetching logs: "
	ellipsis         = "..."
)

var (
	ErrNoPayload = errors.New("no log payload to export")
	ErrNoDevice  = errors.New("device has no ip_address or hostname")
	ErrNilClient = errors.New("log viewer requires a fetcher")
)

// Result is the outcome of one log fetch.
type Result struct {
	Generation uint64
	DeviceKey  string
	Logs       []models.LogEntry
	Raw        []byte
	Err        error
}

// Entry is a log line prepared for display.
type Entry struct {
	Time    string
	Source  string
	EventID string
	Message string
	Detail  string
}

type Viewer struct {
	fetcher inventory.Fetcher
	logger  logger.Logger

	mu         sync.Mutex
	open       bool
	generation uint64
	device     *models.DeviceRecord
	snapshot   models.LogSnapshot
}

func New(fetcher inventory.Fetcher, log logger.Logger) (*Viewer, error) {
	if fetcher == nil {
		return nil, ErrNilClient
	}

	return &Viewer{fetcher: fetcher, logger: log}, nil
}

// Open resets the overlay for device and returns the fetch to run. The returned
// function performs exactly one request and may run on any goroutine; hand its
// Result to Apply.
func (v *Viewer) Open(device *models.DeviceRecord) (func(ctx context.Context) Result, error) {
	key := ""
	if device != nil {
		key = device.Identifier()
	}

	if key == "" {
		return nil, ErrNoDevice
	}

	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.open = true
	v.device = device
	v.snapshot = models.LogSnapshot{DeviceKey: key, Loading: true}
	v.mu.Unlock()

	v.logger.Debug().Str("device", key).Uint64("generation", gen).Msg("Opening device logs")

	return func(ctx context.Context) Result {
		res := Result{Generation: gen, DeviceKey: key}

		logs, err := v.fetcher.FetchLogs(ctx, key)
		if err != nil {
			res.Err = err
			return res
		}

		res.Logs = logs.Logs
		res.Raw = logs.Raw

		return res
	}, nil
}

// Apply installs res if it belongs to the current open generation and reports
// whether it did.
func (v *Viewer) Apply(res Result) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open || res.Generation != v.generation {
		v.logger.Debug().
			Str("device", res.DeviceKey).
			Uint64("generation", res.Generation).
			Msg("Ignoring log result for a closed or replaced view")

		return false
	}

	v.snapshot.Loading = false

	if res.Err != nil {
		v.snapshot.LastError = fetchErrorPrefix + res.Err.Error()
		v.logger.Warn().Err(res.Err).Str("device", res.DeviceKey).Msg("Log fetch failed")

		return true
	}

	v.snapshot.Logs = res.Logs
	v.snapshot.Raw = res.Raw
	v.snapshot.LastError = ""

	return true
}

// Close drops all overlay state.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.open = false
	v.generation++
	v.device = nil
	v.snapshot = models.LogSnapshot{}
}

func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.open
}

func (v *Viewer) Snapshot() models.LogSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.snapshot
}

// Device is the record the overlay was opened for.
func (v *Viewer) Device() *models.DeviceRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.device
}

// Entries returns the current logs with messages cut to MessagePreviewLength.
func (v *Viewer) Entries() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Entry, 0, len(v.snapshot.Logs))
	for _, l := range v.snapshot.Logs {
		out = append(out, Entry{
			Time:    l.Time,
			Source:  l.Source,
			EventID: string(l.EventID),
			Message: Truncate(l.Message, MessagePreviewLength),
			Detail:  l.Message,
		})
	}

	return out
}

// Raw is the untruncated logs payload of the open device.
func (v *Viewer) Raw() ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open || v.snapshot.Loading || v.snapshot.Raw == nil {
		return nil, ErrNoPayload
	}

	return v.snapshot.Raw, nil
}

// Truncate cuts s to limit characters and appends "..." when anything was cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + ellipsis
}
