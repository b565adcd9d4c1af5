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

// Package export turns a single device record into downloadable artifacts: a
// two-line CSV, a paginated PDF, and a raw JSON dump of the device's logs.
package export

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

type Exporter struct {
	sink    Sink
	backend DocumentBackend
	spec    PageSpec
	logger  logger.Logger
}

type Option func(*Exporter)

func WithPageSpec(spec PageSpec) Option {
	return func(e *Exporter) {
		e.spec = spec
	}
}

// New returns an Exporter. A nil backend makes PDF export report ErrBackendUnavailable.
func New(sink Sink, backend DocumentBackend, log logger.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		sink:    sink,
		backend: backend,
		spec:    A4(),
		logger:  log,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Exporter) CSV(record *models.DeviceRecord) (Artifact, error) {
	if record == nil {
		return Artifact{}, ErrNoRecord
	}

	return e.save(CSVFileName(record), MIMECSV, ToCSV(record))
}

// PDF renders the record fully in memory before anything reaches the sink.
func (e *Exporter) PDF(record *models.DeviceRecord) (Artifact, error) {
	if record == nil {
		return Artifact{}, ErrNoRecord
	}

	if e.backend == nil {
		return Artifact{}, ErrBackendUnavailable
	}

	if err := e.backend.Available(); err != nil {
		e.logger.Warn().Err(err).Msg("PDF backend unavailable")
		return Artifact{}, err
	}

	measurer, err := e.backend.Measurer(e.spec)
	if err != nil {
		return Artifact{}, err
	}

	data, err := e.backend.Render(Layout(record, e.spec, measurer), e.spec, DocumentTitle)
	if err != nil {
		e.logger.Error().Err(err).Str("hostname", record.String(models.FieldHostname)).Msg("PDF render failed")
		return Artifact{}, err
	}

	return e.save(PDFFileName(record), MIMEPDF, data)
}

// LogDump writes the raw logs payload for record, indented when it is valid JSON.
func (e *Exporter) LogDump(record *models.DeviceRecord, raw []byte) (Artifact, error) {
	if record == nil {
		return Artifact{}, ErrNoRecord
	}

	data := raw

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err == nil {
		data = pretty.Bytes()
	}

	return e.save(LogDumpFileName(record), MIMEJSON, data)
}

func (e *Exporter) save(name, mime string, data []byte) (Artifact, error) {
	art, err := e.sink.Save(name, mime, data)
	if err != nil {
		if !errors.Is(err, ErrEmptyArtifact) {
			e.logger.Error().Err(err).Str("file", name).Msg("Export failed")
		}

		return Artifact{}, err
	}

	e.logger.Info().
		Str("file", art.Path).
		Str("mime", art.MIME).
		Int("bytes", art.Size).
		Msg("Export written")

	return art, nil
}
