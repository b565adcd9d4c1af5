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

package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

var errBoom = errors.New("boom")

type failingBackend struct {
	availableErr error
}

func (f failingBackend) Available() error { return f.availableErr }

func (failingBackend) Measurer(PageSpec) (TextMeasurer, error) {
	return FixedWidthMeasurer{CharWidth: 2}, nil
}

func (failingBackend) Render([]Line, PageSpec, string) ([]byte, error) {
	return nil, errBoom
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

func TestExporter_CSV(t *testing.T) {
	dir := t.TempDir()
	exp := New(NewFileSink(dir), nil, logger.NewTestLogger())

	art, err := exp.CSV(decodeRecord(t, sampleDevice))
	require.NoError(t, err)

	assert.Equal(t, "web-01.csv", art.Name)
	assert.Equal(t, MIMECSV, art.MIME)
	assert.Equal(t, filepath.Join(dir, "web-01.csv"), art.Path)

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, ToCSV(decodeRecord(t, sampleDevice)), data)
	assert.Equal(t, len(data), art.Size)

	assert.Equal(t, []string{"web-01.csv"}, dirEntries(t, dir))
}

func TestExporter_PDF(t *testing.T) {
	dir := t.TempDir()
	exp := New(NewFileSink(dir), fixedBackend(), logger.NewTestLogger())

	art, err := exp.PDF(decodeRecord(t, sampleDevice))
	require.NoError(t, err)

	assert.Equal(t, "web-01.pdf", art.Name)
	assert.Equal(t, MIMEPDF, art.MIME)
	assert.Positive(t, art.Size)
}

func TestExporter_PDFBackendUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		backend DocumentBackend
		want    error
	}{
		{name: "no backend", backend: nil, want: ErrBackendUnavailable},
		{name: "unusable font", backend: NewPDFBackend("Wingdings"), want: ErrBackendUnavailable},
		{name: "reported unavailable", backend: failingBackend{availableErr: ErrBackendUnavailable}, want: ErrBackendUnavailable},
		{name: "render fails", backend: failingBackend{}, want: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "exports")
			exp := New(NewFileSink(dir), tt.backend, logger.NewTestLogger())

			art, err := exp.PDF(decodeRecord(t, sampleDevice))
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, Artifact{}, art)
			assert.Empty(t, dirEntries(t, dir), "no artifact may be written")
		})
	}
}

func TestExporter_NilRecord(t *testing.T) {
	exp := New(NewFileSink(t.TempDir()), fixedBackend(), logger.NewTestLogger())

	_, err := exp.CSV(nil)
	require.ErrorIs(t, err, ErrNoRecord)

	_, err = exp.PDF(nil)
	require.ErrorIs(t, err, ErrNoRecord)

	_, err = exp.LogDump(nil, []byte(`{}`))
	require.ErrorIs(t, err, ErrNoRecord)
}

func TestExporter_LogDump(t *testing.T) {
	dir := t.TempDir()
	exp := New(NewFileSink(dir), nil, logger.NewTestLogger())

	record := models.NewDeviceRecord(models.Field{Key: models.FieldIPAddress, Value: "10.0.0.9"})
	raw := []byte(`{"logs":[{"time":"t","source":"s","event_id":7,"message":"m"}]}`)

	art, err := exp.LogDump(record, raw)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9_logs.json", art.Name)
	assert.Equal(t, MIMEJSON, art.MIME)

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(data))
	assert.Contains(t, string(data), "\n  \"logs\"")

	art, err = exp.LogDump(record, []byte("not json"))
	require.NoError(t, err)

	data, err = os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))

	_, err = exp.LogDump(record, nil)
	require.ErrorIs(t, err, ErrEmptyArtifact)
}
