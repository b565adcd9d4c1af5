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

package logviewer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fleetview/internal/fakeinventory"
	"github.com/carverauto/fleetview/pkg/inventory"
	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

func device(ip, hostname string) *models.DeviceRecord {
	return models.NewDeviceRecord(
		models.Field{Key: models.FieldHostname, Value: hostname},
		models.Field{Key: models.FieldIPAddress, Value: ip},
	)
}

func newServerViewer(t *testing.T) (*Viewer, *fakeinventory.Server) {
	t.Helper()

	srv := fakeinventory.New()
	t.Cleanup(srv.Close)

	client, err := inventory.NewClient(inventory.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	v, err := New(client, logger.NewTestLogger())
	require.NoError(t, err)

	return v, srv
}

func TestOpenXThenYShowsOnlyY(t *testing.T) {
	v, srv := newServerViewer(t)

	srv.SetLogs("10.0.0.1", `{"logs":[{"time":"t1","source":"x","event_id":1,"message":"from X"}]}`)
	srv.SetLogs("10.0.0.2", `{"logs":[{"time":"t2","source":"y","event_id":"2","message":"from Y"}]}`)

	fetchX, err := v.Open(device("10.0.0.1", "x"))
	require.NoError(t, err)

	fetchY, err := v.Open(device("10.0.0.2", "y"))
	require.NoError(t, err)

	resY := fetchY(context.Background())
	resX := fetchX(context.Background())

	assert.True(t, v.Apply(resY))
	assert.False(t, v.Apply(resX), "result for X arrived after Y was opened")

	entries := v.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "from Y", entries[0].Message)
	assert.Equal(t, "2", entries[0].EventID)
	assert.Equal(t, "10.0.0.2", v.Snapshot().DeviceKey)
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.1"}, srv.LogRequests())
}

func TestOpenFetchesExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := inventory.NewMockFetcher(ctrl)

	fetcher.EXPECT().FetchLogs(gomock.Any(), "web-01").
		Return(&inventory.LogsResult{Raw: []byte(`{"logs":[]}`)}, nil).
		Times(1)

	v, err := New(fetcher, logger.NewTestLogger())
	require.NoError(t, err)

	fetch, err := v.Open(device("", "web-01"))
	require.NoError(t, err)
	assert.True(t, v.Snapshot().Loading)

	require.True(t, v.Apply(fetch(context.Background())))
	assert.False(t, v.Snapshot().Loading)
	assert.Empty(t, v.Entries())
}

func TestOpenWithoutIdentifier(t *testing.T) {
	v, _ := newServerViewer(t)

	_, err := v.Open(models.NewDeviceRecord(models.Field{Key: models.FieldOS, Value: "Linux"}))
	require.ErrorIs(t, err, ErrNoDevice)

	_, err = v.Open(nil)
	require.ErrorIs(t, err, ErrNoDevice)
	assert.False(t, v.IsOpen())
}

func TestFetchFailure(t *testing.T) {
	v, srv := newServerViewer(t)
	srv.FailLogs(http.StatusBadGateway)

	fetch, err := v.Open(device("10.0.0.1", "x"))
	require.NoError(t, err)
	require.True(t, v.Apply(fetch(context.Background())))

	snap := v.Snapshot()
	assert.Contains(t, snap.LastError, "502")
	assert.Empty(t, snap.Logs)

	_, err = v.Raw()
	require.ErrorIs(t, err, ErrNoPayload)
}

func TestCloseClearsState(t *testing.T) {
	v, srv := newServerViewer(t)
	srv.SetLogs("10.0.0.1", `{"logs":[{"message":"m"}]}`)

	fetch, err := v.Open(device("10.0.0.1", "x"))
	require.NoError(t, err)

	res := fetch(context.Background())
	require.True(t, v.Apply(res))

	raw, err := v.Raw()
	require.NoError(t, err)
	assert.JSONEq(t, `{"logs":[{"message":"m"}]}`, string(raw))

	v.Close()

	assert.False(t, v.IsOpen())
	assert.Equal(t, models.LogSnapshot{}, v.Snapshot())
	assert.Nil(t, v.Device())
	assert.False(t, v.Apply(res), "a result delivered after close is ignored")
	assert.Empty(t, v.Entries())
}

func TestEntriesTruncateMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := inventory.NewMockFetcher(ctrl)

	long := strings.Repeat("é", 60)
	fetcher.EXPECT().FetchLogs(gomock.Any(), "10.0.0.1").Return(&inventory.LogsResult{
		Logs: []models.LogEntry{{Message: long}, {Message: "short"}},
		Raw:  []byte(`{}`),
	}, nil)

	v, err := New(fetcher, logger.NewTestLogger())
	require.NoError(t, err)

	fetch, err := v.Open(device("10.0.0.1", "x"))
	require.NoError(t, err)
	v.Apply(fetch(context.Background()))

	entries := v.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, strings.Repeat("é", 50)+"...", entries[0].Message)
	assert.Equal(t, long, entries[0].Detail)
	assert.Equal(t, "short", entries[1].Message)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("", 50))
	assert.Equal(t, strings.Repeat("a", 50), Truncate(strings.Repeat("a", 50), 50))
	assert.Equal(t, strings.Repeat("a", 50)+"...", Truncate(strings.Repeat("a", 51), 50))
}

func TestNew_RequiresFetcher(t *testing.T) {
	_, err := New(nil, logger.NewTestLogger())
	require.True(t, errors.Is(err, ErrNilClient))
}
