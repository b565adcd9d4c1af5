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

package poller

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fleetview/internal/fakeinventory"
	"github.com/carverauto/fleetview/pkg/inventory"
	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

const waitTimeout = 2 * time.Second

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testHarness struct {
	clock  *MockClock
	ticker *MockTicker
	tickCh chan time.Time
}

func newHarness(t *testing.T, ctrl *gomock.Controller) *testHarness {
	t.Helper()

	h := &testHarness{
		clock:  NewMockClock(ctrl),
		ticker: NewMockTicker(ctrl),
		tickCh: make(chan time.Time),
	}

	h.clock.EXPECT().Ticker(DefaultPollInterval).Return(h.ticker).AnyTimes()
	h.clock.EXPECT().Now().Return(fixedNow).AnyTimes()
	h.ticker.EXPECT().Chan().Return((<-chan time.Time)(h.tickCh)).AnyTimes()

	return h
}

func hosts(names ...string) []*models.DeviceRecord {
	out := make([]*models.DeviceRecord, 0, len(names))
	for _, n := range names {
		out = append(out, models.NewDeviceRecord(models.Field{Key: models.FieldHostname, Value: n}))
	}

	return out
}

func hostnames(records []*models.DeviceRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.String(models.FieldHostname))
	}

	return out
}

func waitForUpdate(t *testing.T, p *Poller, match func(models.DeviceSnapshot) bool) models.DeviceSnapshot {
	t.Helper()

	deadline := time.After(waitTimeout)

	for {
		select {
		case snap := <-p.Updates():
			if match(snap) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot; last: %+v", p.Snapshot())
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.Duration(DefaultPollInterval), cfg.PollInterval)
	assert.Equal(t, models.Duration(DefaultRequestTimeout), cfg.RequestTimeout)

	cfg = &Config{PollInterval: models.Duration(-time.Second)}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidInterval)
}

func TestNew_RequiresFetcher(t *testing.T) {
	_, err := New(nil, nil, nil, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrNilFetcher)
}

func TestStart_ImmediateRefreshThenTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	gomock.InOrder(
		fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("a"), nil),
		fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("a", "b"), nil),
	)
	h.ticker.EXPECT().Stop().Times(1)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, Active, p.State())

	snap := waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 1 })
	assert.Equal(t, fixedNow, snap.FetchedAt)
	assert.Empty(t, snap.LastError)

	h.tickCh <- fixedNow

	snap = waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 2 })
	assert.Equal(t, []string{"a", "b"}, hostnames(snap.Records))
	assert.Equal(t, uint64(2), snap.Seq)

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, Idle, p.State())
}

func TestStartStopTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("a"), nil).AnyTimes()
	h.ticker.EXPECT().Stop().Times(2)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)

	require.ErrorIs(t, p.Refresh(), ErrNotActive)
	require.ErrorIs(t, p.Stop(context.Background()), ErrNotActive)

	require.NoError(t, p.Start(context.Background()))
	require.ErrorIs(t, p.Start(context.Background()), ErrAlreadyActive)
	require.NoError(t, p.Refresh())
	require.NoError(t, p.Stop(context.Background()))

	require.ErrorIs(t, p.Refresh(), ErrNotActive)

	require.NoError(t, p.Start(context.Background()), "a new login starts polling again")
	require.NoError(t, p.Stop(context.Background()))
}

func TestRefreshFailureKeepsRecords(t *testing.T) {
	srv := fakeinventory.New()
	t.Cleanup(srv.Close)

	client, err := inventory.NewClient(inventory.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	h.ticker.EXPECT().Stop().Times(1)

	srv.SetDevices(`[{"hostname":"web-01"},{"hostname":"db-01"}]`)

	p, err := New(nil, client, h.clock, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	defer func() { require.NoError(t, p.Stop(context.Background())) }()

	before := waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 2 })

	srv.FailDevices(http.StatusInternalServerError)
	h.tickCh <- fixedNow

	after := waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return s.LastError != "" })

	assert.Equal(t, before.Records, after.Records)
	assert.Contains(t, after.LastError, "500")
	assert.Contains(t, after.LastError, FetchErrorPrefix)

	srv.SetDevices(`[{"hostname":"web-01"}]`)
	require.NoError(t, p.Refresh())

	recovered := waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 1 })
	assert.Empty(t, recovered.LastError)
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	gomock.InOrder(
		fetcher.EXPECT().FetchDevices(gomock.Any()).DoAndReturn(
			func(context.Context) ([]*models.DeviceRecord, error) {
				close(started)
				<-release

				return hosts("stale"), nil
			}),
		fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("fresh"), nil),
	)
	h.ticker.EXPECT().Stop().Times(1)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	current := p.run

	<-started
	require.NoError(t, p.Refresh())

	waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 1 })

	close(release)
	current.refreshWg.Wait()

	snap := p.Snapshot()
	assert.Equal(t, []string{"fresh"}, hostnames(snap.Records))
	assert.Equal(t, uint64(2), snap.Seq)

	require.NoError(t, p.Stop(context.Background()))
}

func TestStaleFailureIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("a"), nil).AnyTimes()
	h.ticker.EXPECT().Stop().Times(1)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 1 })

	p.apply(1, 0, nil, errors.New("late failure"))
	assert.Empty(t, p.Snapshot().LastError)

	require.NoError(t, p.Stop(context.Background()))
}

func TestStopDropsInFlightResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	started := make(chan struct{})

	fetcher.EXPECT().FetchDevices(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]*models.DeviceRecord, error) {
			close(started)
			<-ctx.Done()

			return nil, ctx.Err()
		})
	h.ticker.EXPECT().Stop().Times(1)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	<-started
	require.NoError(t, p.Stop(context.Background()))

	snap := p.Snapshot()
	assert.Empty(t, snap.LastError)
	assert.Nil(t, snap.Records)
	assert.Zero(t, snap.Seq)
}

func TestCancelledContextReturnsToIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("a"), nil).AnyTimes()
	h.ticker.EXPECT().Stop().Times(2)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))

	first := p.run

	waitForUpdate(t, p, func(s models.DeviceSnapshot) bool { return len(s.Records) == 1 })

	cancel()

	require.Eventually(t, func() bool { return p.State() == Idle }, waitTimeout, 5*time.Millisecond)
	first.loopWg.Wait()
	require.ErrorIs(t, p.Refresh(), ErrNotActive)
	require.ErrorIs(t, p.Stop(context.Background()), ErrNotActive)

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, Active, p.State())
	require.NoError(t, p.Stop(context.Background()))
}

func TestRestartAfterTimedOutStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl)
	fetcher := inventory.NewMockFetcher(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	gomock.InOrder(
		fetcher.EXPECT().FetchDevices(gomock.Any()).DoAndReturn(
			func(context.Context) ([]*models.DeviceRecord, error) {
				close(started)
				<-release

				return hosts("old"), nil
			}),
		fetcher.EXPECT().FetchDevices(gomock.Any()).Return(hosts("new"), nil).AnyTimes(),
	)
	h.ticker.EXPECT().Stop().Times(2)

	p, err := New(nil, fetcher, h.clock, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	first := p.run

	<-started

	expired, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Stop(expired), context.Canceled)

	require.NoError(t, p.Start(context.Background()))
	require.NotSame(t, first, p.run)

	waitForUpdate(t, p, func(s models.DeviceSnapshot) bool {
		return len(s.Records) == 1 && s.Records[0].String(models.FieldHostname) == "new"
	})

	close(release)
	first.refreshWg.Wait()
	first.loopWg.Wait()

	assert.Equal(t, []string{"new"}, hostnames(p.Snapshot().Records))
	require.NoError(t, p.Stop(context.Background()))
}

func TestUpdatesKeepsOnlyLatest(t *testing.T) {
	p := &Poller{updates: make(chan models.DeviceSnapshot, 1)}

	p.publish(models.DeviceSnapshot{Seq: 1})
	p.publish(models.DeviceSnapshot{Seq: 2})

	assert.Equal(t, uint64(2), (<-p.Updates()).Seq)

	select {
	case snap := <-p.Updates():
		t.Fatalf("unexpected extra snapshot %+v", snap)
	default:
	}
}
