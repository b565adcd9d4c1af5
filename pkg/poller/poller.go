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

// Package poller keeps the device list fresh. While active it refreshes once
// immediately and then on every tick; a failed refresh keeps the last good
// records and only reports the error.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/carverauto/fleetview/pkg/inventory"
	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

// FetchErrorPrefix starts every LastError the poller reports.
const FetchErrorPrefix = "Error fetching devices: "

type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}

	return "idle"
}

type Poller struct {
	config  *Config
	fetcher inventory.Fetcher
	clock   Clock
	logger  logger.Logger

	mu               sync.Mutex
	state            State
	generation       uint64
	nextSeq          uint64
	lastCompletedSeq uint64
	snapshot         models.DeviceSnapshot
	run              *run

	updates chan models.DeviceSnapshot
}

// run is one Active period. Each period gets its own wait groups so a Start
// that follows a timed-out Stop never reuses a group still being waited on.
type run struct {
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	loopWg    sync.WaitGroup
	refreshWg sync.WaitGroup
}

func (r *run) close() {
	r.closeOnce.Do(func() { close(r.done) })
	r.cancel()
}

func New(config *Config, fetcher inventory.Fetcher, clock Clock, log logger.Logger) (*Poller, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	if config == nil {
		config = &Config{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = SystemClock()
	}

	return &Poller{
		config:  config,
		fetcher: fetcher,
		clock:   clock,
		logger:  log,
		updates: make(chan models.DeviceSnapshot, 1),
	}, nil
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Snapshot returns the current fetch state.
func (p *Poller) Snapshot() models.DeviceSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshot
}

// Updates delivers snapshots as they are applied. Only the latest undelivered
// snapshot is kept.
func (p *Poller) Updates() <-chan models.DeviceSnapshot {
	return p.updates
}

// Start moves Idle to Active, fires an immediate refresh and starts the ticker.
// The loop runs until Stop is called. Cancelling ctx also ends the Active
// period and returns the poller to Idle.
func (p *Poller) Start(ctx context.Context) error {
	interval := time.Duration(p.config.PollInterval)

	p.mu.Lock()

	if p.state == Active {
		p.mu.Unlock()
		return ErrAlreadyActive
	}

	r := &run{done: make(chan struct{})}
	r.ctx, r.cancel = context.WithCancel(ctx)

	p.state = Active
	p.run = r

	ticker := p.clock.Ticker(interval)

	r.loopWg.Add(1)
	p.mu.Unlock()

	p.logger.Info().Dur("interval", interval).Msg("Starting poller")

	p.launch()

	go p.loop(r, ticker)

	return nil
}

func (p *Poller) loop(r *run, ticker Ticker) {
	defer r.loopWg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			p.expire(r)
			return
		case <-r.done:
			return
		case <-ticker.Chan():
			p.launch()
		}
	}
}

// expire returns to Idle when the context given to Start is cancelled.
func (p *Poller) expire(r *run) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.run != r {
		return
	}

	p.state = Idle
	p.generation++
	p.run = nil
	r.close()

	p.logger.Info().Msg("Poller context cancelled; polling stopped")
}

// Refresh triggers an out-of-band refresh.
func (p *Poller) Refresh() error {
	if !p.launch() {
		return ErrNotActive
	}

	return nil
}

// launch starts one refresh tagged with the next sequence number. Refreshes
// are not queued; a tick may overlap one still in flight.
func (p *Poller) launch() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Active {
		return false
	}

	p.nextSeq++
	seq, gen, r := p.nextSeq, p.generation, p.run

	r.refreshWg.Add(1)

	go func() {
		defer r.refreshWg.Done()

		p.refresh(r.ctx, seq, gen)
	}()

	return true
}

func (p *Poller) refresh(ctx context.Context, seq, gen uint64) {
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(p.config.RequestTimeout))
	defer cancel()

	records, err := p.fetcher.FetchDevices(reqCtx)

	p.apply(seq, gen, records, err)
}

// apply installs a refresh result unless the poller was stopped since the
// refresh started or a later refresh has already completed.
func (p *Poller) apply(seq, gen uint64, records []*models.DeviceRecord, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Active || gen != p.generation {
		p.logger.Debug().Uint64("seq", seq).Msg("Dropping refresh result after stop")
		return
	}

	if seq <= p.lastCompletedSeq {
		p.logger.Debug().
			Uint64("seq", seq).
			Uint64("last_completed", p.lastCompletedSeq).
			Msg("Discarding stale refresh result")

		return
	}

	p.lastCompletedSeq = seq
	p.snapshot.Seq = seq

	if err != nil {
		p.snapshot.LastError = FetchErrorPrefix + err.Error()
		p.logger.Warn().Err(err).Uint64("seq", seq).Msg("Device refresh failed; keeping previous records")
	} else {
		p.snapshot.Records = records
		p.snapshot.LastError = ""
		p.snapshot.FetchedAt = p.clock.Now()
		p.logger.Debug().Uint64("seq", seq).Int("device_count", len(records)).Msg("Device refresh applied")
	}

	p.publish(p.snapshot)
}

// publish must be called with mu held so snapshots are delivered in apply order.
func (p *Poller) publish(s models.DeviceSnapshot) {
	select {
	case <-p.updates:
	default:
	}

	p.updates <- s
}

// Stop moves Active to Idle. It stops the ticker, cancels in-flight refreshes
// and waits for them, so no result is applied once Stop returns.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()

	if p.state != Active {
		p.mu.Unlock()
		return ErrNotActive
	}

	r := p.run
	p.state = Idle
	p.generation++
	p.run = nil
	r.close()
	p.mu.Unlock()

	p.logger.Info().Msg("Stopping poller")

	finished := make(chan struct{})

	go func() {
		r.loopWg.Wait()
		r.refreshWg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
