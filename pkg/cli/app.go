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

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/fleetview/pkg/config"
	"github.com/carverauto/fleetview/pkg/dashboard"
	"github.com/carverauto/fleetview/pkg/export"
	"github.com/carverauto/fleetview/pkg/inventory"
	"github.com/carverauto/fleetview/pkg/lifecycle"
	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/logviewer"
	"github.com/carverauto/fleetview/pkg/models"
	"github.com/carverauto/fleetview/pkg/poller"
	"github.com/carverauto/fleetview/pkg/session"
)

var errFailedToLoadConfig = errors.New("failed to load config")

// app holds the components shared by the dashboard and the one-shot commands.
type app struct {
	cfg       *config.FleetviewConfig
	log       logger.Logger
	inventory *inventory.Client
	exporter  *export.Exporter
}

func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg := config.Default()

	if err := config.NewConfig(nil).LoadAndValidate(ctx, opts.ConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	if opts.Verbose {
		cfg.Logging.Debug = true
	}

	log, err := lifecycle.CreateComponentLogger(ctx, "fleetview", &cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if safe, err := config.SanitizeForLog(cfg); err == nil {
		log.Debug().RawJSON("config", safe).Msg("Loaded configuration")
	}

	client, err := inventory.NewClient(inventory.ClientConfig{
		BaseURL: cfg.Inventory.BaseURL,
		Timeout: time.Duration(cfg.Inventory.Timeout),
		Logger:  lifecycle.Derive(log, "inventory"),
	})
	if err != nil {
		return nil, err
	}

	exporter := export.New(
		export.NewFileSink(cfg.Export.Dir),
		export.NewPDFBackend(cfg.Export.PDFFont),
		lifecycle.Derive(log, "export"),
	)

	return &app{cfg: cfg, log: log, inventory: client, exporter: exporter}, nil
}

func (a *app) close() {
	if err := lifecycle.ShutdownLogger(); err != nil {
		a.log.Warn().Err(err).Msg("Logger shutdown failed")
	}
}

// findDevice matches name against hostname, then ip_address.
func (a *app) findDevice(ctx context.Context, name string) (*models.DeviceRecord, error) {
	records, err := a.inventory.FetchDevices(ctx)
	if err != nil {
		return nil, err
	}

	for _, field := range []string{models.FieldHostname, models.FieldIPAddress} {
		for _, rec := range records {
			if strings.EqualFold(rec.String(field), name) {
				return rec, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", errDeviceNotFound, name)
}

func runDashboard(ctx context.Context, opts *RootOptions) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := session.OpenStore(ctx, &a.cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	defer func() { _ = store.Close() }()

	gate, err := session.NewGate(&a.cfg.Session, 0)
	if err != nil {
		return err
	}

	p, err := poller.New(&a.cfg.Poller, a.inventory, poller.SystemClock(), lifecycle.Derive(a.log, "poller"))
	if err != nil {
		return err
	}

	viewer, err := logviewer.New(a.inventory, lifecycle.Derive(a.log, "logviewer"))
	if err != nil {
		return err
	}

	links := make([]dashboard.Link, 0, len(a.cfg.Downloads))
	for _, d := range a.cfg.Downloads {
		links = append(links, dashboard.Link{Label: d.Label, URL: a.cfg.DownloadURL(d)})
	}

	a.log.Info().
		Str("inventory", a.cfg.Inventory.BaseURL).
		Dur("poll_interval", time.Duration(a.cfg.Poller.PollInterval)).
		Str("session_store", a.cfg.Session.Store).
		Msg("Starting dashboard")

	return dashboard.Run(ctx, dashboard.Config{
		Poller:    p,
		Viewer:    viewer,
		Exporter:  a.exporter,
		Gate:      gate,
		Session:   session.NewFlags(store, a.cfg.Session.Key, time.Duration(a.cfg.Session.TTL)),
		Logger:    lifecycle.Derive(a.log, "dashboard"),
		Downloads: links,
	})
}
