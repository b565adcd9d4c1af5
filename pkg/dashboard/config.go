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

package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/carverauto/fleetview/pkg/devicetable"
	"github.com/carverauto/fleetview/pkg/export"
	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/logviewer"
	"github.com/carverauto/fleetview/pkg/models"
)

var errMissingDependency = errors.New("dashboard dependency not set")

// DevicePoller keeps the device list fresh while the table view is shown.
type DevicePoller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Refresh() error
	Snapshot() models.DeviceSnapshot
	Updates() <-chan models.DeviceSnapshot
}

// DeviceExporter writes per-device artifacts.
type DeviceExporter interface {
	CSV(record *models.DeviceRecord) (export.Artifact, error)
	PDF(record *models.DeviceRecord) (export.Artifact, error)
	LogDump(record *models.DeviceRecord, raw []byte) (export.Artifact, error)
}

// Authenticator checks login credentials.
type Authenticator interface {
	Check(username, password string) error
}

// SessionFlags persists the logged-in flag between runs.
type SessionFlags interface {
	Load(ctx context.Context) (models.Session, bool, error)
	Save(ctx context.Context, username string) (models.Session, error)
	Clear(ctx context.Context) error
}

// Link is an agent download shown under the table.
type Link struct {
	Label string
	URL   string
}

type Config struct {
	Poller    DevicePoller
	Viewer    *logviewer.Viewer
	Exporter  DeviceExporter
	Gate      Authenticator
	Session   SessionFlags
	Logger    logger.Logger
	Columns   []devicetable.Column
	Downloads []Link

	// CellRenderer overrides devicetable.Cell.
	CellRenderer devicetable.CellFunc
	// CopyToClipboard defaults to the system clipboard.
	CopyToClipboard func(text string) error
}

func (c *Config) Validate() error {
	required := []struct {
		name    string
		missing bool
	}{
		{"poller", c.Poller == nil},
		{"viewer", c.Viewer == nil},
		{"exporter", c.Exporter == nil},
		{"gate", c.Gate == nil},
		{"session", c.Session == nil},
		{"logger", c.Logger == nil},
	}

	for _, dep := range required {
		if dep.missing {
			return fmt.Errorf("%w: %s", errMissingDependency, dep.name)
		}
	}

	if len(c.Columns) == 0 {
		c.Columns = devicetable.DefaultColumns()
	}

	if c.CellRenderer == nil {
		c.CellRenderer = devicetable.Cell
	}

	if c.CopyToClipboard == nil {
		c.CopyToClipboard = clipboard.WriteAll
	}

	return nil
}
