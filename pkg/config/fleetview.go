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

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
	"github.com/carverauto/fleetview/pkg/poller"
	"github.com/carverauto/fleetview/pkg/session"
)

const (
	DefaultBaseURL          = "http://localhost:8000"
	DefaultInventoryTimeout = 30 * time.Second
	DefaultPDFFont          = "helvetica"
)

var (
	errInvalidBaseURL  = errors.New("inventory.base_url must be an absolute http(s) URL")
	errInvalidDownload = errors.New("download links need a label and a path")
)

// InventoryConfig points at the inventory HTTP API.
type InventoryConfig struct {
	BaseURL string          `json:"base_url" yaml:"base_url"`
	Timeout models.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ExportConfig controls where exported files land.
type ExportConfig struct {
	Dir     string `json:"dir" yaml:"dir"`
	PDFFont string `json:"pdf_font" yaml:"pdf_font"`
}

// DownloadLink is an agent download shown in the table footer.
type DownloadLink struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
}

// FleetviewConfig is the root configuration for the dashboard and CLI.
type FleetviewConfig struct {
	Inventory InventoryConfig `json:"inventory" yaml:"inventory"`
	Poller    poller.Config   `json:"poller" yaml:"poller"`
	Logging   logger.Config   `json:"logging" yaml:"logging"`
	Session   session.Config  `json:"session" yaml:"session"`
	Export    ExportConfig    `json:"export" yaml:"export"`
	Downloads []DownloadLink  `json:"downloads" yaml:"downloads"`
}

// DefaultDownloads mirrors the agent routes served next to the inventory API.
func DefaultDownloads() []DownloadLink {
	return []DownloadLink{
		{Label: "Windows (.ps1)", Path: "/download/windows"},
		{Label: "Windows (.bat)", Path: "/download/windows-bat"},
		{Label: "Linux", Path: "/download/linux"},
	}
}

// Default returns a config with every default filled in.
func Default() *FleetviewConfig {
	cfg := &FleetviewConfig{Logging: *logger.DefaultConfig()}

	// defaults never fail validation
	_ = cfg.Validate()

	return cfg
}

// Validate fills defaults and checks every section.
func (c *FleetviewConfig) Validate() error {
	if c.Inventory.BaseURL == "" {
		c.Inventory.BaseURL = DefaultBaseURL
	}

	u, err := url.Parse(c.Inventory.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, c.Inventory.BaseURL)
	}

	if c.Inventory.Timeout <= 0 {
		c.Inventory.Timeout = models.Duration(DefaultInventoryTimeout)
	}

	if err := c.Poller.Validate(); err != nil {
		return fmt.Errorf("poller: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Output == "" {
		c.Logging.Output = logger.OutputFile
	}

	if c.Logging.Output == logger.OutputFile && c.Logging.File == "" {
		c.Logging.File = logger.DefaultLogFile()
	}

	if c.Export.Dir == "" {
		c.Export.Dir = defaultExportDir()
	}

	if c.Export.PDFFont == "" {
		c.Export.PDFFont = DefaultPDFFont
	}

	if c.Downloads == nil {
		c.Downloads = DefaultDownloads()
	}

	for _, d := range c.Downloads {
		if d.Label == "" || d.Path == "" {
			return fmt.Errorf("%w: %+v", errInvalidDownload, d)
		}
	}

	return nil
}

// DownloadURL resolves a download path against the inventory base URL.
func (c *FleetviewConfig) DownloadURL(link DownloadLink) string {
	if strings.Contains(link.Path, "://") {
		return link.Path
	}

	return strings.TrimRight(c.Inventory.BaseURL, "/") + "/" + strings.TrimLeft(link.Path, "/")
}

func defaultExportDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}

	return "."
}
