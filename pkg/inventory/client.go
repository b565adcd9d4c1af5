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

//go:generate mockgen -destination=mock_inventory.go -package=inventory github.com/carverauto/fleetview/pkg/inventory Fetcher

// Package inventory is the HTTP client for the device inventory endpoint.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/fleetview/pkg/logger"
	"github.com/carverauto/fleetview/pkg/models"
)

const (
	devicesPath        = "devices"
	logsPath           = "logs"
	defaultHTTPTimeout = 30 * time.Second
	maxPayloadBytes    = 64 << 20
	maxErrorBodyBytes  = 2048
)

var (
	ErrBaseURLRequired  = errors.New("inventory base url is required")
	ErrDeviceIDRequired = errors.New("device identifier is required")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrPayloadTooLarge  = errors.New("inventory payload too large")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %d %s", ErrUnexpectedStatus, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}

	return msg
}

func (*StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Fetcher reads device inventory and per-device logs.
type Fetcher interface {
	FetchDevices(ctx context.Context) ([]*models.DeviceRecord, error)
	FetchLogs(ctx context.Context, deviceID string) (*LogsResult, error)
}

// LogsResult carries the decoded entries and the untouched response body.
type LogsResult struct {
	Logs []models.LogEntry
	Raw  []byte
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  logger.Logger
	HTTP    *http.Client
}

type Client struct {
	baseURL *url.URL
	client  *http.Client
	logger  logger.Logger
}

var _ Fetcher = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{baseURL: parsed, client: httpClient, logger: log}, nil
}

// BaseURL is the inventory root that relative links such as downloads resolve against.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// FetchDevices issues GET /devices. A body that is not a JSON array yields an empty list.
func (c *Client) FetchDevices(ctx context.Context) ([]*models.DeviceRecord, error) {
	body, err := c.get(ctx, c.endpoint(devicesPath))
	if err != nil {
		return nil, err
	}

	records, err := models.DecodeDeviceList(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}

	c.logger.Debug().Int("device_count", len(records)).Msg("Fetched devices")

	return records, nil
}

// FetchLogs issues GET /devices/logs/{deviceID}.
func (c *Client) FetchLogs(ctx context.Context, deviceID string) (*LogsResult, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceIDRequired
	}

	body, err := c.get(ctx, c.endpoint(devicesPath, logsPath, deviceID))
	if err != nil {
		return nil, err
	}

	var decoded models.LogsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode logs: %w", err)
	}

	c.logger.Debug().
		Str("device", deviceID).
		Int("log_count", len(decoded.Logs)).
		Msg("Fetched device logs")

	return &LogsResult{Logs: decoded.Logs, Raw: body}, nil
}

// endpoint joins escaped segments onto the base URL.
func (c *Client) endpoint(elems ...string) *url.URL {
	escaped := make([]string, 0, len(elems))
	for _, e := range elems {
		escaped = append(escaped, url.PathEscape(e))
	}

	return c.baseURL.JoinPath(escaped...)
}

func (c *Client) get(ctx context.Context, endpoint *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory response: %w", err)
	}

	if len(body) > maxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	return body, nil
}
