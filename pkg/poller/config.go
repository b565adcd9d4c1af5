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
	"fmt"
	"time"

	"github.com/carverauto/fleetview/pkg/models"
)

const (
	DefaultPollInterval   = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

type Config struct {
	PollInterval   models.Duration `json:"poll_interval" yaml:"poll_interval"`
	RequestTimeout models.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// Validate fills zero values with defaults and rejects negative durations.
func (c *Config) Validate() error {
	if c.PollInterval == 0 {
		c.PollInterval = models.Duration(DefaultPollInterval)
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = models.Duration(DefaultRequestTimeout)
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, time.Duration(c.PollInterval))
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout %v", ErrInvalidInterval, time.Duration(c.RequestTimeout))
	}

	return nil
}
