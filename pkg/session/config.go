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

package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carverauto/fleetview/pkg/models"
)

const (
	StoreFile = "file"
	StoreNATS = "nats"

	DefaultKey      = "fleetview.session"
	DefaultBucket   = "fleetview-sessions"
	DefaultUsername = "sspl"
	// DefaultPassword only applies when neither password nor password_hash is configured.
	DefaultPassword = "password"
)

var errNATSURLRequired = errors.New("session.nats.url is required for the nats store")

type NATSConfig struct {
	URL       string          `json:"url" yaml:"url"`
	Bucket    string          `json:"bucket" yaml:"bucket"`
	CredsFile string          `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	Timeout   models.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type Config struct {
	Store        string          `json:"store" yaml:"store"`
	Dir          string          `json:"dir" yaml:"dir"`
	Key          string          `json:"key" yaml:"key"`
	TTL          models.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Username     string          `json:"username" yaml:"username"`
	Password     string          `json:"password,omitempty" yaml:"password,omitempty" sensitive:"true"`
	PasswordHash string          `json:"password_hash,omitempty" yaml:"password_hash,omitempty" sensitive:"true"`
	NATS         NATSConfig      `json:"nats" yaml:"nats"`
}

// Validate fills defaults and checks the selected store has what it needs.
func (c *Config) Validate() error {
	if c.Store == "" {
		c.Store = StoreFile
	}

	if c.Key == "" {
		c.Key = DefaultKey
	}

	if c.Username == "" {
		c.Username = DefaultUsername
	}

	if c.Password == "" && c.PasswordHash == "" {
		c.Password = DefaultPassword
	}

	if c.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative: %v", time.Duration(c.TTL))
	}

	switch c.Store {
	case StoreFile:
		if c.Dir == "" {
			c.Dir = defaultDir()
		}
	case StoreNATS:
		if c.NATS.URL == "" {
			return errNATSURLRequired
		}

		if c.NATS.Bucket == "" {
			c.NATS.Bucket = DefaultBucket
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}

	return nil
}

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "fleetview")
	}

	return filepath.Join(os.TempDir(), "fleetview")
}

// OpenStore builds the store selected by cfg.
func OpenStore(ctx context.Context, cfg *Config) (Store, error) {
	switch cfg.Store {
	case StoreFile, "":
		return NewFileStore(cfg.Dir)
	case StoreNATS:
		return NewNATSStore(ctx, cfg.NATS, time.Duration(cfg.TTL))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}
