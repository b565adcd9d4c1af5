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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGateDefaultCredentials(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	gate, err := NewGate(cfg, bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, gate.Check("sspl", "password"))
	require.ErrorIs(t, gate.Check("sspl", "Password"), ErrInvalidCredentials)
	require.ErrorIs(t, gate.Check("admin", "password"), ErrInvalidCredentials)
	require.ErrorIs(t, gate.Check("", ""), ErrInvalidCredentials)
}

func TestGatePasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &Config{Username: "ops", PasswordHash: hash}
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Password)

	gate, err := NewGate(cfg, bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, gate.Check("ops", "s3cret"))
	require.ErrorIs(t, gate.Check("ops", "password"), ErrInvalidCredentials)
}

func TestGateRejectsBadHash(t *testing.T) {
	_, err := NewGate(&Config{Username: "ops", PasswordHash: "plain"}, bcrypt.MinCost)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, DefaultKey, cfg.Key)
	assert.Equal(t, DefaultUsername, cfg.Username)
	assert.NotEmpty(t, cfg.Dir)

	natsCfg := &Config{Store: StoreNATS}
	require.Error(t, natsCfg.Validate())

	natsCfg.NATS.URL = "nats://127.0.0.1:4222"
	require.NoError(t, natsCfg.Validate())
	assert.Equal(t, DefaultBucket, natsCfg.NATS.Bucket)

	require.ErrorIs(t, (&Config{Store: "redis"}).Validate(), ErrUnknownStore)
	require.Error(t, (&Config{TTL: -1}).Validate())
}
