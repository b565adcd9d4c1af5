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
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Gate checks a single configured username/password pair.
type Gate struct {
	username string
	hash     []byte
}

// NewGate prefers cfg.PasswordHash and otherwise hashes cfg.Password once at
// startup so the plain text is not kept around.
func NewGate(cfg *Config, cost int) (*Gate, error) {
	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("invalid session.password_hash: %w", err)
		}

		return &Gate{username: cfg.Username, hash: []byte(cfg.PasswordHash)}, nil
	}

	hash, err := HashPassword(cfg.Password, cost)
	if err != nil {
		return nil, err
	}

	return &Gate{username: cfg.Username, hash: []byte(hash)}, nil
}

// Check returns ErrInvalidCredentials for any mismatch.
func (g *Gate) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.hash, []byte(password))

	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// HashPassword returns the bcrypt hash for password_hash. A cost of zero uses
// bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}
