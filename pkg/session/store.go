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

//go:generate mockgen -destination=mock_session.go -package=session github.com/carverauto/fleetview/pkg/session Store

// Package session persists the dashboard's logged-in flag and checks the
// placeholder login. The login gate keeps casual users out of the table view;
// it is not a security boundary.
package session

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCorruptFlag        = errors.New("stored session flag is corrupt")
	ErrUnknownStore       = errors.New("unknown session store")
	ErrInvalidKey         = errors.New("invalid session key")
)

// Store is the key-value backend for the session flag.
type Store interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
