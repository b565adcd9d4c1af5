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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/fleetview/pkg/models"
)

// Flags reads and writes the persisted logged-in flag.
type Flags struct {
	store Store
	key   string
	ttl   time.Duration
	now   func() time.Time
}

func NewFlags(store Store, key string, ttl time.Duration) *Flags {
	if key == "" {
		key = DefaultKey
	}

	return &Flags{store: store, key: key, ttl: ttl, now: time.Now}
}

// Load returns the stored session. A missing, logged-out or expired flag
// reports false without error.
func (f *Flags) Load(ctx context.Context) (models.Session, bool, error) {
	data, ok, err := f.store.Get(ctx, f.key)
	if err != nil || !ok {
		return models.Session{}, false, err
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Session{}, false, fmt.Errorf("%w: %w", ErrCorruptFlag, err)
	}

	if !s.LoggedIn {
		return models.Session{}, false, nil
	}

	if f.ttl > 0 && f.now().Sub(s.Since) > f.ttl {
		return models.Session{}, false, nil
	}

	return s, true, nil
}

// Save records a fresh login for username.
func (f *Flags) Save(ctx context.Context, username string) (models.Session, error) {
	s := models.Session{
		LoggedIn: true,
		ID:       uuid.NewString(),
		Username: username,
		Since:    f.now().UTC(),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return models.Session{}, err
	}

	if err := f.store.Put(ctx, f.key, data); err != nil {
		return models.Session{}, fmt.Errorf("save session flag: %w", err)
	}

	return s, nil
}

func (f *Flags) Clear(ctx context.Context) error {
	if err := f.store.Delete(ctx, f.key); err != nil {
		return fmt.Errorf("clear session flag: %w", err)
	}

	return nil
}
