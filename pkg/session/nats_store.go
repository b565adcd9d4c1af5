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
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const defaultNATSTimeout = 5 * time.Second

// NATSStore keeps the flag in a JetStream key-value bucket so several
// terminals can share one login.
type NATSStore struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

var _ Store = (*NATSStore)(nil)

// NewNATSStore connects to cfg.URL and ensures the bucket exists. A positive
// ttl expires the flag server-side.
func NewNATSStore(ctx context.Context, cfg NATSConfig, ttl time.Duration) (*NATSStore, error) {
	timeout := time.Duration(cfg.Timeout)
	if timeout <= 0 {
		timeout = defaultNATSTimeout
	}

	opts := []nats.Option{
		nats.Name("fleetview"),
		nats.Timeout(timeout),
	}

	if cfg.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  cfg.Bucket,
		History: 1,
		TTL:     ttl,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open session bucket %q: %w", cfg.Bucket, err)
	}

	return &NATSStore{nc: nc, kv: kv, bucket: cfg.Bucket}, nil
}

func (s *NATSStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return entry.Value(), true, nil
}

func (s *NATSStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.kv.Put(ctx, key, value)
	return err
}

func (s *NATSStore) Delete(ctx context.Context, key string) error {
	err := s.kv.Delete(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}

	return err
}

func (s *NATSStore) Close() error {
	s.nc.Close()
	return nil
}
