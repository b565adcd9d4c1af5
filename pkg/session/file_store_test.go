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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "flag")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "flag", []byte(`{"logged_in":true}`)))

	data, ok, err := store.Get(ctx, "flag")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"logged_in":true}`, string(data))

	info, err := os.Stat(filepath.Join(dir, "flag.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storeFilePerms), info.Mode().Perm())

	require.NoError(t, store.Delete(ctx, "flag"))
	require.NoError(t, store.Delete(ctx, "flag"))

	_, ok, err = store.Get(ctx, "flag")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape", "a/b", `a\b`} {
		err := store.Put(context.Background(), key, []byte("x"))
		require.ErrorIs(t, err, ErrInvalidKey, key)
	}
}
