// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package namestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SetGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("s1", "我的会话", 0))

	name, ok, err := store.Get("s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "我的会话", name)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	name, ok, err := store.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestStore_OverwriteRefreshes(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("s1", "first", 0))
	require.NoError(t, store.Set("s1", "second", 0))

	name, ok, err := store.Get("s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", name)
}

func TestStore_TTLExpiry(t *testing.T) {
	store := newTestStore(t)

	// Badger TTL has second granularity; use a window short enough to
	// observe expiry within the test.
	require.NoError(t, store.Set("s1", "short-lived", 1*time.Second))

	name, ok, err := store.Get("s1")
	require.NoError(t, err)
	require.True(t, ok, "entry should be visible before expiry, got %q", name)

	time.Sleep(1500 * time.Millisecond)

	_, ok, err = store.Get("s1")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after its TTL")
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("s1", "name", 0))
	require.NoError(t, store.Delete("s1"))

	_, ok, err := store.Get("s1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing entry is not an error.
	require.NoError(t, store.Delete("s1"))
}

func TestStore_All(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("s1", "one", 0))
	require.NoError(t, store.Set("s2", "two", 0))

	all, err := store.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s1": "one", "s2": "two"}, all)
}

func TestOpenDB_RequiresPath(t *testing.T) {
	_, err := OpenDB(Config{})
	assert.Error(t, err)
}

func TestOpen_Persistent(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("s1", "persisted", 0))
	require.NoError(t, store.Close())

	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	name, ok, err := store.Get("s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", name)
}
