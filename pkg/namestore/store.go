// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package namestore persists user-chosen display names for chat
// sessions on the client side.
//
// The backend has no notion of a custom session name; the mapping from
// session identifier to name lives entirely in this durable local
// store. Entries expire 365 days after their last write, and every
// write refreshes the full window.
//
// BadgerDB provides the durable implementation. Its native entry TTL
// carries the expiry, so the store never has to sweep stale names
// itself. Tests use the in-memory variant.
package namestore

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// DefaultTTL is the lifetime of a custom-name entry from its last write.
const DefaultTTL = 365 * 24 * time.Hour

// keyPrefix namespaces custom-name entries within the database.
const keyPrefix = "custom_session_name/"

// Store is the capability the session layer depends on: a key-value
// mapping with per-entry TTL. Implementations must tolerate concurrent
// use from a single process.
type Store interface {
	// Get returns the custom name for a session identifier, or "" and
	// false when none is stored (or the entry has expired).
	Get(id string) (string, bool, error)

	// Set writes or overwrites the custom name for a session
	// identifier and refreshes its expiry to a full TTL window.
	Set(id, name string, ttl time.Duration) error

	// Delete removes the entry for a session identifier. Deleting a
	// missing entry is not an error.
	Delete(id string) error

	// All returns the complete identifier-to-name mapping.
	All() (map[string]string, error)

	// Close releases the underlying database.
	Close() error
}

// badgerStore implements Store over a BadgerDB instance.
type badgerStore struct {
	db *badger.DB
}

// New wraps an opened BadgerDB in a Store.
//
// The caller keeps ownership of db lifecycle only through the returned
// Store; Close closes the database.
func New(db *badger.DB) Store {
	return &badgerStore{db: db}
}

// Open opens a durable store rooted at path.
func Open(path string) (Store, error) {
	db, err := OpenDB(Config{Path: path, SyncWrites: true})
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// OpenInMemory opens a volatile store for tests.
func OpenInMemory() (Store, error) {
	db, err := OpenDB(Config{InMemory: true})
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

func (s *badgerStore) Get(id string) (string, bool, error) {
	var name string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			name = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read custom name for %q: %w", id, err)
	}
	return name, true, nil
}

func (s *badgerStore) Set(id, name string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyPrefix+id), []byte(name)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("write custom name for %q: %w", id, err)
	}
	return nil
}

func (s *badgerStore) Delete(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("delete custom name for %q: %w", id, err)
	}
	return nil
}

func (s *badgerStore) All() (map[string]string, error) {
	names := make(map[string]string)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(keyPrefix):])
			err := item.Value(func(val []byte) error {
				names[id] = string(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list custom names: %w", err)
	}
	return names, nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// COMPILE-TIME INTERFACE CHECKS
// =============================================================================

var _ Store = (*badgerStore)(nil)
