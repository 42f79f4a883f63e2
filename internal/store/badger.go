// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const recordPrefix = "rest:"

// BadgerStore is a Badger-backed Store. Records are JSON values under a key
// prefix, one key per restaurant id.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open record store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error { return s.db.Close() }

// GetByID returns the record for id, or (nil, nil) when the id is unknown.
func (s *BadgerStore) GetByID(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(recordPrefix + id)
	var out Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil // not found, no error
		}
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return &out, nil
}

// Put writes one record keyed by its id.
func (s *BadgerStore) Put(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("record id must not be empty")
	}

	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	key := []byte(recordPrefix + rec.ID)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	}); err != nil {
		return fmt.Errorf("put record %s: %w", rec.ID, err)
	}
	return nil
}

var _ Store = (*BadgerStore)(nil)
