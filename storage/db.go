// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/soteria-bft/soteria/util"
)

// data collection prefixes
const (
	_                 byte = iota
	colTxCommitByHash      // tx commit info by tx hash
)

// NewDB opens a badger db at the given path
func NewDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	return badger.Open(opts)
}

// NewOnMemoryDB opens an in-memory badger db, for tests
func NewOnMemoryDB() *badger.DB {
	opts := badger.DefaultOptions("")
	opts.InMemory = true
	opts.Logger = nil
	db, _ := badger.Open(opts)
	return db
}

func getValue(db *badger.DB, key []byte) ([]byte, error) {
	var val []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			val, err = item.ValueCopy(nil)
		}
		return err
	})
	return val, err
}

func hasKey(db *badger.DB, key []byte) bool {
	err := db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	return err == nil
}

func setValue(db *badger.DB, key, value []byte) error {
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func concatKey(col byte, key []byte) []byte {
	return util.ConcatBytes([]byte{col}, key)
}
