// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/soteria-bft/soteria/core"
)

// Storage persists the effects of executed transactions. It is the
// durable side of the execution engine only; the finality caches are
// in-memory with bounded retention and are never persisted.
type Storage struct {
	db *badger.DB
}

// New creates a Storage over the given db
func New(db *badger.DB) *Storage {
	return &Storage{db: db}
}

// PutTxCommit stores the effects record of an executed transaction
func (strg *Storage) PutTxCommit(txc *core.TxCommit) error {
	val, err := txc.Marshal()
	if err != nil {
		return err
	}
	return setValue(strg.db, concatKey(colTxCommitByHash, txc.Hash), val)
}

// GetTxCommit loads the effects record by transaction hash
func (strg *Storage) GetTxCommit(hash []byte) (*core.TxCommit, error) {
	val, err := getValue(strg.db, concatKey(colTxCommitByHash, hash))
	if err != nil {
		return nil, err
	}
	txc := core.NewTxCommit()
	if err := txc.Unmarshal(val); err != nil {
		return nil, err
	}
	return txc, nil
}

// HasTxCommit reports whether the transaction has executed effects
func (strg *Storage) HasTxCommit(hash []byte) bool {
	return hasKey(strg.db, concatKey(colTxCommitByHash, hash))
}
