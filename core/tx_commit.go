// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"encoding/json"

	"golang.org/x/crypto/sha3"

	"github.com/soteria-bft/soteria/util"
)

// TxCommit is the effects record of an executed transaction
type TxCommit struct {
	Hash          []byte   `json:"hash"` // tx hash
	EffectsDigest []byte   `json:"effectsDigest"`
	Position      Position `json:"position"`
	Output        []byte   `json:"output"`
	Elapsed       float64  `json:"elapsed"`
	Error         string   `json:"error,omitempty"`
}

func NewTxCommit() *TxCommit {
	return &TxCommit{}
}

func (txc *TxCommit) SetHash(val []byte) *TxCommit {
	txc.Hash = val
	return txc
}

func (txc *TxCommit) SetPosition(val Position) *TxCommit {
	txc.Position = val
	return txc
}

func (txc *TxCommit) SetOutput(val []byte) *TxCommit {
	txc.Output = val
	return txc
}

func (txc *TxCommit) SetElapsed(val float64) *TxCommit {
	txc.Elapsed = val
	return txc
}

func (txc *TxCommit) SetError(val string) *TxCommit {
	txc.Error = val
	return txc
}

// SumEffects computes and stores the effects digest
func (txc *TxCommit) SumEffects() *TxCommit {
	h := sha3.New256()
	h.Write(txc.Hash)
	h.Write(util.Uint64ToBytes(txc.Position.Epoch))
	h.Write(util.Uint32ToBytes(txc.Position.Block.Round))
	h.Write(util.Uint32ToBytes(txc.Position.Index))
	h.Write(txc.Output)
	h.Write([]byte(txc.Error))
	txc.EffectsDigest = h.Sum(nil)
	return txc
}

// Marshal encodes tx commit as bytes
func (txc *TxCommit) Marshal() ([]byte, error) {
	return json.Marshal(txc)
}

// Unmarshal decodes tx commit from bytes
func (txc *TxCommit) Unmarshal(b []byte) error {
	return json.Unmarshal(b, txc)
}
