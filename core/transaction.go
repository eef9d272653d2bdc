// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"bytes"
	"errors"

	"golang.org/x/crypto/sha3"

	"github.com/soteria-bft/soteria/util"
)

// errors
var (
	ErrInvalidTxHash = errors.New("invalid tx hash")
	ErrNilTx         = errors.New("nil tx")
)

// Transaction type
type Transaction struct {
	Nonce     uint64 `json:"nonce"`
	Sender    []byte `json:"sender"`
	Input     []byte `json:"input"`
	Hash      []byte `json:"hash"`
	Signature []byte `json:"signature"`

	sender *PublicKey
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// Sum returns sha3 sum of transaction
func (tx *Transaction) Sum() []byte {
	h := sha3.New256()
	h.Write(util.Uint64ToBytes(tx.Nonce))
	h.Write(tx.Sender)
	h.Write(tx.Input)
	return h.Sum(nil)
}

// Validate transaction
func (tx *Transaction) Validate() error {
	if tx == nil {
		return ErrNilTx
	}
	if !bytes.Equal(tx.Sum(), tx.Hash) {
		return ErrInvalidTxHash
	}
	return VerifySig(tx.Sender, tx.Hash, tx.Signature)
}

func (tx *Transaction) SetNonce(val uint64) *Transaction {
	tx.Nonce = val
	return tx
}

func (tx *Transaction) SetInput(val []byte) *Transaction {
	tx.Input = val
	return tx
}

func (tx *Transaction) Sign(priv *PrivateKey) *Transaction {
	tx.sender = priv.PublicKey()
	tx.Sender = priv.PublicKey().Bytes()
	tx.Hash = tx.Sum()
	tx.Signature = priv.Sign(tx.Hash)
	return tx
}

// SenderKey returns the sender public key
func (tx *Transaction) SenderKey() *PublicKey {
	if tx.sender == nil {
		tx.sender, _ = NewPublicKey(tx.Sender)
	}
	return tx.sender
}
