// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"testing"

	"gotest.tools/assert"
)

func TestTransaction_Sign(t *testing.T) {
	priv := GenerateKey(nil)
	tx := NewTransaction().SetNonce(1).SetInput([]byte("input")).Sign(priv)

	assert.NilError(t, tx.Validate())
	assert.DeepEqual(t, tx.Sum(), tx.Hash)
	assert.Assert(t, tx.SenderKey().Equal(priv.PublicKey()))
}

func TestTransaction_Validate(t *testing.T) {
	priv := GenerateKey(nil)
	tx := NewTransaction().SetNonce(1).SetInput([]byte("input")).Sign(priv)

	// tamper input after signing
	tx.Input = []byte("other input")
	assert.Error(t, tx.Validate(), ErrInvalidTxHash.Error())

	// tamper signature
	tx = NewTransaction().SetNonce(1).Sign(priv)
	tx.Signature = GenerateKey(nil).Sign(tx.Hash)
	assert.Error(t, tx.Validate(), ErrInvalidSig.Error())
}

func TestTxCommit_SumEffects(t *testing.T) {
	priv := GenerateKey(nil)
	tx := NewTransaction().SetNonce(1).Sign(priv)

	txc := NewTxCommit().
		SetHash(tx.Hash).
		SetOutput([]byte("ok")).
		SumEffects()

	assert.Equal(t, HashSize, len(txc.EffectsDigest))

	b, err := txc.Marshal()
	assert.NilError(t, err)

	txc2 := NewTxCommit()
	assert.NilError(t, txc2.Unmarshal(b))
	assert.DeepEqual(t, txc.EffectsDigest, txc2.EffectsDigest)
}
