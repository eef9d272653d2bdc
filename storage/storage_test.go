// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soteria-bft/soteria/core"
)

func TestStorage_TxCommit(t *testing.T) {
	assert := assert.New(t)

	strg := New(NewOnMemoryDB())

	priv := core.GenerateKey(nil)
	tx := core.NewTransaction().SetNonce(1).Sign(priv)

	assert.False(strg.HasTxCommit(tx.Hash))
	_, err := strg.GetTxCommit(tx.Hash)
	assert.Error(err)

	txc := core.NewTxCommit().
		SetHash(tx.Hash).
		SetOutput([]byte("output")).
		SumEffects()
	assert.NoError(strg.PutTxCommit(txc))

	assert.True(strg.HasTxCommit(tx.Hash))
	loaded, err := strg.GetTxCommit(tx.Hash)
	assert.NoError(err)
	assert.Equal(txc.EffectsDigest, loaded.EffectsDigest)
	assert.Equal(txc.Output, loaded.Output)
}
