// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/storage"
)

func newTestExecution() *Execution {
	return New(storage.New(storage.NewOnMemoryDB()))
}

func makeTx(nonce uint64) *core.Transaction {
	priv := core.GenerateKey(nil)
	return core.NewTransaction().SetNonce(nonce).SetInput([]byte("input")).Sign(priv)
}

func makePos(round uint32, index uint32) core.Position {
	priv := core.GenerateKey(nil)
	return core.Position{
		Epoch: 1,
		Block: core.BlockRef{
			Round:  round,
			Author: priv.PublicKey().Bytes(),
			Digest: makeTx(uint64(round)).Sum(),
		},
		Index: index,
	}
}

func TestExecution_Execute(t *testing.T) {
	assert := assert.New(t)

	exec := newTestExecution()
	tx := makeTx(1)
	pos := makePos(1, 0)

	assert.Nil(exec.GetEffects(tx.Hash))

	txc := exec.Execute(tx, pos)
	assert.Equal(tx.Hash, txc.Hash)
	assert.Equal(pos, txc.Position)
	assert.NotEmpty(txc.EffectsDigest)
	assert.Empty(txc.Error)
	assert.Equal(exec.StateOf(tx.Sender), txc.Output)

	loaded := exec.GetEffects(tx.Hash)
	assert.NotNil(loaded)
	assert.Equal(txc.EffectsDigest, loaded.EffectsDigest)

	// re-execution is a no-op
	txc2 := exec.Execute(tx, pos)
	assert.Equal(txc.EffectsDigest, txc2.EffectsDigest)
}

func TestExecution_ExecuteInvalidTx(t *testing.T) {
	assert := assert.New(t)

	exec := newTestExecution()
	tx := makeTx(1)
	tx.Input = []byte("tampered")

	txc := exec.Execute(tx, makePos(1, 0))
	assert.NotEmpty(txc.Error)
	assert.Empty(txc.Output)
}

func TestExecution_WaitForEffects(t *testing.T) {
	assert := assert.New(t)

	exec := newTestExecution()
	tx := makeTx(1)
	pos := makePos(1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan *core.TxCommit, 1)
	go func() {
		txc, err := exec.WaitForEffects(ctx, tx.Hash)
		assert.NoError(err)
		done <- txc
	}()

	time.Sleep(10 * time.Millisecond)
	exec.Execute(tx, pos)

	txc := <-done
	assert.Equal(tx.Hash, txc.Hash)

	// resolves immediately for already executed transactions
	txc, err := exec.WaitForEffects(context.Background(), tx.Hash)
	assert.NoError(err)
	assert.NotNil(txc)
}
