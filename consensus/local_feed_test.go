// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/soteria-bft/soteria/core"
)

func TestLocalFeed_SubmitTx(t *testing.T) {
	assert := assert.New(t)

	feed := NewLocalFeed(1, core.GenerateKey(nil))
	sub := feed.SubscribeOutput(16)
	defer sub.Unsubscribe()

	priv := core.GenerateKey(nil)
	tx := core.NewTransaction().SetNonce(1).SetInput([]byte("input")).Sign(priv)

	pos, err := feed.SubmitTx(tx)
	assert.NoError(err)
	assert.EqualValues(1, pos.Round())
	assert.EqualValues(1, pos.Epoch)

	// certified first, then the commit carrying the tx
	e := <-sub.Events()
	ce, ok := e.(*CertifiedEvent)
	assert.True(ok)
	assert.Equal(tx.Hash, ce.Hash)
	assert.Equal(pos, ce.Position)

	e = <-sub.Events()
	cme, ok := e.(*CommitEvent)
	assert.True(ok)
	assert.EqualValues(1, cme.LeaderRound)
	assert.Equal(tx.Hash, cme.Blocks[0].Txs[0].Tx.Hash)

	// an invalid tx is not sequenced
	bad := core.NewTransaction().SetNonce(2).Sign(priv)
	bad.Input = []byte("tampered")
	_, err = feed.SubmitTx(bad)
	assert.Error(err)
}

func TestLocalFeed_CommitRoundOrder(t *testing.T) {
	assert := assert.New(t)

	feed := NewLocalFeed(1, core.GenerateKey(nil))
	sub := feed.SubscribeOutput(4096)
	defer sub.Unsubscribe()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			priv := core.GenerateKey(nil)
			for n := 0; n < perWorker; n++ {
				tx := core.NewTransaction().SetNonce(uint64(n)).Sign(priv)
				_, err := feed.SubmitTx(tx)
				assert.NoError(err)
			}
		}()
	}
	wg.Wait()

	// commit events from concurrent submitters must arrive in strictly
	// increasing round order; the caches' GC clock relies on it
	last := uint32(0)
	seen := 0
	for seen < workers*perWorker {
		select {
		case e := <-sub.Events():
			cme, ok := e.(*CommitEvent)
			if !ok {
				continue
			}
			assert.Greater(cme.LeaderRound, last)
			last = cme.LeaderRound
			seen++
		case <-time.After(time.Second):
			t.Fatal("missing commit events")
		}
	}
}
