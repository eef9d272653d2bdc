// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"sync"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/emitter"
	"github.com/soteria-bft/soteria/util"
)

// LocalFeed is a single-node stand-in for the consensus engine, used
// by the dev node and the load tool. It sequences each submitted
// transaction into its own block, certifies it on the fastpath, and
// commits it under the next leader round. An interval ticker keeps
// committing empty rounds so the retention clock advances under no
// load.
type LocalFeed struct {
	mtx   sync.Mutex
	round uint32

	epoch   uint64
	signer  *core.PrivateKey
	emitter *emitter.Emitter

	stopCh chan struct{}
}

var _ OutputStream = (*LocalFeed)(nil)

// NewLocalFeed creates a LocalFeed for the given epoch
func NewLocalFeed(epoch uint64, signer *core.PrivateKey) *LocalFeed {
	return &LocalFeed{
		epoch:   epoch,
		signer:  signer,
		emitter: emitter.New(),
	}
}

// SubscribeOutput subscribes to the consensus output events
func (f *LocalFeed) SubscribeOutput(buffer int) *emitter.Subscription {
	return f.emitter.Subscribe(buffer)
}

// SubmitTx sequences the transaction and returns its assigned position
func (f *LocalFeed) SubmitTx(tx *core.Transaction) (core.Position, error) {
	if err := tx.Validate(); err != nil {
		return core.Position{}, err
	}

	// emit under the lock; commit events must leave in strictly
	// increasing round order
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.round++
	blk := &CommittedBlock{
		Epoch: f.epoch,
		Ref:   f.makeBlockRef(f.round, tx.Hash),
		Txs:   []CommittedTx{{Tx: tx}},
	}
	pos := blk.Position(0)

	f.emitter.Emit(&CertifiedEvent{Hash: tx.Hash, Position: pos})
	f.emitter.Emit(&CommitEvent{LeaderRound: f.round, Blocks: []*CommittedBlock{blk}})
	return pos, nil
}

func (f *LocalFeed) makeBlockRef(round uint32, txHash []byte) core.BlockRef {
	h := sha3.New256()
	h.Write(util.Uint64ToBytes(f.epoch))
	h.Write(util.Uint32ToBytes(round))
	h.Write(txHash)
	return core.BlockRef{
		Round:  round,
		Author: f.signer.PublicKey().Bytes(),
		Digest: h.Sum(nil),
	}
}

// Start ticks empty rounds at the given interval
func (f *LocalFeed) Start(interval time.Duration) {
	f.stopCh = make(chan struct{})
	go f.tickRounds(interval)
}

// Stop stops the round ticker
func (f *LocalFeed) Stop() {
	close(f.stopCh)
}

func (f *LocalFeed) tickRounds(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-f.stopCh:
			return
		case <-ticker.C:
			f.mtx.Lock()
			f.round++
			f.emitter.Emit(&CommitEvent{LeaderRound: f.round})
			f.mtx.Unlock()
		}
	}
}
